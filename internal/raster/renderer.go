package raster

import (
	"image"

	"trailfx/internal/mathutil"
	"trailfx/internal/mesh"
	"trailfx/internal/shader"
)

// Minimum clip w for a vertex to be drawn; triangles crossing the eye plane
// are dropped rather than clipped.
const minClipW = 1e-6

// Object is one drawable: a mesh, its material and its model transform.
type Object struct {
	Mesh     *mesh.Mesh
	Material *shader.Material
	Model    mathutil.Mat4
}

// Frame is the per-frame state shared by every object.
type Frame struct {
	View       mathutil.Mat4
	Projection mathutil.Mat4
	Mouse      mathutil.Vec3 // world-space pointer
	Trail      shader.Sampler

	// Encode applies the output transfer curve to the shaded value before
	// quantization.
	Encode bool
	// CullBack skips triangles facing away from the camera.
	CullBack bool
}

// Stats counts the work done by one Render call.
type Stats struct {
	Triangles int // rasterized
	Culled    int // back facing
	Clipped   int // crossed the eye plane
	Fragments int // written after the depth test
}

// Render draws objects into fb. fb is not cleared. Meshes must pass
// mesh.Validate.
func Render(fb *FrameBuffer, f *Frame, objects []Object) Stats {
	var st Stats
	vp := mathutil.Mat4Mul(f.Projection, f.View)
	w, h := float64(fb.Width), float64(fb.Height)

	for _, obj := range objects {
		m := obj.Mesh
		if m == nil || len(m.Verts) == 0 {
			continue
		}
		mat := obj.Material
		if mat == nil {
			mat = &shader.Material{}
		}

		u := &shader.Uniforms{
			Model:      obj.Model,
			View:       f.View,
			Projection: f.Projection,
			Mouse:      f.Mouse,
		}
		vs := shader.NewVertexStage(u, f.Trail)

		// Vertex stage once per vertex
		verts := make([]vertex, len(m.Verts))
		behind := make([]bool, len(m.Verts))
		for i, local := range m.Verts {
			out := vs.Run(local)
			world := obj.Model.MulPoint(out.Local)
			clip := vp.MulVec4(world.Vec4(1))
			if clip[3] <= minClipW {
				behind[i] = true
				continue
			}
			ndc := clip.PerspectiveDivide()
			var uv mathutil.Vec2
			if i < len(m.UVs) {
				uv = m.UVs[i]
			}
			verts[i] = vertex{
				sx:    (ndc[0] + 1) * 0.5 * w,
				sy:    (1 - ndc[1]) * 0.5 * h,
				invW:  1 / clip[3],
				world: world,
				uv:    uv,
			}
		}

		shade := func(in shader.FragmentIn) float64 {
			v := shader.Fragment(u, mat, f.Trail, in).Value
			if f.Encode {
				v = shader.Transfer(mathutil.Clamp01(v))
			}
			return v
		}

		for _, tri := range m.Tris {
			if behind[tri[0]] || behind[tri[1]] || behind[tri[2]] {
				st.Clipped++
				continue
			}
			n := rasterizeTriangle(fb, &verts[tri[0]], &verts[tri[1]], &verts[tri[2]], f.CullBack, shade)
			if n < 0 {
				st.Culled++
				continue
			}
			st.Triangles++
			st.Fragments += n
		}
	}
	return st
}

// RenderImage renders objects into a fresh w×h image cleared to black.
func RenderImage(w, h int, f *Frame, objects []Object) (*image.NRGBA, Stats) {
	fb := NewFrameBuffer(w, h)
	st := Render(fb, f, objects)
	return fb.Image(), st
}
