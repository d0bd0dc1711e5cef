// Package shader is the CPU form of the trail material's shader graph: a
// vertex stage that collapses geometry where the trail is dark and a fragment
// stage that reveals texture channels as the trail brightens.
//
// Both stages read the trail through screen-space UVs, so the effect is
// anchored to the screen rather than to the mesh.
package shader

import (
	"trailfx/internal/mathutil"
	"trailfx/internal/viewmatrix"
)

// Depth scale applied where the trail is fully dark.
const MinDepthScale = 0.03

// Sampler is a read-only trail texture. Red returns the red channel at a
// screen UV with v = 0 at the top edge.
type Sampler interface {
	Red(u, v float64) float64
}

// Uniforms is the per-frame state shared by every vertex and fragment.
type Uniforms struct {
	Model      mathutil.Mat4
	View       mathutil.Mat4
	Projection mathutil.Mat4
	// Mouse is the world-space pointer, zero before the first hit.
	Mouse mathutil.Vec3
}

// ModelView returns View × Model.
func (u *Uniforms) ModelView() mathutil.Mat4 {
	return mathutil.Mat4Mul(u.View, u.Model)
}

// VertexOut is the vertex stage result.
type VertexOut struct {
	Local    mathutil.Vec3 // displaced local position
	ScreenUV mathutil.Vec2 // varying handed to the fragment stage
	Extrude  float64
}

// ExtrudeScale maps trail brightness to the local depth scale:
// mix(MinDepthScale, 1, extrude).
func ExtrudeScale(extrude float64) float64 {
	return mathutil.Mix(MinDepthScale, 1, extrude)
}

// VertexStage runs the vertex program with the matrices of one draw call
// folded together.
type VertexStage struct {
	mvp   mathutil.Mat4
	trail Sampler
}

// NewVertexStage prepares the vertex program for one object and frame.
func NewVertexStage(u *Uniforms, trail Sampler) *VertexStage {
	return &VertexStage{
		mvp:   mathutil.Mat4Mul(u.Projection, u.ModelView()),
		trail: trail,
	}
}

// Run projects local through projection × model-view, samples the trail at
// the resulting screen UV and scales local z by ExtrudeScale.
func (s *VertexStage) Run(local mathutil.Vec3) VertexOut {
	clip := s.mvp.MulVec4(local.Vec4(1))
	uv := viewmatrix.ScreenUV(clip)

	extrude := s.trail.Red(uv[0], uv[1])
	local[2] *= ExtrudeScale(extrude)

	return VertexOut{Local: local, ScreenUV: uv, Extrude: extrude}
}

// Vertex is a one-off NewVertexStage(u, trail).Run(local).
func Vertex(u *Uniforms, trail Sampler, local mathutil.Vec3) VertexOut {
	return NewVertexStage(u, trail).Run(local)
}
