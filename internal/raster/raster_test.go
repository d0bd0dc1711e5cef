package raster

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailfx/internal/mathutil"
	"trailfx/internal/mesh"
	"trailfx/internal/shader"
	"trailfx/internal/viewmatrix"
)

type constSampler float64

func (c constSampler) Red(u, v float64) float64 { return float64(c) }

func quad(half, z float64, ccw bool) *mesh.Mesh {
	m := &mesh.Mesh{
		Name: "quad",
		Verts: []mathutil.Vec3{
			{-half, -half, z}, {half, -half, z}, {half, half, z}, {-half, half, z},
		},
		UVs:  []mathutil.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}},
		Tris: []mesh.Triangle{{0, 1, 2}, {0, 2, 3}},
	}
	if !ccw {
		m.Tris = []mesh.Triangle{{0, 2, 1}, {0, 3, 2}}
	}
	return m
}

func solid(v uint8) *shader.Material {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	return &shader.Material{Base: img, Emissive: img}
}

func frame(trail float64) *Frame {
	cam := viewmatrix.NewCamera(64, 64)
	return &Frame{
		View:       cam.View(),
		Projection: cam.Projection(),
		Trail:      constSampler(trail),
		CullBack:   true,
	}
}

func gray(img *image.NRGBA, x, y int) uint8 {
	return img.Pix[img.PixOffset(x, y)]
}

func TestRenderCoversCenter(t *testing.T) {
	obj := Object{Mesh: quad(1, 0, true), Model: mathutil.Mat4Identity()}
	img, st := RenderImage(64, 64, frame(1), []Object{obj})

	assert.Equal(t, 2, st.Triangles)
	assert.Positive(t, st.Fragments)

	// Nil material falls back to mid gray run through the transfer curve.
	want := shader.Transfer(0.5) * 255
	assert.InDelta(t, want, float64(gray(img, 32, 32)), 1)
	assert.Equal(t, uint8(0), gray(img, 0, 0))
	assert.Equal(t, uint8(255), img.Pix[img.PixOffset(0, 0)+3])
}

func TestRenderEncode(t *testing.T) {
	obj := Object{Mesh: quad(1, 0, true), Material: solid(128), Model: mathutil.Mat4Identity()}
	f := frame(1)
	plain, _ := RenderImage(64, 64, f, []Object{obj})
	f.Encode = true
	encoded, _ := RenderImage(64, 64, f, []Object{obj})
	assert.Greater(t, gray(encoded, 32, 32), gray(plain, 32, 32))
}

func TestRenderDepthOrder(t *testing.T) {
	near := Object{Mesh: quad(1, 2, true), Material: solid(255), Model: mathutil.Mat4Identity()}
	far := Object{Mesh: quad(2, -2, true), Material: solid(0), Model: mathutil.Mat4Identity()}

	for _, order := range [][]Object{{near, far}, {far, near}} {
		img, _ := RenderImage(64, 64, frame(1), order)
		assert.Equal(t, uint8(255), gray(img, 32, 32))
	}
}

func TestRenderBackfaceCull(t *testing.T) {
	obj := Object{Mesh: quad(1, 0, false), Model: mathutil.Mat4Identity()}

	f := frame(1)
	img, st := RenderImage(64, 64, f, []Object{obj})
	assert.Equal(t, 2, st.Culled)
	assert.Zero(t, st.Fragments)
	assert.Equal(t, uint8(0), gray(img, 32, 32))

	f.CullBack = false
	_, st = RenderImage(64, 64, f, []Object{obj})
	assert.Zero(t, st.Culled)
	assert.Positive(t, st.Fragments)
}

func TestRenderBehindCamera(t *testing.T) {
	obj := Object{Mesh: quad(1, 20, true), Model: mathutil.Mat4Identity()}
	_, st := RenderImage(64, 64, frame(1), []Object{obj})
	assert.Equal(t, 2, st.Clipped)
	assert.Zero(t, st.Fragments)
}

func TestRenderDarkTrailFlattens(t *testing.T) {
	// A quad lifted toward the camera shrinks back when the trail is dark.
	obj := Object{Mesh: quad(1, 6, true), Model: mathutil.Mat4Identity()}
	_, lit := RenderImage(64, 64, frame(1), []Object{obj})
	_, dark := RenderImage(64, 64, frame(0), []Object{obj})
	assert.Greater(t, lit.Fragments, dark.Fragments)
}

func TestRenderSkipsEmpty(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	st := Render(fb, frame(1), []Object{{}, {Mesh: &mesh.Mesh{}}})
	assert.Equal(t, Stats{}, st)
}

func TestFrameBufferClear(t *testing.T) {
	fb := NewFrameBuffer(4, 3)
	require.Len(t, fb.Color, 4*3*4)
	fb.Clear(10, 20, 30)
	assert.Equal(t, []uint8{10, 20, 30, 255}, fb.Color[:4])
	assert.True(t, math.IsInf(fb.ZBuf[5], -1))

	img := fb.Image()
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, img.NRGBAAt(3, 2))
}
