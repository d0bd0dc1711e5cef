package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		e0, e1, x float64
		want      float64
	}{
		{0, 1, -1, 0},
		{0, 1, 0, 0},
		{0, 1, 0.5, 0.5},
		{0, 1, 1, 1},
		{0, 1, 2, 1},
		{0.2, 0.4, 0.25, 0.15625},
		{0.5, 0.5, 0.4, 0},
		{0.5, 0.5, 0.5, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Smoothstep(tt.e0, tt.e1, tt.x), 1e-12, "smoothstep(%v,%v,%v)", tt.e0, tt.e1, tt.x)
	}
}

func TestMixAndClamp(t *testing.T) {
	assert.Equal(t, 0.03, Mix(0.03, 1, 0))
	assert.Equal(t, 1.0, Mix(0.03, 1, 1))
	assert.InDelta(t, 0.515, Mix(0.03, 1, 0.5), 1e-12)
	assert.Equal(t, 0.0, Clamp01(-2))
	assert.Equal(t, 1.0, Clamp01(3))
	assert.Equal(t, 0.25, Clamp01(0.25))
}

func TestMat4InverseRoundTrip(t *testing.T) {
	m := Mat4Mul(Perspective(50, 1.5, 0.1, 1000), LookAt(Vec3{1, 2, 14}, Vec3{}, Vec3{0, 1, 0}))
	id := Mat4Mul(m, m.Inverse())
	for i := range id {
		assert.InDelta(t, Mat4Identity()[i], id[i], 1e-9, "element %d", i)
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{0, 0, 14}
	v := LookAt(eye, Vec3{}, Vec3{0, 1, 0})
	assert.InDelta(t, 0, v.MulPoint(eye).Len(), 1e-12)
	p := v.MulPoint(Vec3{})
	assert.InDelta(t, -14, p[2], 1e-12)
}

func TestFromMat3Translation(t *testing.T) {
	m := FromMat3Translation(RotEuler(0, 90, 0), Vec3{0, 2, 0})
	p := m.MulPoint(Vec3{1, 0, 0})
	assert.InDelta(t, 0, p[0], 1e-12)
	assert.InDelta(t, 2, p[1], 1e-12)
	assert.InDelta(t, -1, p[2], 1e-12)
}

func TestQuadIntersect(t *testing.T) {
	q := NewFacingQuad(19, 19)
	tests := []struct {
		name string
		ray  Ray
		hit  bool
		want Vec3
	}{
		{"straight on", Ray{Origin: Vec3{1, 2, 14}, Dir: Vec3{0, 0, -1}}, true, Vec3{1, 2, 0}},
		{"outside bounds", Ray{Origin: Vec3{10, 0, 14}, Dir: Vec3{0, 0, -1}}, false, Vec3{}},
		{"back face", Ray{Origin: Vec3{0, 0, -5}, Dir: Vec3{0, 0, 1}}, false, Vec3{}},
		{"pointing away", Ray{Origin: Vec3{0, 0, 14}, Dir: Vec3{0, 0, 1}}, false, Vec3{}},
		{"parallel", Ray{Origin: Vec3{0, 0, 14}, Dir: Vec3{1, 0, 0}}, false, Vec3{}},
		{"on the rim", Ray{Origin: Vec3{9.5, -9.5, 3}, Dir: Vec3{0, 0, -2}}, true, Vec3{9.5, -9.5, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := q.Intersect(tt.ray)
			assert.Equal(t, tt.hit, ok)
			if tt.hit {
				for k := 0; k < 3; k++ {
					assert.InDelta(t, tt.want[k], p[k], 1e-9)
				}
			}
		})
	}
}

func TestPerspectiveDivide(t *testing.T) {
	assert.Equal(t, Vec3{1, 2, 3}, Vec4{2, 4, 6, 2}.PerspectiveDivide())
	assert.Equal(t, Vec3{2, 4, 6}, Vec4{2, 4, 6, 0}.PerspectiveDivide())
	assert.InDelta(t, 5.0, Vec3{3, 4, 0}.Distance(Vec3{}), 1e-12)
}
