package viewmatrix

import (
	"trailfx/internal/mathutil"
)

// Camera defaults for the scene: a 50° perspective camera 14 units in front of
// the origin.
const (
	DefaultFOV  = 50.0
	DefaultNear = 0.1
	DefaultFar  = 1000.0
)

var DefaultEye = mathutil.Vec3{0, 0, 14}

// Camera is a perspective camera looking at Target.
type Camera struct {
	FOV    float64 // vertical, degrees
	Aspect float64
	Near   float64
	Far    float64
	Eye    mathutil.Vec3
	Target mathutil.Vec3
	Up     mathutil.Vec3

	view mathutil.Mat4
	proj mathutil.Mat4
}

// NewCamera returns the default camera for a width×height viewport.
func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:  DefaultFOV,
		Near: DefaultNear,
		Far:  DefaultFar,
		Eye:  DefaultEye,
		Up:   mathutil.Vec3{0, 1, 0},
	}
	c.Resize(width, height)
	return c
}

// Resize updates the aspect ratio for a new viewport and rebuilds the matrices.
func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		c.Aspect = 1
	} else {
		c.Aspect = float64(width) / float64(height)
	}
	c.Update()
}

// Update rebuilds the cached matrices after a field changed.
func (c *Camera) Update() {
	c.view = mathutil.LookAt(c.Eye, c.Target, c.Up)
	c.proj = mathutil.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// View returns the world→camera matrix.
func (c *Camera) View() mathutil.Mat4 { return c.view }

// Projection returns the camera→clip matrix.
func (c *Camera) Projection() mathutil.Mat4 { return c.proj }

// ViewProjection returns Projection × View.
func (c *Camera) ViewProjection() mathutil.Mat4 {
	return mathutil.Mat4Mul(c.proj, c.view)
}

// ToNDC maps a device pixel (origin top-left) in a width×height viewport to
// normalized device coordinates with +y up.
func ToNDC(x, y float64, width, height int) mathutil.Vec2 {
	return mathutil.Vec2{
		x/float64(width)*2 - 1,
		-(y/float64(height))*2 + 1,
	}
}

// Ray returns the picking ray through an NDC position.
func (c *Camera) Ray(ndc mathutil.Vec2) mathutil.Ray {
	inv := c.ViewProjection().Inverse()
	near := inv.MulVec4(mathutil.Vec4{ndc[0], ndc[1], -1, 1}).PerspectiveDivide()
	far := inv.MulVec4(mathutil.Vec4{ndc[0], ndc[1], 1, 1}).PerspectiveDivide()
	return mathutil.Ray{Origin: c.Eye, Dir: far.Sub(near).Normalize()}
}

// ScreenUV projects a clip-space position to [0,1] viewport UV with v = 0 at
// the top edge.
func ScreenUV(clip mathutil.Vec4) mathutil.Vec2 {
	ndc := clip.PerspectiveDivide()
	return mathutil.Vec2{(ndc[0] + 1) / 2, 1 - (ndc[1]+1)/2}
}
