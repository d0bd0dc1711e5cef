package mathutil

import "math"

// Ray is a half-line from Origin along Dir (Dir need not be unit length).
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// Quad is a bounded rectangle in a plane, described by its center, unit normal and
// two in-plane unit axes with half extents. Only the side the normal points to is
// pickable.
type Quad struct {
	Center Vec3
	Normal Vec3
	AxisU  Vec3
	AxisV  Vec3
	HalfU  float64
	HalfV  float64
}

// NewFacingQuad returns a width×height quad centered at the origin in the XY plane,
// facing +Z.
func NewFacingQuad(width, height float64) Quad {
	return Quad{
		Normal: Vec3{0, 0, 1},
		AxisU:  Vec3{1, 0, 0},
		AxisV:  Vec3{0, 1, 0},
		HalfU:  width / 2,
		HalfV:  height / 2,
	}
}

// Intersect returns the nearest front-face hit of r with q.
// Rays parallel to the plane, hits behind the origin, back-face hits and hits
// outside the bounds all report false.
func (q Quad) Intersect(r Ray) (Vec3, bool) {
	denom := r.Dir.Dot(q.Normal)
	if denom > -1e-12 {
		return Vec3{}, false
	}
	t := q.Center.Sub(r.Origin).Dot(q.Normal) / denom
	if t <= 0 || math.IsInf(t, 0) || math.IsNaN(t) {
		return Vec3{}, false
	}
	p := r.At(t)
	local := p.Sub(q.Center)
	if math.Abs(local.Dot(q.AxisU)) > q.HalfU || math.Abs(local.Dot(q.AxisV)) > q.HalfV {
		return Vec3{}, false
	}
	return p, true
}
