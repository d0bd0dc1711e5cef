package mathutil

// Vec4 is a homogeneous 4-component vector (clip space).
type Vec4 [4]float64

// XYZ drops the w component without dividing.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// PerspectiveDivide returns xyz/w. A zero w yields the undivided xyz.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v[3] == 0 {
		return v.XYZ()
	}
	inv := 1.0 / v[3]
	return Vec3{v[0] * inv, v[1] * inv, v[2] * inv}
}
