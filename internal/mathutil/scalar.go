package mathutil

// Scalar helpers mirroring the shading-language builtins used by the shader stages.

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Clamp01 limits x to [0, 1].
func Clamp01(x float64) float64 {
	return Clamp(x, 0, 1)
}

// Mix linearly interpolates between a and b by t (GLSL mix). Exact at t = 0 and t = 1.
func Mix(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// Smoothstep is the cubic Hermite step between edge0 and edge1 (GLSL smoothstep).
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}
