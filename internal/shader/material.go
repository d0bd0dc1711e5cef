package shader

import (
	"image"

	"trailfx/internal/mathutil"
	"trailfx/internal/texture"
)

// fallbackColor stands in for a missing texture (mid gray, gamma encoded).
var fallbackColor = mathutil.Vec3{0.5, 0.5, 0.5}

// Material binds the two source textures of a surface. The trail texture is
// shared by all materials and bound per frame.
type Material struct {
	Base     *image.NRGBA // base color (albedo) map
	Emissive *image.NRGBA // glow map
}

// sample reads tex at the surface UV, gamma encoded.
func sample(tex *image.NRGBA, uv mathutil.Vec2) mathutil.Vec3 {
	if tex == nil {
		return fallbackColor
	}
	r, g, b, _ := texture.Sample(tex, uv[0], uv[1])
	return mathutil.Vec3{r, g, b}
}
