package texture

import (
	"image"
	"math"
)

// Procedural fallbacks used when no texture files are configured. Each channel
// carries a different pattern so the six reveal layers stay distinguishable.

// DefaultBase returns a size×size base map: red ramps with u, green with v,
// blue is an 8×8 checker.
func DefaultBase(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(x * 255 / max(size-1, 1))
			img.Pix[i+1] = uint8(y * 255 / max(size-1, 1))
			if (x*8/size+y*8/size)%2 == 0 {
				img.Pix[i+2] = 220
			} else {
				img.Pix[i+2] = 40
			}
			img.Pix[i+3] = 255
		}
	}
	return img
}

// DefaultEmissive returns a size×size glow map: red rings, green diagonal
// stripes, blue radial falloff.
func DefaultEmissive(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
			r := math.Hypot(dx, dy) / c
			i := img.PixOffset(x, y)
			img.Pix[i] = unit8(0.5 + 0.5*math.Cos(r*6*math.Pi))
			img.Pix[i+1] = unit8(0.5 + 0.5*math.Sin(float64(x+y)/float64(size)*8*math.Pi))
			img.Pix[i+2] = unit8(1 - r)
			img.Pix[i+3] = 255
		}
	}
	return img
}

func unit8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
