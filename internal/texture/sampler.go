package texture

import (
	"image"
	"math"
)

// Sample performs bilinear filtering with UV wrapping (repeat addressing) and
// returns normalized RGBA in [0, 1]. v = 0 is the first image row. Reads tex.Pix
// directly.
func Sample(tex *image.NRGBA, u, v float64) (r, g, b, a float64) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, 0, 0, 0
	}

	// Wrap UVs
	u -= math.Floor(u)
	v -= math.Floor(v)

	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	dx := fx - float64(x0)
	dy := fy - float64(y0)
	x0 = wrap(x0, w)
	y0 = wrap(y0, h)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h

	stride := tex.Stride
	pix := tex.Pix

	// Four texels
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	const inv = 1.0 / 255
	r = (float64(pix[i00])*w00 + float64(pix[i10])*w10 + float64(pix[i01])*w01 + float64(pix[i11])*w11) * inv
	g = (float64(pix[i00+1])*w00 + float64(pix[i10+1])*w10 + float64(pix[i01+1])*w01 + float64(pix[i11+1])*w11) * inv
	b = (float64(pix[i00+2])*w00 + float64(pix[i10+2])*w10 + float64(pix[i01+2])*w01 + float64(pix[i11+2])*w11) * inv
	a = (float64(pix[i00+3])*w00 + float64(pix[i10+3])*w10 + float64(pix[i01+3])*w01 + float64(pix[i11+3])*w11) * inv
	return r, g, b, a
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
