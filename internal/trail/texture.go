package trail

import (
	"image"
	"math"

	"github.com/gogpu/gg"
)

// Texture is an immutable snapshot of a Buffer. Logically single channel; the
// RGBA views report R=G=B=intensity with opaque alpha.
type Texture struct {
	width  int
	height int
	pix    []float64
	gen    uint64
}

func (t *Texture) Width() int  { return t.width }
func (t *Texture) Height() int { return t.height }

// Generation counts the updates that produced this snapshot (0 = initial).
func (t *Texture) Generation() uint64 { return t.gen }

// At returns the intensity of pixel (x, y), or 0 outside the raster.
func (t *Texture) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return 0
	}
	return t.pix[y*t.width+x]
}

// Max returns the brightest intensity in the snapshot.
func (t *Texture) Max() float64 {
	m := 0.0
	for _, v := range t.pix {
		if v > m {
			m = v
		}
	}
	return m
}

// Sum returns the total intensity, a cheap "energy" measure of the trail.
func (t *Texture) Sum() float64 {
	s := 0.0
	for _, v := range t.pix {
		s += v
	}
	return s
}

// Red samples the red channel at (u, v) with bilinear filtering and
// clamp-to-edge addressing. v = 0 is the top row.
func (t *Texture) Red(u, v float64) float64 {
	if math.IsNaN(u) || math.IsNaN(v) {
		return 0
	}
	fx := u*float64(t.width) - 0.5
	fy := v*float64(t.height) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	p00 := t.clampedAt(x0, y0)
	p10 := t.clampedAt(x0+1, y0)
	p01 := t.clampedAt(x0, y0+1)
	p11 := t.clampedAt(x0+1, y0+1)

	return p00*(1-dx)*(1-dy) + p10*dx*(1-dy) + p01*(1-dx)*dy + p11*dx*dy
}

func (t *Texture) clampedAt(x, y int) float64 {
	x = min(max(x, 0), t.width-1)
	y = min(max(y, 0), t.height-1)
	return t.pix[y*t.width+x]
}

// Image converts the snapshot to an opaque grayscale NRGBA image.
func (t *Texture) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.width, t.height))
	for i, v := range t.pix {
		c := to8(v)
		o := i * 4
		img.Pix[o] = c
		img.Pix[o+1] = c
		img.Pix[o+2] = c
		img.Pix[o+3] = 255
	}
	return img
}

// Pixmap converts the snapshot to a gg pixmap, e.g. for SavePNG.
func (t *Texture) Pixmap() *gg.Pixmap {
	pm := gg.NewPixmap(t.width, t.height)
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			v := t.pix[y*t.width+x]
			pm.SetPixel(x, y, gg.RGB(v, v, v))
		}
	}
	return pm
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
