package raster

import (
	"math"

	"trailfx/internal/mathutil"
	"trailfx/internal/shader"
)

// vertex is a post-vertex-stage vertex in screen space.
type vertex struct {
	sx, sy float64 // pixel coordinates, y down
	invW   float64
	world  mathutil.Vec3
	uv     mathutil.Vec2
}

// shadeFunc shades one fragment and returns the gray value to store.
type shadeFunc func(in shader.FragmentIn) float64

// rasterizeTriangle fills a triangle with perspective-correct varyings and a
// 1/w depth test. Returns the number of fragments written, or -1 if the
// triangle was culled as back facing.
//
// This is the hot path: no allocation inside the pixel loop.
func rasterizeTriangle(fb *FrameBuffer, v0, v1, v2 *vertex, cullBack bool, shade shadeFunc) int {
	// Signed area in y-down pixel space: front faces (CCW in NDC) are negative.
	area := (v1.sx-v0.sx)*(v2.sy-v0.sy) - (v2.sx-v0.sx)*(v1.sy-v0.sy)
	if area > -1e-12 && area < 1e-12 {
		return 0
	}
	if cullBack && area > 0 {
		return -1
	}
	invArea := 1.0 / area

	// Bounding box over pixel centers
	minX := int(math.Floor(math.Min(math.Min(v0.sx, v1.sx), v2.sx)))
	maxX := int(math.Ceil(math.Max(math.Max(v0.sx, v1.sx), v2.sx)))
	minY := int(math.Floor(math.Min(math.Min(v0.sy, v1.sy), v2.sy)))
	maxY := int(math.Ceil(math.Max(math.Max(v0.sy, v1.sy), v2.sy)))

	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, fb.Width-1)
	maxY = min(maxY, fb.Height-1)
	if minX > maxX || minY > maxY {
		return 0
	}

	invWidth := 1.0 / float64(fb.Width)
	invHeight := 1.0 / float64(fb.Height)
	written := 0

	for py := minY; py <= maxY; py++ {
		cy := float64(py) + 0.5
		rowOff := py * fb.Width
		for px := minX; px <= maxX; px++ {
			cx := float64(px) + 0.5

			// Barycentric weights from edge functions
			l0 := ((v1.sx-cx)*(v2.sy-cy) - (v2.sx-cx)*(v1.sy-cy)) * invArea
			l1 := ((v2.sx-cx)*(v0.sy-cy) - (v0.sx-cx)*(v2.sy-cy)) * invArea
			l2 := 1.0 - l0 - l1
			if l0 < 0 || l1 < 0 || l2 < 0 {
				continue
			}

			iw := l0*v0.invW + l1*v1.invW + l2*v2.invW
			zIdx := rowOff + px
			if iw <= fb.ZBuf[zIdx] {
				continue
			}

			// Perspective-correct interpolation
			p0 := l0 * v0.invW / iw
			p1 := l1 * v1.invW / iw
			p2 := l2 * v2.invW / iw

			in := shader.FragmentIn{
				World: mathutil.Vec3{
					p0*v0.world[0] + p1*v1.world[0] + p2*v2.world[0],
					p0*v0.world[1] + p1*v1.world[1] + p2*v2.world[1],
					p0*v0.world[2] + p1*v1.world[2] + p2*v2.world[2],
				},
				UV: mathutil.Vec2{
					p0*v0.uv[0] + p1*v1.uv[0] + p2*v2.uv[0],
					p0*v0.uv[1] + p1*v1.uv[1] + p2*v2.uv[1],
				},
				ScreenUV: mathutil.Vec2{cx * invWidth, cy * invHeight},
			}

			fb.ZBuf[zIdx] = iw
			c := clamp255(shade(in) * 255)
			pxIdx := zIdx * 4
			fb.Color[pxIdx] = c
			fb.Color[pxIdx+1] = c
			fb.Color[pxIdx+2] = c
			fb.Color[pxIdx+3] = 255
			written++
		}
	}
	return written
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
