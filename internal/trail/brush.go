package trail

import (
	"sort"

	"github.com/gogpu/gg"
)

// Stop is one alpha stop of the radial brush. Offset is the fraction of the
// brush radius (0 = center, 1 = rim).
type Stop struct {
	Offset float64
	Alpha  float64
}

// DefaultStops is the brush as authored. The two stops at offset 0 collapse to
// the later one (alpha 0.5).
var DefaultStops = []Stop{
	{Offset: 0, Alpha: 0.7},
	{Offset: 0, Alpha: 0.5},
	{Offset: 0.4, Alpha: 0.1},
	{Offset: 1, Alpha: 0},
}

// ResolveStops orders stops by offset. When several stops share an offset only
// the last one defined survives.
func ResolveStops(stops []Stop) []Stop {
	byOffset := make(map[float64]int, len(stops))
	out := make([]Stop, 0, len(stops))
	for _, s := range stops {
		if i, ok := byOffset[s.Offset]; ok {
			out[i] = s
			continue
		}
		byOffset[s.Offset] = len(out)
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

// brush is a white radial gradient evaluated through gg.
type brush struct {
	grad   *gg.RadialGradientBrush
	cx, cy float64
	radius float64
}

func newBrush(stops []Stop, cx, cy, radius float64) *brush {
	grad := gg.NewRadialGradientBrush(cx, cy, 0, radius)
	for _, s := range stops {
		grad.AddColorStop(s.Offset, gg.RGBA2(1, 1, 1, s.Alpha))
	}
	return &brush{grad: grad, cx: cx, cy: cy, radius: radius}
}

// alphaAt returns the brush coverage at (x, y); zero outside the circle.
func (b *brush) alphaAt(x, y float64) float64 {
	dx, dy := x-b.cx, y-b.cy
	if dx*dx+dy*dy > b.radius*b.radius {
		return 0
	}
	return b.grad.ColorAt(x, y).A
}

// BrushAlpha evaluates the resolved stops at a normalized radius t in [0, 1].
func BrushAlpha(stops []Stop, t float64) float64 {
	b := newBrush(ResolveStops(stops), 0, 0, 1)
	return b.alphaAt(t, 0)
}
