package shader

import (
	"math"

	"trailfx/internal/mathutil"
)

// LayerCount is the number of reveal layers blended by the fragment stage.
const LayerCount = 6

// Transfer converts one gamma-encoded channel value with the piecewise sRGB
// curve used by the material: 12.92·v below 0.0031308, else 1.055·v^(1/2.4) − 0.055.
func Transfer(v float64) float64 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return math.Pow(v, 1/2.4)*1.055 - 0.055
}

// TransferColor applies Transfer per channel.
func TransferColor(c mathutil.Vec3) mathutil.Vec3 {
	return mathutil.Vec3{Transfer(c[0]), Transfer(c[1]), Transfer(c[2])}
}

// Layers picks the six reveal layers in order: emissive blue, green, red, then
// base blue, green, red. Inputs are already converted.
func Layers(base, emissive mathutil.Vec3) [LayerCount]float64 {
	return [LayerCount]float64{
		emissive[2], emissive[1], emissive[0],
		base[2], base[1], base[0],
	}
}

// Blend starts at layer 0 and reveals layer i across the band
// [0.2(i−1), 0.2i] of extrude with a smoothstep.
func Blend(layers [LayerCount]float64, extrude float64) float64 {
	final := layers[0]
	for i := 1; i < LayerCount; i++ {
		lo := float64(i-1) / (LayerCount - 1)
		hi := float64(i) / (LayerCount - 1)
		final = mathutil.Mix(final, layers[i], mathutil.Smoothstep(lo, hi, extrude))
	}
	return final
}

// Palette is the cosine palette a + b·cos(2π(c·t + d)) the material was
// designed around. The fragment stage does not apply it.
func Palette(t float64) mathutil.Vec3 {
	d := mathutil.Vec3{0.00, 0.10, 0.20}
	var out mathutil.Vec3
	for k := range out {
		out[k] = 0.5 + 0.5*math.Cos(2*math.Pi*(t+d[k]))
	}
	return out
}

// FragmentIn carries the interpolated varyings of one fragment.
type FragmentIn struct {
	World    mathutil.Vec3 // world-space position
	UV       mathutil.Vec2 // surface UV
	ScreenUV mathutil.Vec2 // viewport UV, v = 0 at the top edge
}

// FragmentOut is the fragment stage result.
type FragmentOut struct {
	Color   mathutil.Vec4 // (v, v, v, 1)
	Value   float64
	Extrude float64
	// Distance from the fragment to the world-space pointer. Computed every
	// fragment but not consumed by the blend yet.
	Distance float64
}

// Fragment shades one fragment.
func Fragment(u *Uniforms, m *Material, trail Sampler, in FragmentIn) FragmentOut {
	dist := in.World.Distance(u.Mouse)

	base := TransferColor(sample(m.Base, in.UV))
	emissive := TransferColor(sample(m.Emissive, in.UV))

	extrude := trail.Red(in.ScreenUV[0], in.ScreenUV[1])
	v := Blend(Layers(base, emissive), extrude)

	return FragmentOut{
		Color:    mathutil.Vec4{v, v, v, 1},
		Value:    v,
		Extrude:  extrude,
		Distance: dist,
	}
}
