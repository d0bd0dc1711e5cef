package mesh

import (
	"fmt"
	"math"

	"trailfx/internal/mathutil"
)

// Triangle indexes three vertices, counter-clockwise when seen from the front.
type Triangle [3]int

// Mesh holds geometry for one drawable. UVs are per vertex.
type Mesh struct {
	Name  string
	Verts []mathutil.Vec3
	UVs   []mathutil.Vec2
	Tris  []Triangle
}

// Validate checks that UVs match vertices and every index is in range.
func (m *Mesh) Validate() error {
	if len(m.UVs) != len(m.Verts) {
		return fmt.Errorf("mesh %s: %d uvs for %d vertices", m.Name, len(m.UVs), len(m.Verts))
	}
	for i, t := range m.Tris {
		for _, vi := range t {
			if vi < 0 || vi >= len(m.Verts) {
				return fmt.Errorf("mesh %s: triangle %d index %d out of range", m.Name, i, vi)
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *Mesh) Bounds() (lo, hi mathutil.Vec3) {
	lo = mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi = mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range m.Verts {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], v[k])
			hi[k] = math.Max(hi[k], v[k])
		}
	}
	return lo, hi
}

// grid appends a cols×rows patch spanning origin + s·du + t·dv (s, t in [0,1]).
// The front side is du × dv. height, if set, displaces along normal.
func (m *Mesh) grid(cols, rows int, origin, du, dv, normal mathutil.Vec3, height func(s, t float64) float64) {
	base := len(m.Verts)
	for j := 0; j <= rows; j++ {
		t := float64(j) / float64(rows)
		for i := 0; i <= cols; i++ {
			s := float64(i) / float64(cols)
			p := origin.Add(du.Scale(s)).Add(dv.Scale(t))
			if height != nil {
				p = p.Add(normal.Scale(height(s, t)))
			}
			m.Verts = append(m.Verts, p)
			m.UVs = append(m.UVs, mathutil.Vec2{s, 1 - t})
		}
	}
	stride := cols + 1
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			a := base + j*stride + i
			b := a + 1
			c := a + stride
			d := c + 1
			m.Tris = append(m.Tris, Triangle{a, b, d}, Triangle{a, d, c})
		}
	}
}

// Relief builds a width×height heightfield in the XY plane facing +Z. Heights
// are in (0, depth]: a dome modulated by ripples, so the depth scale applied
// by the vertex stage is clearly visible.
func Relief(cols, rows int, width, height, depth float64) *Mesh {
	cols, rows = max(cols, 1), max(rows, 1)
	m := &Mesh{Name: "relief"}
	origin := mathutil.Vec3{-width / 2, -height / 2, 0}
	m.grid(cols, rows, origin,
		mathutil.Vec3{width, 0, 0}, mathutil.Vec3{0, height, 0}, mathutil.Vec3{0, 0, 1},
		func(s, t float64) float64 {
			x, y := 2*s-1, 2*t-1
			dome := math.Max(0, 1-0.5*(x*x+y*y))
			ripple := 0.5 + 0.5*math.Cos(6*math.Pi*s)*math.Cos(6*math.Pi*t)
			return depth * (0.15 + 0.85*dome*(0.4+0.6*ripple))
		})
	return m
}

// Box builds an axis-aligned box centered at the origin with each face split
// into seg×seg quads.
func Box(width, height, depth float64, seg int) *Mesh {
	seg = max(seg, 1)
	m := &Mesh{Name: "box"}
	hw, hh, hd := width/2, height/2, depth/2

	type face struct {
		origin, du, dv mathutil.Vec3
	}
	faces := []face{
		{mathutil.Vec3{-hw, -hh, hd}, mathutil.Vec3{width, 0, 0}, mathutil.Vec3{0, height, 0}},  // +Z
		{mathutil.Vec3{hw, -hh, -hd}, mathutil.Vec3{-width, 0, 0}, mathutil.Vec3{0, height, 0}}, // -Z
		{mathutil.Vec3{hw, -hh, hd}, mathutil.Vec3{0, 0, -depth}, mathutil.Vec3{0, height, 0}},  // +X
		{mathutil.Vec3{-hw, -hh, -hd}, mathutil.Vec3{0, 0, depth}, mathutil.Vec3{0, height, 0}}, // -X
		{mathutil.Vec3{-hw, hh, hd}, mathutil.Vec3{width, 0, 0}, mathutil.Vec3{0, 0, -depth}},   // +Y
		{mathutil.Vec3{-hw, -hh, -hd}, mathutil.Vec3{width, 0, 0}, mathutil.Vec3{0, 0, depth}},  // -Y
	}
	for _, f := range faces {
		m.grid(seg, seg, f.origin, f.du, f.dv, mathutil.Vec3{}, nil)
	}
	return m
}

// ByName builds one of the named procedural meshes at the given resolution.
func ByName(name string, resolution int) (*Mesh, error) {
	switch name {
	case "", "relief":
		return Relief(resolution, resolution, 8, 8, 2), nil
	case "box":
		return Box(5, 5, 5, max(resolution/4, 1)), nil
	default:
		return nil, fmt.Errorf("mesh: unknown kind %q", name)
	}
}
