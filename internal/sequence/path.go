package sequence

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Waypoint is a pointer position in normalized viewport coordinates, (0, 0)
// top-left and (1, 1) bottom-right.
type Waypoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Path scripts the pointer. At returns the waypoint for frame i of n, or nil
// when no pointer-move event happens that frame.
type Path interface {
	At(i, n int) *Waypoint
}

// PathFunc adapts a function to Path.
type PathFunc func(i, n int) *Waypoint

func (f PathFunc) At(i, n int) *Waypoint { return f(i, n) }

// Circle orbits the viewport center once over the sequence.
func Circle(radius float64) Path {
	return PathFunc(func(i, n int) *Waypoint {
		a := 2 * math.Pi * float64(i) / float64(max(n, 1))
		return &Waypoint{X: 0.5 + radius*math.Cos(a), Y: 0.5 + radius*math.Sin(a)}
	})
}

// Lissajous traces a 3:2 Lissajous figure once over the sequence.
func Lissajous(amplitude float64) Path {
	return PathFunc(func(i, n int) *Waypoint {
		a := 2 * math.Pi * float64(i) / float64(max(n, 1))
		return &Waypoint{
			X: 0.5 + amplitude*math.Sin(3*a+math.Pi/2),
			Y: 0.5 + amplitude*math.Sin(2*a),
		}
	})
}

// Still never moves the pointer; the trail only decays.
func Still() Path {
	return PathFunc(func(int, int) *Waypoint { return nil })
}

// Recorded replays a fixed list of waypoints. Frames past the end produce
// no event.
type Recorded []*Waypoint

func (r Recorded) At(i, _ int) *Waypoint {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// PathByName returns a built-in scripted path.
func PathByName(name string) (Path, error) {
	switch name {
	case "", "circle":
		return Circle(0.3), nil
	case "lissajous":
		return Lissajous(0.35), nil
	case "none":
		return Still(), nil
	default:
		return nil, fmt.Errorf("sequence: unknown path %q", name)
	}
}

// LoadPath reads a JSON array of waypoints; null entries are frames without
// a pointer-move event.
func LoadPath(path string) (Recorded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sequence: read %s: %w", path, err)
	}
	var r Recorded
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("sequence: parse %s: %w", path, err)
	}
	return r, nil
}
