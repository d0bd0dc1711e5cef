package pointer

import (
	"sync"

	"trailfx/internal/mathutil"
	"trailfx/internal/viewmatrix"
)

// ProxySize is the side length of the square pick plane centered at the origin.
const ProxySize = 19.0

// Viewport is the device pixel size the pointer coordinates refer to.
type Viewport struct {
	Width, Height int
}

// Sample is a snapshot of the pointer state. World and Screen are updated by
// different rules and are not projections of each other.
type Sample struct {
	World     mathutil.Vec3 // last proxy-plane hit, zero until the first hit
	Screen    mathutil.Vec2 // raw device pixels of the last move
	HasScreen bool          // false until the first move
	Hits      uint64        // number of moves that hit the proxy plane
	Moves     uint64
}

// Mapper owns the pointer state. Move may be called from an input goroutine
// while Snapshot is read once per frame.
type Mapper struct {
	camera *viewmatrix.Camera
	plane  mathutil.Quad

	mu    sync.Mutex
	state Sample
}

// NewMapper creates a mapper picking against the default proxy plane.
func NewMapper(camera *viewmatrix.Camera) *Mapper {
	return &Mapper{
		camera: camera,
		plane:  mathutil.NewFacingQuad(ProxySize, ProxySize),
	}
}

// Move records a pointer move at device pixel (x, y). The buffer-space point is
// always replaced; the world point only changes when the ray hits the plane.
// Reports whether the plane was hit.
func (m *Mapper) Move(x, y float64, vp Viewport) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Screen = mathutil.Vec2{x, y}
	m.state.HasScreen = true
	m.state.Moves++

	if vp.Width <= 0 || vp.Height <= 0 {
		return false
	}
	ray := m.camera.Ray(viewmatrix.ToNDC(x, y, vp.Width, vp.Height))
	hit, ok := m.plane.Intersect(ray)
	if !ok {
		return false
	}
	m.state.World = hit
	m.state.Hits++
	return true
}

// Snapshot returns a copy of the current pointer state.
func (m *Mapper) Snapshot() Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
