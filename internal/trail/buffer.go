// Package trail implements the decaying paint buffer: a single-channel raster
// that fades every frame and accumulates a soft radial brush at the pointer.
package trail

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

const (
	// DefaultDecay is the fraction of intensity removed per Update.
	DefaultDecay = 0.02
	// DefaultBrushRadius is the brush radius as a fraction of the buffer width.
	DefaultBrushRadius = 0.15
	// MaxPixels bounds the raster size a Buffer will allocate.
	MaxPixels = 1 << 26
)

var (
	ErrInvalidSize   = errors.New("trail: invalid buffer size")
	ErrSurface       = errors.New("trail: cannot allocate drawing surface")
	ErrInvalidOption = errors.New("trail: invalid option")
)

// Point is a position in buffer space (pixels, origin top-left).
type Point struct {
	X, Y float64
}

// Option configures a Buffer at construction.
type Option func(*options)

type options struct {
	decay  float64
	radius float64
	stops  []Stop
	clamp  bool
}

func defaultOptions() options {
	return options{
		decay:  DefaultDecay,
		radius: DefaultBrushRadius,
		stops:  DefaultStops,
		clamp:  true,
	}
}

// WithDecay sets the per-update decay fraction, in (0, 1].
func WithDecay(rate float64) Option {
	return func(o *options) { o.decay = rate }
}

// WithBrushRadius sets the brush radius as a fraction of the buffer width.
func WithBrushRadius(fraction float64) Option {
	return func(o *options) { o.radius = fraction }
}

// WithStops replaces the brush alpha stops.
func WithStops(stops ...Stop) Option {
	return func(o *options) { o.stops = stops }
}

// WithClamp toggles clamping intensities to [0, 1] after each composite.
func WithClamp(on bool) Option {
	return func(o *options) { o.clamp = on }
}

// Buffer is the paint buffer. Update is the only writer; readers take
// immutable Texture snapshots.
type Buffer struct {
	mu     sync.Mutex
	width  int
	height int
	decay  float64
	radius float64
	stops  []Stop
	clamp  bool
	pix    []float64 // working raster, row-major, len = width*height
	gen    uint64

	published atomic.Pointer[Texture]
}

// New allocates a black buffer of the given size.
func New(width, height int, opts ...Option) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if int64(width)*int64(height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrSurface, width, height, MaxPixels)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.decay > 0 && o.decay <= 1) {
		return nil, fmt.Errorf("%w: decay %v not in (0, 1]", ErrInvalidOption, o.decay)
	}
	if !(o.radius > 0) || math.IsInf(o.radius, 0) {
		return nil, fmt.Errorf("%w: brush radius %v", ErrInvalidOption, o.radius)
	}
	if len(o.stops) == 0 {
		return nil, fmt.Errorf("%w: no brush stops", ErrInvalidOption)
	}
	for _, s := range o.stops {
		if !(s.Offset >= 0 && s.Offset <= 1) || !(s.Alpha >= 0 && s.Alpha <= 1) {
			return nil, fmt.Errorf("%w: stop %+v out of range", ErrInvalidOption, s)
		}
	}

	b := &Buffer{
		width:  width,
		height: height,
		decay:  o.decay,
		radius: o.radius * float64(width),
		stops:  ResolveStops(o.stops),
		clamp:  o.clamp,
		pix:    make([]float64, width*height),
	}
	b.publish()

	Logger().Debug("trail buffer created",
		"width", width, "height", height, "decay", b.decay, "radius", b.radius)
	return b, nil
}

// Width returns the fixed buffer width.
func (b *Buffer) Width() int { return b.width }

// Height returns the fixed buffer height.
func (b *Buffer) Height() int { return b.height }

// Decay returns the per-update decay fraction.
func (b *Buffer) Decay() float64 { return b.decay }

// Radius returns the brush radius in pixels.
func (b *Buffer) Radius() float64 { return b.radius }

// Update advances the buffer by one frame: every pixel is multiplied by
// (1 - decay), then, if pt is non-nil and inside the buffer, the brush is
// composited source-over at pt. Out-of-bounds points only decay.
func (b *Buffer) Update(pt *Point) {
	b.mu.Lock()
	defer b.mu.Unlock()

	keep := 1 - b.decay
	for i := range b.pix {
		b.pix[i] *= keep
	}

	if pt != nil && b.contains(*pt) {
		b.paint(*pt)
	}

	if b.clamp {
		for i, v := range b.pix {
			if v > 1 {
				b.pix[i] = 1
			} else if v < 0 {
				b.pix[i] = 0
			}
		}
	}

	b.gen++
	b.publish()
}

// Reset clears the buffer to black.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	clear(b.pix)
	b.gen++
	b.publish()
	Logger().Debug("trail buffer reset", "generation", b.gen)
}

// Texture returns the snapshot published by the most recent Update. The
// snapshot never changes; fetch a new one each frame.
func (b *Buffer) Texture() *Texture {
	return b.published.Load()
}

func (b *Buffer) contains(p Point) bool {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return false
	}
	return p.X >= 0 && p.X < float64(b.width) && p.Y >= 0 && p.Y < float64(b.height)
}

// paint composites a white brush: I = a + I*(1-a), sampled at pixel centers.
// The pixel containing p is sampled at p when its center falls outside a
// sub-pixel brush.
func (b *Buffer) paint(p Point) {
	br := newBrush(b.stops, p.X, p.Y, b.radius)
	px, py := int(p.X), int(p.Y)

	minX := max(int(math.Floor(p.X-b.radius)), 0)
	maxX := min(int(math.Ceil(p.X+b.radius)), b.width-1)
	minY := max(int(math.Floor(p.Y-b.radius)), 0)
	maxY := min(int(math.Ceil(p.Y+b.radius)), b.height-1)

	for y := minY; y <= maxY; y++ {
		row := y * b.width
		cy := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			a := br.alphaAt(float64(x)+0.5, cy)
			if a <= 0 && x == px && y == py {
				a = br.alphaAt(p.X, p.Y)
			}
			if a <= 0 {
				continue
			}
			i := row + x
			b.pix[i] = a + b.pix[i]*(1-a)
		}
	}
}

// publish copies the working raster into a fresh snapshot. Caller holds mu
// (or is the constructor).
func (b *Buffer) publish() {
	pix := make([]float64, len(b.pix))
	copy(pix, b.pix)
	b.published.Store(&Texture{
		width:  b.width,
		height: b.height,
		pix:    pix,
		gen:    b.gen,
	})
}
