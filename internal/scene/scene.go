// Package scene is the explicit frame context: one camera, one paint buffer,
// one pointer mapper and the objects drawn with the trail material. Input
// arrives through PointerMoved; Frame advances the trail once and renders.
package scene

import (
	"fmt"
	"image"
	"sync"

	"trailfx/internal/mathutil"
	"trailfx/internal/mesh"
	"trailfx/internal/pointer"
	"trailfx/internal/postprocess"
	"trailfx/internal/raster"
	"trailfx/internal/shader"
	"trailfx/internal/trail"
	"trailfx/internal/viewmatrix"
)

// DefaultPosition is where the model sits in world space.
var DefaultPosition = mathutil.Vec3{0, 2, 0}

// Object is a mesh placed in the world with the trail material.
type Object struct {
	Name     string
	Mesh     *mesh.Mesh
	Material *shader.Material
	Position mathutil.Vec3
	Rotation mathutil.Vec3 // Euler degrees, applied X then Y then Z
}

// Model returns the object's model matrix.
func (o *Object) Model() mathutil.Mat4 {
	return mathutil.FromMat3Translation(
		mathutil.RotEuler(o.Rotation[0], o.Rotation[1], o.Rotation[2]),
		o.Position,
	)
}

// Options configures a Scene beyond the paint buffer.
type Options struct {
	Supersample int  // render at this factor and downsample, 1 = off
	Encode      bool // apply the output transfer curve
	CullBack    bool
	Trail       []trail.Option
}

// DefaultOptions renders with back-face culling, no supersampling and no
// output encoding.
func DefaultOptions() Options {
	return Options{Supersample: 1, CullBack: true}
}

// Frame is the result of one Scene.Frame call.
type Frame struct {
	Index   uint64
	Image   *image.NRGBA
	Trail   *trail.Texture // snapshot both stages sampled
	Pointer pointer.Sample // pointer state the frame was built from
	Stats   raster.Stats
}

// Scene owns all per-frame state. PointerMoved and Resize may be called from
// any goroutine; Frame must be called from one goroutine at a time.
type Scene struct {
	opts    Options
	buffer  *trail.Buffer
	objects []Object

	mu       sync.RWMutex // guards camera and viewport
	camera   *viewmatrix.Camera
	viewport pointer.Viewport
	mapper   *pointer.Mapper

	frames uint64
}

// New creates a scene for a width×height viewport. The paint buffer is sized
// to the viewport once and never resized.
func New(width, height int, objects []Object, opts Options) (*Scene, error) {
	buf, err := trail.New(width, height, opts.Trail...)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	for i := range objects {
		if objects[i].Mesh == nil {
			return nil, fmt.Errorf("scene: object %d has no mesh", i)
		}
		if err := objects[i].Mesh.Validate(); err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}

	cam := viewmatrix.NewCamera(width, height)
	s := &Scene{
		opts:     opts,
		buffer:   buf,
		objects:  objects,
		camera:   cam,
		viewport: pointer.Viewport{Width: width, Height: height},
		mapper:   pointer.NewMapper(cam),
	}
	trail.Logger().Debug("scene created",
		"width", width, "height", height,
		"objects", len(objects), "supersample", opts.Supersample)
	return s, nil
}

// Buffer returns the paint buffer.
func (s *Scene) Buffer() *trail.Buffer { return s.buffer }

// Viewport returns the current output size.
func (s *Scene) Viewport() pointer.Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport
}

// Pointer returns the current pointer state.
func (s *Scene) Pointer() pointer.Sample { return s.mapper.Snapshot() }

// PointerMoved handles a pointer-move event at device pixel (x, y) of the
// current viewport. Reports whether the proxy plane was hit.
func (s *Scene) PointerMoved(x, y float64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mapper.Move(x, y, s.viewport)
}

// Resize changes the camera aspect and the output size. The paint buffer
// keeps its initial dimensions.
func (s *Scene) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = pointer.Viewport{Width: width, Height: height}
	s.camera.Resize(width, height)
	trail.Logger().Debug("scene resized", "width", width, "height", height)
}

// Reset clears the paint buffer.
func (s *Scene) Reset() { s.buffer.Reset() }

// Frame advances the paint buffer exactly once with the latest buffer-space
// pointer, then renders every object against the new trail snapshot.
func (s *Scene) Frame() *Frame {
	ptr := s.mapper.Snapshot()
	var pt *trail.Point
	if ptr.HasScreen {
		pt = &trail.Point{X: ptr.Screen[0], Y: ptr.Screen[1]}
	}
	s.buffer.Update(pt)
	tex := s.buffer.Texture()

	s.mu.RLock()
	vp := s.viewport
	rf := &raster.Frame{
		View:       s.camera.View(),
		Projection: s.camera.Projection(),
		Mouse:      ptr.World,
		Trail:      tex,
		Encode:     s.opts.Encode,
		CullBack:   s.opts.CullBack,
	}
	s.mu.RUnlock()

	objs := make([]raster.Object, len(s.objects))
	for i := range s.objects {
		objs[i] = raster.Object{
			Mesh:     s.objects[i].Mesh,
			Material: s.objects[i].Material,
			Model:    s.objects[i].Model(),
		}
	}

	var st raster.Stats
	img := postprocess.Supersample(vp.Width, vp.Height, s.opts.Supersample, func(w, h int) *image.NRGBA {
		var out *image.NRGBA
		out, st = raster.RenderImage(w, h, rf, objs)
		return out
	})

	s.frames++
	return &Frame{
		Index:   s.frames - 1,
		Image:   img,
		Trail:   tex,
		Pointer: ptr,
		Stats:   st,
	}
}
