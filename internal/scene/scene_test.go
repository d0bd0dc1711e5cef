package scene

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailfx/internal/mathutil"
	"trailfx/internal/mesh"
	"trailfx/internal/shader"
	"trailfx/internal/texture"
	"trailfx/internal/trail"
)

func solid(v uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	return img
}

// newTestScene builds a 64×48 scene whose only object reads black before the
// trail reaches it and white once fully lit.
func newTestScene(t *testing.T) *Scene {
	t.Helper()
	obj, err := DefaultObject("relief", 16, &shader.Material{Base: solid(255), Emissive: solid(0)})
	require.NoError(t, err)
	s, err := New(64, 48, []Object{obj}, DefaultOptions())
	require.NoError(t, err)
	return s
}

func center(img *image.NRGBA) uint8 {
	b := img.Bounds()
	return img.Pix[img.PixOffset(b.Dx()/2, b.Dy()/2)]
}

func TestNewErrors(t *testing.T) {
	_, err := New(0, 10, nil, DefaultOptions())
	assert.ErrorIs(t, err, trail.ErrInvalidSize)

	_, err = New(10, 10, []Object{{Name: "empty"}}, DefaultOptions())
	assert.Error(t, err)

	bad := &mesh.Mesh{Name: "bad", Verts: make([]mathutil.Vec3, 1)}
	_, err = New(10, 10, []Object{{Mesh: bad}}, DefaultOptions())
	assert.Error(t, err)
}

func TestFrameUpdatesTrailOnce(t *testing.T) {
	s := newTestScene(t)
	before := s.Buffer().Texture().Generation()

	for i := 0; i < 3; i++ {
		f := s.Frame()
		assert.Equal(t, uint64(i), f.Index)
		assert.Equal(t, before+uint64(i)+1, f.Trail.Generation())
		assert.Same(t, f.Trail, s.Buffer().Texture())
	}
}

func TestFrameWithoutPointerStaysDark(t *testing.T) {
	s := newTestScene(t)
	f := s.Frame()

	assert.False(t, f.Pointer.HasScreen)
	assert.Zero(t, f.Trail.Max())
	assert.Positive(t, f.Stats.Fragments)
	assert.Equal(t, uint8(0), center(f.Image))
}

func TestPointerRevealsSurface(t *testing.T) {
	s := newTestScene(t)
	hit := s.PointerMoved(32, 24)
	require.True(t, hit)

	f := s.Frame()
	assert.True(t, f.Pointer.HasScreen)
	assert.InDelta(t, 0, f.Pointer.World[0], 1e-9)
	assert.InDelta(t, 0, f.Pointer.World[1], 1e-9)
	assert.Greater(t, f.Trail.At(32, 24), 0.4)
	assert.Greater(t, center(f.Image), uint8(0))

	// A resting pointer keeps repainting until the surface is fully revealed.
	for i := 0; i < 4; i++ {
		f = s.Frame()
	}
	assert.Greater(t, f.Trail.At(32, 24), 0.9)
	assert.Greater(t, center(f.Image), uint8(128))
}

func TestPointerOutsideBufferOnlyDecays(t *testing.T) {
	s := newTestScene(t)
	s.PointerMoved(32, 24)
	lit := s.Frame().Trail.At(32, 24)

	s.PointerMoved(500, 500)
	faded := s.Frame().Trail.At(32, 24)
	assert.InDelta(t, lit*(1-trail.DefaultDecay), faded, 1e-12)

	s.Reset()
	assert.Zero(t, s.Buffer().Texture().Max())
}

func TestResizeKeepsBuffer(t *testing.T) {
	s := newTestScene(t)
	s.Resize(100, 30)

	assert.Equal(t, 64, s.Buffer().Width())
	assert.Equal(t, 48, s.Buffer().Height())

	f := s.Frame()
	assert.Equal(t, image.Rect(0, 0, 100, 30), f.Image.Bounds())
	assert.Equal(t, 100, s.Viewport().Width)
}

func TestSupersample(t *testing.T) {
	obj, err := DefaultObject("box", 8, nil)
	require.NoError(t, err)
	opts := DefaultOptions()
	opts.Supersample = 2
	s, err := New(32, 24, []Object{obj}, opts)
	require.NoError(t, err)

	f := s.Frame()
	assert.Equal(t, image.Rect(0, 0, 32, 24), f.Image.Bounds())
}

func TestConcurrentPointer(t *testing.T) {
	s := newTestScene(t)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.PointerMoved(float64(i%64), float64(i%48))
			if i%50 == 0 {
				s.Resize(64, 48)
			}
		}
	}()
	for i := 0; i < 5; i++ {
		s.Frame()
	}
	wg.Wait()
	assert.Equal(t, uint64(200), s.Pointer().Moves)
}

func TestLoadMaterial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "base.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, solid(200)))
	require.NoError(t, f.Close())

	cache := texture.NewCache(texture.BuildIndex(dir))

	m, warnings := LoadMaterial(cache, "base", "")
	assert.Empty(t, warnings)
	assert.Equal(t, 4, m.Base.Bounds().Dx())
	assert.Equal(t, ProceduralSize, m.Emissive.Bounds().Dx())

	m, warnings = LoadMaterial(cache, "", "missing.png")
	assert.Len(t, warnings, 1)
	assert.Equal(t, ProceduralSize, m.Emissive.Bounds().Dx())
}

func TestDefaultObject(t *testing.T) {
	obj, err := DefaultObject("box", 8, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultPosition, obj.Position)
	assert.Equal(t, DefaultPosition, obj.Model().MulPoint(mathutil.Vec3{}))

	_, err = DefaultObject("teapot", 8, nil)
	assert.Error(t, err)
}
