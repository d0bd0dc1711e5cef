package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestSampleWrapsAndFilters(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, A: 255})

	r, _, _, a := Sample(img, 0.25, 0.5)
	assert.InDelta(t, 0, r, 1e-12, "texel center")
	assert.InDelta(t, 1, a, 1e-12)

	r, _, _, _ = Sample(img, 0.5, 0.5)
	assert.InDelta(t, 0.5, r, 1e-12, "halfway between texels")

	r1, _, _, _ := Sample(img, 0.75, 0.5)
	r2, _, _, _ := Sample(img, 1.75, 0.5)
	r3, _, _, _ := Sample(img, -0.25, 0.5)
	assert.InDelta(t, r1, r2, 1e-12)
	assert.InDelta(t, r1, r3, 1e-12)
}

func TestLoadTextureAndFit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "base.png")
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	src.Set(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	writePNG(t, path, src)

	img, err := LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, img.NRGBAAt(1, 1))

	small := Fit(img, 2)
	assert.Equal(t, image.Rect(0, 0, 2, 1), small.Bounds())
	assert.Same(t, img, Fit(img, 8))
}

func TestLoadTextureErrors(t *testing.T) {
	_, err := LoadTexture(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = LoadTexture(bad)
	assert.ErrorContains(t, err, "texture: decode")
}

func TestIndexPrefersAlphaFormats(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	writePNG(t, filepath.Join(dir, "Glow.png"), img)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "glow.jpg"), []byte{}, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	writePNG(t, filepath.Join(dir, "sub", "base.png"), img)

	idx := BuildIndex(dir)
	assert.Equal(t, 2, idx.Len())

	p, ok := idx.ResolvePath(`models\GLOW.tga`)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "Glow.png"), p)

	_, ok = idx.ResolvePath("nothing")
	assert.False(t, ok)
}

func TestCacheLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), image.NewNRGBA(image.Rect(0, 0, 3, 3)))

	c := NewCache(BuildIndex(dir))
	first := c.Resolve("a")
	require.NotNil(t, first)
	assert.Same(t, first, c.Resolve("A.png"))

	assert.Nil(t, c.Resolve("missing"))
	_, err := c.Load("missing")
	assert.Error(t, err)
}

func TestProceduralTextures(t *testing.T) {
	base := DefaultBase(64)
	glow := DefaultEmissive(64)
	assert.Equal(t, 64, base.Bounds().Dx())
	assert.Equal(t, uint8(255), base.NRGBAAt(63, 0).R)
	assert.Equal(t, uint8(255), glow.NRGBAAt(10, 10).A)
	assert.NotEqual(t, glow.NRGBAAt(32, 32).B, glow.NRGBAAt(0, 0).B)
}
