package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailfx/internal/sequence"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{"width": 640, "decay": 0.05, "base_texture": "tex/base.png", "clamp": false}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 0.05, cfg.Decay)
	assert.Equal(t, filepath.Dir(path), cfg.BaseDir)
	require.NotNil(t, cfg.Clamp)
	assert.False(t, *cfg.Clamp)

	cfg.Resolve(Flags{})
	assert.Equal(t, filepath.Join(filepath.Dir(path), "tex", "base.png"), cfg.BaseTexture)
	assert.False(t, cfg.ClampEnabled())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, `{"width": "wide"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})

	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 240, cfg.Height)
	assert.Equal(t, 2, cfg.Supersample)
	assert.Equal(t, "relief", cfg.Mesh)
	assert.Equal(t, 120, cfg.Frames)
	assert.Equal(t, "circle", cfg.Path)
	assert.Equal(t, sequence.FormatWebP, cfg.Format)
	assert.Equal(t, 0.02, cfg.Decay)
	assert.Equal(t, 0.15, cfg.BrushRadius)
	assert.True(t, cfg.ClampEnabled())
	assert.Positive(t, cfg.Workers)
	assert.Equal(t, "frames", cfg.OutputDir)
	assert.NoError(t, cfg.Validate())
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{Width: 640, Height: 480, Frames: 10, Mesh: "relief", Decay: 0.1}
	cfg.Resolve(Flags{Width: 100, Frames: 3, Mesh: "box", Decay: 0.5, NoClamp: true, OutputDir: "/tmp/out"})

	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
	assert.Equal(t, 3, cfg.Frames)
	assert.Equal(t, "box", cfg.Mesh)
	assert.Equal(t, 0.5, cfg.Decay)
	assert.False(t, cfg.ClampEnabled())
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"decay above one", func(c *Config) { c.Decay = 1.5 }},
		{"negative radius", func(c *Config) { c.BrushRadius = -1 }},
		{"supersample", func(c *Config) { c.Supersample = 16 }},
		{"format", func(c *Config) { c.Format = "gif" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.Resolve(Flags{})
			tt.edit(&cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}
}
