package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"trailfx/internal/sequence"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid value")

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir         string `json:"base_dir"`
	TextureDir      string `json:"texture_dir"`
	BaseTexture     string `json:"base_texture"`
	EmissiveTexture string `json:"emissive_texture"`
	PathFile        string `json:"path_file"`
	OutputDir       string `json:"output_dir"`

	// Render settings
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Supersample    int    `json:"supersample"`
	Mesh           string `json:"mesh"`
	MeshResolution int    `json:"mesh_resolution"`

	// Sequence settings
	Frames int    `json:"frames"`
	FPS    int    `json:"fps"`
	Path   string `json:"path"`
	Format string `json:"format"`

	// Trail settings
	Decay       float64 `json:"decay"`
	BrushRadius float64 `json:"brush_radius"`
	Clamp       *bool   `json:"clamp"`

	Workers int `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values. BaseDir defaults to the
// file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(path)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir string
	PathFile  string
	Path      string
	Mesh      string
	Format    string
	Width     int
	Height    int
	Frames    int
	Workers   int
	Decay     float64
	NoClamp   bool
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.PathFile != "" {
		c.PathFile = flags.PathFile
	}
	if flags.Path != "" {
		c.Path = flags.Path
	}
	if flags.Mesh != "" {
		c.Mesh = flags.Mesh
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Decay > 0 {
		c.Decay = flags.Decay
	}
	if flags.NoClamp {
		off := false
		c.Clamp = &off
	}

	// Resolve relative paths against base dir
	if c.BaseDir != "" {
		c.TextureDir = c.rel(c.TextureDir)
		c.BaseTexture = c.rel(c.BaseTexture)
		c.EmissiveTexture = c.rel(c.EmissiveTexture)
		c.PathFile = c.rel(c.PathFile)
		c.OutputDir = c.rel(c.OutputDir)
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.BaseDir, "frames")
	}

	// Defaults for render settings
	if c.Width <= 0 {
		c.Width = 320
	}
	if c.Height <= 0 {
		c.Height = 240
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Mesh == "" {
		c.Mesh = "relief"
	}
	if c.MeshResolution <= 0 {
		c.MeshResolution = 48
	}
	if c.Frames <= 0 {
		c.Frames = 120
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Path == "" {
		c.Path = "circle"
	}
	if c.Format == "" {
		c.Format = sequence.FormatWebP
	}
	if c.Decay <= 0 {
		c.Decay = 0.02
	}
	if c.BrushRadius <= 0 {
		c.BrushRadius = 0.15
	}
	if c.Clamp == nil {
		on := true
		c.Clamp = &on
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate reports the first setting a resolved config cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Decay <= 0 || c.Decay > 1:
		return fmt.Errorf("%w: decay %g outside (0, 1]", ErrInvalid, c.Decay)
	case c.BrushRadius <= 0:
		return fmt.Errorf("%w: brush radius %g", ErrInvalid, c.BrushRadius)
	case c.Supersample > 8:
		return fmt.Errorf("%w: supersample %d above 8", ErrInvalid, c.Supersample)
	case c.Format != sequence.FormatWebP && c.Format != sequence.FormatPNG:
		return fmt.Errorf("%w: format %q", ErrInvalid, c.Format)
	}
	return nil
}

// ClampEnabled reports the clamp setting, true when unset.
func (c *Config) ClampEnabled() bool {
	return c.Clamp == nil || *c.Clamp
}

func (c *Config) rel(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}
