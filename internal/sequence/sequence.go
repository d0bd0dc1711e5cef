// Package sequence renders a scripted pointer path through a scene into
// numbered frame files. Frames are rendered in order on the calling goroutine
// because each depends on the previous trail state; encoding runs on a worker
// pool.
package sequence

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/gogpu/gg"

	"trailfx/internal/scene"
	"trailfx/internal/trail"
)

// Frame file formats.
const (
	FormatWebP = "webp"
	FormatPNG  = "png"
)

// Config holds everything a sequence run needs besides the scene.
type Config struct {
	OutputDir string
	Frames    int
	FPS       int
	Format    string // FormatWebP or FormatPNG
	Workers   int
	Path      Path
	// Progress receives a status line every ProgressEvery; nil disables it.
	Progress      io.Writer
	ProgressEvery time.Duration
}

// Result holds the outcome of one frame.
type Result struct {
	Index     int
	File      string // relative to OutputDir
	Pointer   *Waypoint
	TrailMax  float64
	Fragments int
	Success   bool
	Error     string
}

type job struct {
	index int
	img   *image.NRGBA
	path  string
}

// Run renders cfg.Frames frames of s, writing each to OutputDir and
// manifest.json last. Cancelling ctx stops rendering; frames already queued
// are still written and the context error is returned with the partial
// results.
func Run(ctx context.Context, s *scene.Scene, cfg Config) ([]Result, error) {
	if cfg.Format == "" {
		cfg.Format = FormatWebP
	}
	if cfg.Format != FormatWebP && cfg.Format != FormatPNG {
		return nil, fmt.Errorf("sequence: unknown format %q", cfg.Format)
	}
	if cfg.Frames < 0 {
		return nil, fmt.Errorf("sequence: invalid frame count %d", cfg.Frames)
	}
	if cfg.Path == nil {
		cfg.Path = Still()
	}
	cfg.Workers = max(cfg.Workers, 1)
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("sequence: create %s: %w", cfg.OutputDir, err)
	}

	total := cfg.Frames
	results := make([]Result, 0, total)
	var written atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress != nil {
		every := cfg.ProgressEvery
		if every <= 0 {
			every = 2 * time.Second
		}
		go func() {
			ticker := time.NewTicker(every)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := written.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f frames/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	jobs := make(chan job, cfg.Workers*2)
	encodeErrs := make([]string, total)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := WriteFrame(j.path, j.img, cfg.Format); err != nil {
					encodeErrs[j.index] = err.Error()
					trail.Logger().Warn("frame write failed", "frame", j.index, "err", err)
				}
				written.Add(1)
			}
		}()
	}

	// Render in order and hand frames to the pool
	vp := s.Viewport()
	var runErr error
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		wp := cfg.Path.At(i, total)
		if wp != nil {
			s.PointerMoved(wp.X*float64(vp.Width), wp.Y*float64(vp.Height))
		}
		f := s.Frame()

		name := fmt.Sprintf("frame_%05d.%s", i, cfg.Format)
		results = append(results, Result{
			Index:     i,
			File:      name,
			Pointer:   wp,
			TrailMax:  f.Trail.Max(),
			Fragments: f.Stats.Fragments,
		})

		select {
		case jobs <- job{index: i, img: f.Image, path: filepath.Join(cfg.OutputDir, name)}:
		case <-ctx.Done():
			results = results[:len(results)-1]
			runErr = ctx.Err()
		}
		if runErr != nil {
			break
		}
	}
	close(jobs)

	wg.Wait()
	close(done)

	for i := range results {
		if msg := encodeErrs[results[i].Index]; msg != "" {
			results[i].Error = msg
		} else {
			results[i].Success = true
		}
	}

	manifest := Manifest{Width: vp.Width, Height: vp.Height, FPS: cfg.FPS, Format: cfg.Format}
	if err := WriteManifest(filepath.Join(cfg.OutputDir, "manifest.json"), manifest, results); err != nil {
		return results, fmt.Errorf("sequence: write manifest: %w", err)
	}

	trail.Logger().Info("sequence finished",
		"frames", len(results), "elapsed", time.Since(start), "cancelled", runErr != nil)
	if runErr != nil {
		return results, fmt.Errorf("sequence: %w", runErr)
	}
	return results, nil
}

// WriteFrame saves img to path as FormatPNG or, for anything else, WebP.
func WriteFrame(path string, img *image.NRGBA, format string) error {
	if format == FormatPNG {
		if err := gg.FromImage(img).SavePNG(path); err != nil {
			return fmt.Errorf("PNG write: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("WebP encode: %w", err)
	}
	return nil
}
