package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"trailfx/internal/config"
	"trailfx/internal/scene"
	"trailfx/internal/sequence"
	"trailfx/internal/texture"
	"trailfx/internal/trail"
)

const frameInterval = 33 * time.Millisecond // ~30 FPS

// Viewer draws the scene with half-block cells: each terminal cell shows two
// vertically stacked pixels, so the image is cols × 2·(rows−1) pixels and the
// last row is the status line.
type Viewer struct {
	screen tcell.Screen
	scene  *scene.Scene

	cols, rows int
	showTrail  bool
	last       *scene.Frame
	outputDir  string
	snapshots  int
	status     string
}

func imageSize(cols, rows int) (int, int) {
	return max(cols, 1), max(rows-1, 1) * 2
}

func NewViewer(cfg config.Config, obj scene.Object, trailOpts []trail.Option) (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	v := &Viewer{screen: screen, outputDir: cfg.OutputDir}
	v.cols, v.rows = screen.Size()
	w, h := imageSize(v.cols, v.rows)

	opts := scene.DefaultOptions()
	opts.Encode = true
	opts.Trail = trailOpts
	v.scene, err = scene.New(w, h, []scene.Object{obj}, opts)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	v.status = "move the mouse · c clear · t trail view · s snapshot · q quit"
	return v, nil
}

// handleInput reports false when the viewer should exit.
func (v *Viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'c':
				v.scene.Reset()
				v.status = "trail cleared"
			case 't':
				v.showTrail = !v.showTrail
			case 's':
				v.snapshot()
			}
		}

	case *tcell.EventMouse:
		// A cell covers pixels (x, 2y) and (x, 2y+1); its center is their shared edge.
		x, y := ev.Position()
		v.scene.PointerMoved(float64(x)+0.5, float64(y)*2+1)

	case *tcell.EventResize:
		v.cols, v.rows = v.screen.Size()
		v.scene.Resize(imageSize(v.cols, v.rows))
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) snapshot() {
	if v.last == nil {
		return
	}
	if err := os.MkdirAll(v.outputDir, 0755); err != nil {
		v.status = err.Error()
		return
	}
	// In trail view the snapshot is the paint buffer itself.
	img, kind := v.last.Image, "snapshot"
	if v.showTrail {
		img, kind = v.last.Trail.Image(), "trail"
	}
	path := filepath.Join(v.outputDir, fmt.Sprintf("%s_%03d.webp", kind, v.snapshots))
	if err := sequence.WriteFrame(path, img, sequence.FormatWebP); err != nil {
		v.status = err.Error()
		return
	}
	v.snapshots++
	v.status = "saved " + path
}

func gray(v uint8) tcell.Color {
	return tcell.NewRGBColor(int32(v), int32(v), int32(v))
}

func trailGray(tex *trail.Texture, x, y int) tcell.Color {
	i := tex.At(x, y)
	return gray(uint8(min(max(i, 0), 1)*255 + 0.5))
}

func (v *Viewer) draw() {
	f := v.last
	img := f.Image
	if b := img.Bounds(); b.Dx() < v.cols || b.Dy() < (v.rows-1)*2 {
		return
	}
	for cy := 0; cy < v.rows-1; cy++ {
		for cx := 0; cx < v.cols; cx++ {
			var top, bottom tcell.Color
			if v.showTrail {
				top = trailGray(f.Trail, cx, cy*2)
				bottom = trailGray(f.Trail, cx, cy*2+1)
			} else {
				top = gray(img.Pix[img.PixOffset(cx, cy*2)])
				bottom = gray(img.Pix[img.PixOffset(cx, cy*2+1)])
			}
			v.screen.SetContent(cx, cy, '▀', nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}

	line := fmt.Sprintf(" frame %d · trail max %.2f · pointer (%.1f, %.1f, %.1f) · %s",
		f.Index, f.Trail.Max(), f.Pointer.World[0], f.Pointer.World[1], f.Pointer.World[2], v.status)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	col := 0
	for _, r := range line {
		if col >= v.cols {
			break
		}
		v.screen.SetContent(col, v.rows-1, r, nil, style)
		col++
	}
	for ; col < v.cols; col++ {
		v.screen.SetContent(col, v.rows-1, ' ', nil, style)
	}
	v.screen.Show()
}

func (v *Viewer) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}

		case <-ticker.C:
			v.last = v.scene.Frame()
			v.draw()
		}
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	configFile := flag.String("config", "", "Path to config.json file")
	meshName := flag.String("mesh", "", "Procedural mesh: relief, box")
	decay := flag.Float64("decay", 0, "Trail decay per frame (default: 0.02)")
	outputDir := flag.String("output", "", "Directory for snapshots (default: frames)")
	logFile := flag.String("log", "", "Write library logs to this file")
	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
	}
	cfg.Resolve(config.Flags{Mesh: *meshName, Decay: *decay, OutputDir: *outputDir})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// The terminal is the display, so logs go to a file.
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		trail.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	material, warnings := scene.LoadMaterial(texture.NewCache(texture.BuildIndex(cfg.TextureDir)),
		cfg.BaseTexture, cfg.EmissiveTexture)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %v (using procedural texture)\n", w)
	}
	obj, err := scene.DefaultObject(cfg.Mesh, cfg.MeshResolution, material)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	v, err := NewViewer(cfg, obj, []trail.Option{
		trail.WithDecay(cfg.Decay),
		trail.WithBrushRadius(cfg.BrushRadius),
		trail.WithClamp(cfg.ClampEnabled()),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	v.run()
	v.screen.Fini()
	return 0
}
