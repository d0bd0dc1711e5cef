package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"trailfx/internal/config"
	"trailfx/internal/scene"
	"trailfx/internal/sequence"
	"trailfx/internal/texture"
	"trailfx/internal/trail"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before exit.
func run() int {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	frames := flag.Int("frames", 0, "Number of frames to render (default: 120)")
	width := flag.Int("width", 0, "Output width in pixels (default: 320)")
	height := flag.Int("height", 0, "Output height in pixels (default: 240)")
	workers := flag.Int("workers", 0, "Number of encoder goroutines (default: NumCPU)")
	outputDir := flag.String("output", "", "Output directory (default: frames)")
	pathName := flag.String("path", "", "Scripted pointer path: circle, lissajous, none")
	pathFile := flag.String("pathfile", "", "JSON pointer path file (overrides -path)")
	meshName := flag.String("mesh", "", "Procedural mesh: relief, box")
	format := flag.String("format", "", "Frame format: webp, png")
	decay := flag.Float64("decay", 0, "Trail decay per frame (default: 0.02)")
	noClamp := flag.Bool("noclamp", false, "Do not clamp trail intensities to [0, 1]")
	verbose := flag.Bool("v", false, "Log library events to stderr")

	flag.Parse()

	if *verbose {
		trail.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir: *outputDir,
		PathFile:  *pathFile,
		Path:      *pathName,
		Mesh:      *meshName,
		Format:    *format,
		Width:     *width,
		Height:    *height,
		Frames:    *frames,
		Workers:   *workers,
		Decay:     *decay,
		NoClamp:   *noClamp,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Pointer path
	var path sequence.Path
	pathLabel := cfg.Path
	if cfg.PathFile != "" {
		rec, err := sequence.LoadPath(cfg.PathFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading path: %v\n", err)
			return 1
		}
		path = rec
		pathLabel = fmt.Sprintf("%s (%d waypoints)", cfg.PathFile, len(rec))
	} else {
		var err error
		path, err = sequence.PathByName(cfg.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	// Textures
	texIndex := texture.BuildIndex(cfg.TextureDir)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())
	material, warnings := scene.LoadMaterial(texCache, cfg.BaseTexture, cfg.EmissiveTexture)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %v (using procedural texture)\n", w)
	}

	obj, err := scene.DefaultObject(cfg.Mesh, cfg.MeshResolution, material)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	opts := scene.DefaultOptions()
	opts.Supersample = cfg.Supersample
	opts.Encode = true
	opts.Trail = []trail.Option{
		trail.WithDecay(cfg.Decay),
		trail.WithBrushRadius(cfg.BrushRadius),
		trail.WithClamp(cfg.ClampEnabled()),
	}
	sc, err := scene.New(cfg.Width, cfg.Height, []scene.Object{obj}, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating scene: %v\n", err)
		return 1
	}

	// Print summary
	fmt.Printf("Trail renderer → %s\n", cfg.Format)
	fmt.Printf("Frames: %d at %dx%d (x%d), Mesh: %s, Workers: %d\n",
		cfg.Frames, cfg.Width, cfg.Height, cfg.Supersample, obj.Name, cfg.Workers)
	fmt.Printf("Path: %s\n", pathLabel)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	results, runErr := sequence.Run(ctx, sc, sequence.Config{
		OutputDir: cfg.OutputDir,
		Frames:    cfg.Frames,
		FPS:       cfg.FPS,
		Format:    cfg.Format,
		Workers:   cfg.Workers,
		Path:      path,
		Progress:  os.Stdout,
	})

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []sequence.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, cfg.Frames)

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := min(len(errors), 20)
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.File, e.Error)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		return 1
	}
	if failed > 0 {
		return 1
	}
	return 0
}
