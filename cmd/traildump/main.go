package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"trailfx/internal/sequence"
	"trailfx/internal/trail"
)

type dumpStats struct {
	frame  int
	max    float64
	mean   float64
	lit    int // pixels above litLevel
	center float64
}

const litLevel = 0.05

func measure(frame int, tex *trail.Texture) dumpStats {
	st := dumpStats{
		frame:  frame,
		max:    tex.Max(),
		mean:   tex.Sum() / float64(tex.Width()*tex.Height()),
		center: tex.At(tex.Width()/2, tex.Height()/2),
	}
	for y := 0; y < tex.Height(); y++ {
		for x := 0; x < tex.Width(); x++ {
			if tex.At(x, y) > litLevel {
				st.lit++
			}
		}
	}
	return st
}

func dump(dir string, frame int, tex *trail.Texture) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("trail_%05d.png", frame))
	if err := tex.Pixmap().SavePNG(path); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func main() {
	width := flag.Int("width", 320, "Buffer width in pixels")
	height := flag.Int("height", 240, "Buffer height in pixels")
	frames := flag.Int("frames", 60, "Number of updates")
	every := flag.Int("every", 10, "Dump a PNG every N updates (0: last only)")
	pathName := flag.String("path", "circle", "Scripted pointer path: circle, lissajous, none")
	pathFile := flag.String("pathfile", "", "JSON pointer path file (overrides -path)")
	decay := flag.Float64("decay", trail.DefaultDecay, "Decay per update")
	radius := flag.Float64("radius", trail.DefaultBrushRadius, "Brush radius as a fraction of width")
	noClamp := flag.Bool("noclamp", false, "Do not clamp intensities to [0, 1]")
	outputDir := flag.String("output", ".", "Directory for PNG dumps")
	verbose := flag.Bool("v", false, "Log library events to stderr")
	flag.Parse()

	if *verbose {
		trail.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var path sequence.Path
	var err error
	if *pathFile != "" {
		path, err = sequence.LoadPath(*pathFile)
	} else {
		path, err = sequence.PathByName(*pathName)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	buf, err := trail.New(*width, *height,
		trail.WithDecay(*decay),
		trail.WithBrushRadius(*radius),
		trail.WithClamp(!*noClamp),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Trail buffer %dx%d, decay %.3f, brush radius %.1fpx\n",
		buf.Width(), buf.Height(), buf.Decay(), buf.Radius())
	fmt.Print("Brush alpha:")
	for _, r := range []float64{0, 0.2, 0.4, 0.6, 0.8, 1} {
		fmt.Printf("  %.1fr=%.3f", r, trail.BrushAlpha(trail.DefaultStops, r))
	}
	fmt.Println()
	fmt.Printf("%6s %8s %8s %8s %8s\n", "frame", "max", "mean", "lit", "center")

	// Buffer-space pointer; nil until the path first moves it.
	var pt *trail.Point
	errors := 0
	for i := 0; i < *frames; i++ {
		if wp := path.At(i, *frames); wp != nil {
			pt = &trail.Point{X: wp.X * float64(buf.Width()), Y: wp.Y * float64(buf.Height())}
		}
		buf.Update(pt)

		last := i == *frames-1
		if !last && (*every <= 0 || (i+1)%*every != 0) {
			continue
		}
		tex := buf.Texture()
		st := measure(i, tex)
		fmt.Printf("%6d %8.4f %8.4f %8d %8.4f\n", st.frame, st.max, st.mean, st.lit, st.center)

		out, err := dump(*outputDir, i, tex)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR %v\n", err)
			errors++
			continue
		}
		fmt.Printf("OK  %s\n", out)
	}
	if errors > 0 {
		fmt.Printf("\nDone with %d error(s).\n", errors)
		os.Exit(1)
	}
	fmt.Println("\nDone.")
}
