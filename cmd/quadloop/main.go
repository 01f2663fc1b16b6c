package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"quadloop/internal/config"
	"quadloop/internal/frame"
	"quadloop/internal/logging"
	"quadloop/internal/quad"
	"quadloop/internal/raster"
	"quadloop/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	window := flag.Bool("window", false, "Show the animation in a window instead of recording frames")
	frames := flag.Int("frames", 0, "Number of frames to record (default: 120)")
	outputDir := flag.String("output", "", "Output directory (default: frames)")
	workers := flag.Int("workers", 0, "Number of encoder goroutines (default: NumCPU)")
	width := flag.Int("width", 0, "Output width in pixels (default: 640)")
	height := flag.Int("height", 0, "Output height in pixels (default: 360)")
	verbose := flag.Bool("v", false, "Log pipeline events to stderr")

	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Width:     *width,
		Height:    *height,
		Frames:    *frames,
		OutputDir: *outputDir,
		Workers:   *workers,
	})

	if cfg.Camera.IsDegenerate() {
		fmt.Fprintln(os.Stderr, "Warning: camera position, target and top produce a non-finite view; nothing will be drawn.")
	}

	rw, rh := cfg.RenderSize()
	dev := raster.NewDevice(rw, rh)

	q, err := newQuad(dev, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating quad: %v\n", err)
		os.Exit(1)
	}
	defer q.Release()

	sched := frame.New(*cfg.Camera, frame.WithFPS(cfg.FPS))
	sched.OnResize(rw, rh)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *window {
		err = runWindow(ctx, cfg, dev, sched, q)
	} else {
		err = runHeadless(ctx, cfg, dev, sched, q)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newQuad(dev *raster.Device, cfg config.Config) (*quad.Frame, error) {
	opts := []quad.Option{quad.WithProjection(*cfg.Projection)}

	if cfg.Texture != "" {
		img, err := texture.Load(cfg.Texture)
		if err != nil {
			return nil, err
		}
		tex, err := dev.CreateTexture(img)
		if err != nil {
			return nil, err
		}
		opts = append(opts, quad.WithTexture(tex))
		fmt.Printf("Texture: %s (%dx%d)\n", cfg.Texture, img.Bounds().Dx(), img.Bounds().Dy())
	}

	return quad.New(dev, opts...)
}
