package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"quadloop/internal/batch"
	"quadloop/internal/config"
	"quadloop/internal/frame"
	"quadloop/internal/quad"
	"quadloop/internal/raster"
)

// runHeadless drives the scheduler until cfg.Frames frames have been
// presented, encoding each to WebP.
func runHeadless(ctx context.Context, cfg config.Config, dev *raster.Device, sched *frame.Scheduler, q *quad.Frame) error {
	rec, err := batch.NewRecorder(batch.Config{
		OutputDir: cfg.OutputDir,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Workers:   cfg.Workers,
		Progress:  os.Stdout,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Quad loop -> WebP (%dx%d @ %d fps, supersample %d)\n", cfg.Width, cfg.Height, cfg.FPS, cfg.Supersample)
	fmt.Printf("Frames: %d, Workers: %d\n", cfg.Frames, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var next atomic.Int64
	dev.OnPresent(func(img *image.NRGBA) {
		idx := int(next.Add(1) - 1)
		if idx >= cfg.Frames {
			return
		}
		err := rec.Submit(batch.Frame{Index: idx, RunTime: sched.RunTime(), Image: img})
		if err != nil && !errors.Is(err, batch.ErrClosed) {
			fmt.Fprintf(os.Stderr, "Warning: frame %d: %v\n", idx, err)
		}
		if idx == cfg.Frames-1 {
			cancel()
		}
	})

	start := time.Now()
	runErr := sched.Run(ctx, q)
	dev.OnPresent(nil)
	results := rec.Close()

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var failures []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			failures = append(failures, r)
		}
	}

	fmt.Printf("Recorded: %d/%d\n", success, cfg.Frames)

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(failures) < limit {
			limit = len(failures)
		}
		for _, f := range failures[:limit] {
			fmt.Printf("  %s: %s\n", f.Image, f.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		return fmt.Errorf("%d frames failed to encode", failed)
	}
	// Cancellation is how a complete recording ends; only an interrupt
	// before the last frame is reported.
	if errors.Is(runErr, context.Canceled) && success < cfg.Frames {
		return fmt.Errorf("interrupted after %d frames", success)
	}
	return nil
}
