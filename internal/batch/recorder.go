package batch

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"quadloop/internal/logging"
	"quadloop/internal/postprocess"

	"github.com/HugoSmits86/nativewebp"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("batch: recorder closed")

// Config holds the settings for a recording run.
type Config struct {
	OutputDir string
	// Width and Height are the encoded frame size. Frames larger than this
	// (supersampled renders) are downsampled first.
	Width   int
	Height  int
	Workers int
	// Progress receives a status line every ProgressEvery; nil disables it.
	Progress      io.Writer
	ProgressEvery time.Duration
}

// Frame is one presented image queued for encoding.
type Frame struct {
	Index   int
	RunTime time.Duration
	Image   *image.NRGBA
}

// Result holds the outcome of encoding one frame.
type Result struct {
	Index   int
	RunTime time.Duration
	Image   string
	Success bool
	Error   string
}

// FrameName returns the file name frame index is written to.
func FrameName(index int) string {
	return fmt.Sprintf("frame_%05d.webp", index)
}

// Recorder encodes frames to WebP on a pool of worker goroutines.
type Recorder struct {
	cfg    Config
	frames chan Frame
	wg     sync.WaitGroup
	done   chan struct{}
	start  time.Time

	create  func(path string) (io.WriteCloser, error)
	encoded atomic.Int64

	// sendMu is held for reading while a frame is queued so Close cannot
	// close the channel under a pending send.
	sendMu sync.RWMutex
	closed bool

	mu      sync.Mutex
	results []Result
}

// NewRecorder creates the output directory and starts the workers.
func NewRecorder(cfg Config) (*Recorder, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = 2 * time.Second
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("batch: create %s: %w", cfg.OutputDir, err)
	}

	r := &Recorder{
		cfg:    cfg,
		frames: make(chan Frame, cfg.Workers*2),
		done:   make(chan struct{}),
		start:  time.Now(),
		create: createFile,
	}

	for w := 0; w < cfg.Workers; w++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for f := range r.frames {
				res := r.encode(f)
				r.encoded.Add(1)
				r.mu.Lock()
				r.results = append(r.results, res)
				r.mu.Unlock()
			}
		}()
	}

	if cfg.Progress != nil {
		go r.report()
	}

	logging.Logger().Info("recorder started",
		"output", cfg.OutputDir, "workers", cfg.Workers)
	return r, nil
}

func (r *Recorder) report() {
	ticker := time.NewTicker(r.cfg.ProgressEvery)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			p := r.encoded.Load()
			if p > 0 {
				elapsed := time.Since(r.start).Seconds()
				rate := float64(p) / elapsed
				fmt.Fprintf(r.cfg.Progress, "  [%d] %.1f frames/sec\n", p, rate)
			}
		}
	}
}

// Submit queues f for encoding. It blocks while all workers are busy and
// the queue is full.
func (r *Recorder) Submit(f Frame) error {
	if f.Image == nil {
		return fmt.Errorf("batch: frame %d has no image", f.Index)
	}
	r.sendMu.RLock()
	defer r.sendMu.RUnlock()
	if r.closed {
		return ErrClosed
	}
	r.frames <- f
	return nil
}

// Close waits for queued frames to finish and returns the results ordered
// by frame index. Only the first call drains the pool.
func (r *Recorder) Close() []Result {
	r.sendMu.Lock()
	if r.closed {
		r.sendMu.Unlock()
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.results
	}
	r.closed = true
	close(r.frames)
	r.sendMu.Unlock()

	r.wg.Wait()
	close(r.done)

	r.mu.Lock()
	defer r.mu.Unlock()
	sort.Slice(r.results, func(i, j int) bool {
		return r.results[i].Index < r.results[j].Index
	})
	logging.Logger().Info("recorder stopped",
		"frames", len(r.results), "elapsed", time.Since(r.start))
	return r.results
}

// Encoded reports how many frames have been written or failed.
func (r *Recorder) Encoded() int {
	return int(r.encoded.Load())
}

func (r *Recorder) encode(f Frame) Result {
	name := FrameName(f.Index)
	res := Result{Index: f.Index, RunTime: f.RunTime, Image: name}

	img := postprocess.Downsample(f.Image, r.cfg.Width, r.cfg.Height)

	outPath := filepath.Join(r.cfg.OutputDir, name)
	file, err := r.create(outPath)
	if err != nil {
		return r.fail(res, err)
	}

	if err := nativewebp.Encode(file, img, nil); err != nil {
		file.Close()
		return r.fail(res, fmt.Errorf("WebP encode: %w", err))
	}
	// A failed close can mean the frame never reached the disk.
	if err := file.Close(); err != nil {
		return r.fail(res, fmt.Errorf("close %s: %w", name, err))
	}

	res.Success = true
	return res
}

func (r *Recorder) fail(res Result, err error) Result {
	res.Error = err.Error()
	logging.Logger().Warn("frame encode failed", "frame", res.Index, "err", err)
	return res
}

func createFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}
