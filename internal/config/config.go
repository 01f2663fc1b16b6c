package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"quadloop/internal/viewmatrix"
)

// Defaults applied by Resolve.
const (
	DefaultWidth     = 640
	DefaultHeight    = 360
	DefaultFPS       = 60
	DefaultFrames    = 120
	DefaultOutputDir = "frames"
)

// Config holds the window, timing, recording and camera settings.
type Config struct {
	// Output surface
	Width  int `json:"width"`
	Height int `json:"height"`

	// Timing
	FPS    int `json:"fps"`
	Frames int `json:"frames"`

	// Recording
	Supersample int    `json:"supersample"`
	Workers     int    `json:"workers"`
	OutputDir   string `json:"output_dir"`

	// Scene
	Texture    string                 `json:"texture"`
	Camera     *viewmatrix.Camera     `json:"camera"`
	Projection *viewmatrix.Projection `json:"projection"`

	// dir is the directory of the loaded file; relative paths resolve
	// against it.
	dir string
}

// Load reads a JSON config file and returns Config.
// Top-level fields not set in the file keep their zero values for Resolve
// to fill; camera and projection fields keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	// Nested objects start from their defaults so a partial camera or
	// projection only overrides the fields it names.
	cam := viewmatrix.DefaultCamera()
	proj := viewmatrix.DefaultProjection()
	cfg := Config{Camera: &cam, Projection: &proj}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Width     int
	Height    int
	Frames    int
	OutputDir string
	Workers   int
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.Frames <= 0 {
		c.Frames = DefaultFrames
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}

	// Resolve file paths against the config file, not the working directory
	if c.dir != "" && c.Texture != "" && !filepath.IsAbs(c.Texture) {
		c.Texture = filepath.Join(c.dir, c.Texture)
	}

	if c.Camera == nil {
		cam := viewmatrix.DefaultCamera()
		c.Camera = &cam
	}
	if c.Projection == nil {
		p := viewmatrix.DefaultProjection()
		c.Projection = &p
	}
	if c.Projection.FOV <= 0 {
		c.Projection.FOV = viewmatrix.DefaultFOV
	}
	if c.Projection.Near <= 0 {
		c.Projection.Near = viewmatrix.DefaultNear
	}
	if c.Projection.Far <= 0 {
		c.Projection.Far = viewmatrix.DefaultFar
	}
}

// RenderSize returns the size frames are rendered at before downsampling.
func (c Config) RenderSize() (w, h int) {
	return c.Width * c.Supersample, c.Height * c.Supersample
}
