package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"quadloop/internal/mathutil"
	"quadloop/internal/viewmatrix"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quadloop.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveDefaults(t *testing.T) {
	var c Config
	c.Resolve(Flags{})

	if c.Width != 640 || c.Height != 360 {
		t.Errorf("size = %dx%d, want 640x360", c.Width, c.Height)
	}
	if c.FPS != 60 || c.Frames != 120 || c.Supersample != 1 {
		t.Errorf("fps/frames/supersample = %d/%d/%d", c.FPS, c.Frames, c.Supersample)
	}
	if c.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d, want %d", c.Workers, runtime.NumCPU())
	}
	if c.OutputDir != "frames" {
		t.Errorf("OutputDir = %q", c.OutputDir)
	}
	if *c.Camera != viewmatrix.DefaultCamera() {
		t.Errorf("Camera = %+v", *c.Camera)
	}
	if *c.Projection != viewmatrix.DefaultProjection() {
		t.Errorf("Projection = %+v", *c.Projection)
	}
}

func TestLoadAndResolve(t *testing.T) {
	path := writeConfig(t, `{
		"width": 320,
		"fps": 30,
		"supersample": 2,
		"texture": "tex/noise.png",
		"camera": {"position": [0, 0, 5], "target": [0, 0, 0], "top": [0, 1, 0]},
		"projection": {"enabled": true, "fov": 60}
	}`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.Resolve(Flags{Height: 200, OutputDir: "out"})

	if c.Width != 320 || c.Height != 200 || c.FPS != 30 {
		t.Errorf("got %dx%d @%d", c.Width, c.Height, c.FPS)
	}
	if w, h := c.RenderSize(); w != 640 || h != 400 {
		t.Errorf("RenderSize = %dx%d, want 640x400", w, h)
	}
	if c.OutputDir != "out" {
		t.Errorf("OutputDir = %q", c.OutputDir)
	}
	wantTex := filepath.Join(filepath.Dir(path), "tex", "noise.png")
	if c.Texture != wantTex {
		t.Errorf("Texture = %q, want %q", c.Texture, wantTex)
	}
	if c.Camera.Position != (mathutil.Vec3{0, 0, 5}) {
		t.Errorf("Camera.Position = %v", c.Camera.Position)
	}
	p := *c.Projection
	if !p.Enabled || p.FOV != 60 || p.Near != viewmatrix.DefaultNear || p.Far != viewmatrix.DefaultFar {
		t.Errorf("Projection = %+v", p)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `{"width": 100, "height": 100, "frames": 10, "workers": 2, "output_dir": "a"}`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	c.Resolve(Flags{Width: 50, Frames: 3, Workers: 8, OutputDir: "b"})

	if c.Width != 50 || c.Height != 100 || c.Frames != 3 || c.Workers != 8 || c.OutputDir != "b" {
		t.Errorf("resolved = %+v", c)
	}
}

func TestAbsoluteTextureUnchanged(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "t.png")
	path := writeConfig(t, `{"texture": "`+filepath.ToSlash(abs)+`"}`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	c.Resolve(Flags{})
	if filepath.Clean(c.Texture) != filepath.Clean(abs) {
		t.Errorf("Texture = %q, want %q", c.Texture, abs)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		want string
	}{
		{"missing", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") }, "config: read"},
		{"bad json", func(t *testing.T) string { return writeConfig(t, `{"width": "wide"}`) }, "config: parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want prefix %q", err, tt.want)
			}
		})
	}
}

func TestPartialNestedObjectsKeepDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"camera": {"position": [0, 0, 3]},
		"projection": {"enabled": true}
	}`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	c.Resolve(Flags{})

	def := viewmatrix.DefaultCamera()
	want := viewmatrix.Camera{Position: mathutil.Vec3{0, 0, 3}, Target: def.Target, Top: def.Top}
	if *c.Camera != want {
		t.Errorf("Camera = %+v, want %+v", *c.Camera, want)
	}
	if c.Camera.IsDegenerate() {
		t.Error("partial camera produced a non-finite view")
	}
	wantProj := viewmatrix.DefaultProjection()
	wantProj.Enabled = true
	if *c.Projection != wantProj {
		t.Errorf("Projection = %+v, want %+v", *c.Projection, wantProj)
	}
}

func TestNullCameraFallsBackToDefault(t *testing.T) {
	c, err := Load(writeConfig(t, `{"camera": null}`))
	if err != nil {
		t.Fatal(err)
	}
	c.Resolve(Flags{})
	if *c.Camera != viewmatrix.DefaultCamera() {
		t.Errorf("Camera = %+v", *c.Camera)
	}
}
