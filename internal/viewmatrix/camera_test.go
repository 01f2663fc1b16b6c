package viewmatrix

import (
	"testing"

	"quadloop/internal/mathutil"
)

func TestDefaultCameraView(t *testing.T) {
	c := DefaultCamera()
	if c.Position != (mathutil.Vec3{0, 0, 1}) || c.Target != (mathutil.Vec3{}) || c.Top != (mathutil.Vec3{0, 1, 0}) {
		t.Fatalf("DefaultCamera() = %+v", c)
	}
	want := mathutil.Mat4Translate(mathutil.Vec3{0, 0, -1})
	if got := c.ViewMatrix(); got != want {
		t.Errorf("ViewMatrix() = %v, want %v", got, want)
	}
	if c.IsDegenerate() {
		t.Errorf("default camera reported degenerate")
	}
}

func TestCameraDegenerate(t *testing.T) {
	tests := []struct {
		name string
		cam  Camera
	}{
		{"eye on target", Camera{Position: mathutil.Vec3{1, 2, 3}, Target: mathutil.Vec3{1, 2, 3}, Top: mathutil.Vec3{0, 1, 0}}},
		{"up along axis", Camera{Position: mathutil.Vec3{0, 5, 0}, Target: mathutil.Vec3{}, Top: mathutil.Vec3{0, 1, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.cam.IsDegenerate() {
				t.Errorf("IsDegenerate() = false for %+v", tt.cam)
			}
		})
	}
}

func TestProjectionMatrix(t *testing.T) {
	p := DefaultProjection()
	if got := p.Matrix(640, 360); got != mathutil.Mat4Identity() {
		t.Errorf("disabled projection = %v, want identity", got)
	}

	p.Enabled = true
	want := mathutil.Mat4Perspective(DefaultFOV, 2, DefaultNear, DefaultFar)
	if got := p.Matrix(200, 100); got != want {
		t.Errorf("Matrix(200, 100) = %v, want %v", got, want)
	}
	square := mathutil.Mat4Perspective(DefaultFOV, 1, DefaultNear, DefaultFar)
	if got := p.Matrix(200, 0); got != square {
		t.Errorf("Matrix(200, 0) = %v, want square aspect", got)
	}
}
