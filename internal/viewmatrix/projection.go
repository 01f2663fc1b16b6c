package viewmatrix

import "quadloop/internal/mathutil"

// Default perspective parameters.
const (
	DefaultFOV  = 90.0
	DefaultNear = 0.1
	DefaultFar  = 100.0
)

// Projection describes an optional perspective projection. When disabled
// the pipeline runs on the model-view matrix alone.
type Projection struct {
	Enabled bool    `json:"enabled"`
	FOV     float64 `json:"fov"`
	Near    float64 `json:"near"`
	Far     float64 `json:"far"`
}

// DefaultProjection returns a disabled projection carrying default parameters.
func DefaultProjection() Projection {
	return Projection{FOV: DefaultFOV, Near: DefaultNear, Far: DefaultFar}
}

// Matrix returns the projection for a viewport of w×h pixels.
// A zero height falls back to a square aspect.
func (p Projection) Matrix(w, h int) mathutil.Mat4 {
	if !p.Enabled {
		return mathutil.Mat4Identity()
	}
	aspect := 1.0
	if h > 0 && w > 0 {
		aspect = float64(w) / float64(h)
	}
	return mathutil.Mat4Perspective(p.FOV, aspect, p.Near, p.Far)
}
