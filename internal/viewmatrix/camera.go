package viewmatrix

import "quadloop/internal/mathutil"

// Camera is the eye/target/up triple a view matrix is built from.
type Camera struct {
	Position mathutil.Vec3 `json:"position"`
	Target   mathutil.Vec3 `json:"target"`
	Top      mathutil.Vec3 `json:"top"`
}

// DefaultCamera looks down −z from one unit back.
func DefaultCamera() Camera {
	return Camera{
		Position: mathutil.Vec3{0, 0, 1},
		Target:   mathutil.Vec3{0, 0, 0},
		Top:      mathutil.Vec3{0, 1, 0},
	}
}

// ViewMatrix returns the look-at matrix for the camera.
func (c Camera) ViewMatrix() mathutil.Mat4 {
	return mathutil.Mat4LookAt(c.Position, c.Target, c.Top)
}

// IsDegenerate reports whether the camera would produce a non-finite view:
// eye on the target, or up parallel to the viewing axis.
func (c Camera) IsDegenerate() bool {
	return !c.ViewMatrix().IsFinite()
}
