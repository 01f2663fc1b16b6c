package gfx

import "quadloop/internal/mathutil"

// Uniforms is the read side of a program's uniform state, seen by stages.
// Unset uniforms read as zero values.
type Uniforms interface {
	Mat4(name string) mathutil.Mat4
	Vec2(name string) [2]float64
	Float(name string) float64
	// Sample returns the bilinear RGBA (0..1) of the texture bound to name
	// at (u, v), or ok=false when nothing is bound.
	Sample(name string, u, v float64) (rgba [4]float64, ok bool)
}

// VertexStage is a program's vertex shader. Attributes are declared in slot
// order; Main receives one slice per attribute and returns the clip-space
// position plus Varyings interpolated values.
type VertexStage struct {
	Attributes []string
	Uniforms   []string
	Varyings   int
	Main       func(u Uniforms, attrs [][]float64, varying []float64) [4]float64
}

// FragmentStage is a program's fragment shader. FragCoord is the pixel
// center in window coordinates with the origin at the bottom-left, as in GL.
type FragmentStage struct {
	Uniforms []string
	Main     func(u Uniforms, fragCoord [2]float64, varying []float64) [4]float64
}
