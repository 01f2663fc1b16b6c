// Package gfx defines the graphics backend contract used by renderable
// targets: buffers, programs, attribute and uniform binding, and indexed
// triangle draws.
package gfx

import (
	"image"

	"quadloop/internal/mathutil"
)

// Handles are opaque, backend-assigned and never zero when valid.
type (
	Buffer  uint32
	Program uint32
	Texture uint32
)

// Location is an attribute or uniform slot. NoLocation is returned for
// names the program does not declare; setters ignore it.
type Location int32

const NoLocation Location = -1

// Capability toggles fixed-function state.
type Capability int

const (
	CullFace Capability = iota
	DepthTest
)

// DepthFunc selects the depth comparison.
type DepthFunc int

const (
	Less DepthFunc = iota
	LessEqual
	Always
)

// Backend is the set of primitives a renderable target draws through.
// Implementations need not be safe for concurrent use by multiple targets,
// but the frame scheduler never calls a target concurrently with itself.
type Backend interface {
	CreateVertexBuffer(data []float32) (Buffer, error)
	CreateIndexBuffer(data []uint16) (Buffer, error)
	DeleteBuffer(b Buffer)
	CreateTexture(img *image.NRGBA) (Texture, error)

	CreateProgram(vs VertexStage, fs FragmentStage) (Program, error)
	UseProgram(p Program)
	AttribLocation(p Program, name string) Location
	UniformLocation(p Program, name string) Location

	// BindAttribute feeds buf to the attribute at loc, size floats per vertex.
	BindAttribute(loc Location, buf Buffer, size int)
	DisableAttribute(loc Location)
	BindIndexBuffer(buf Buffer)

	UniformMat4(loc Location, m mathutil.Mat4)
	UniformVec2(loc Location, v [2]float64)
	UniformFloat(loc Location, v float64)
	UniformTexture(loc Location, tex Texture)

	Viewport(w, h int)
	Enable(c Capability)
	Disable(c Capability)
	SetDepthFunc(f DepthFunc)
	Clear(rgba [4]float64)

	// DrawIndexed draws count indices from the bound index buffer as a
	// triangle list.
	DrawIndexed(count int) error
	// Present publishes the drawn frame to the surface.
	Present()
}
