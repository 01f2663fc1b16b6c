// Package quad is the renderable target: one quad covering the viewport,
// drawn through a gfx.Backend each tick.
package quad

import (
	"fmt"
	"sync/atomic"
	"time"

	"quadloop/internal/effect"
	"quadloop/internal/frame"
	"quadloop/internal/gfx"
	"quadloop/internal/logging"
	"quadloop/internal/mathutil"
	"quadloop/internal/viewmatrix"
)

// Vertices are the quad corners in model space, three floats each.
var Vertices = []float32{
	-1.0, 1.0, 0.0,
	1.0, 1.0, 0.0,
	-1.0, -1.0, 0.0,
	1.0, -1.0, 0.0,
}

// Indices form two counter-clockwise triangles.
var Indices = []uint16{
	0, 2, 1,
	1, 2, 3,
}

// Frame draws the quad. It implements frame.Target.
type Frame struct {
	backend gfx.Backend
	shader  *Shader
	vbo     gfx.Buffer
	ibo     gfx.Buffer
	texture gfx.Texture

	// Position places the quad in world space.
	Position   mathutil.Vec3
	Projection viewmatrix.Projection
	ClearColor [4]float64

	res   frame.Resolution
	drawn atomic.Uint64

	// drawFailing is set from the first failed draw until one succeeds,
	// so a persistent failure is logged once rather than every tick.
	drawFailing bool
}

var _ frame.Target = (*Frame)(nil)

// Option configures a Frame.
type Option func(*Frame)

// WithProjection enables a perspective projection in front of model-view.
func WithProjection(p viewmatrix.Projection) Option {
	return func(f *Frame) { f.Projection = p }
}

// WithTexture binds tex to the shader's sampler every frame.
func WithTexture(tex gfx.Texture) Option {
	return func(f *Frame) { f.texture = tex }
}

// New uploads the quad geometry and links the effect program on backend.
// It also sets the fixed-function state the quad relies on.
func New(backend gfx.Backend, opts ...Option) (*Frame, error) {
	shader, err := NewShader(backend, effect.Vertex(), effect.Fragment())
	if err != nil {
		return nil, err
	}
	vbo, err := backend.CreateVertexBuffer(Vertices)
	if err != nil {
		return nil, fmt.Errorf("quad: vertex buffer: %w", err)
	}
	ibo, err := backend.CreateIndexBuffer(Indices)
	if err != nil {
		backend.DeleteBuffer(vbo)
		return nil, fmt.Errorf("quad: index buffer: %w", err)
	}

	backend.Enable(gfx.CullFace)
	backend.SetDepthFunc(gfx.LessEqual)

	f := &Frame{
		backend:    backend,
		shader:     shader,
		vbo:        vbo,
		ibo:        ibo,
		Projection: viewmatrix.DefaultProjection(),
		ClearColor: [4]float64{0, 0, 0, 1},
	}
	for _, o := range opts {
		o(f)
	}
	return f, nil
}

// Update composes model-view with Mat4Mul(model, view), pushes the
// uniforms with time in seconds, and draws.
func (f *Frame) Update(view mathutil.Mat4, runTime time.Duration, res frame.Resolution) {
	b := f.backend
	if res != f.res {
		f.res = res
		b.Viewport(res.Width, res.Height)
	}

	model := mathutil.Mat4Translate(f.Position)
	mv := mathutil.Mat4Mul(model, view)

	b.Clear(f.ClearColor)
	f.shader.Update(f.vbo, uniforms{
		modelView:  mv,
		projection: f.Projection.Matrix(res.Width, res.Height),
		resolution: res.Vec2(),
		seconds:    float64(runTime) / float64(time.Second),
		texture:    f.texture,
	})
	b.BindIndexBuffer(f.ibo)

	if err := b.DrawIndexed(len(Indices)); err != nil {
		if !f.drawFailing {
			f.drawFailing = true
			logging.Logger().Warn("quad: draw failed", "err", err)
		}
		return
	}
	if f.drawFailing {
		f.drawFailing = false
		logging.Logger().Info("quad: drawing again")
	}
	b.Present()
	f.drawn.Add(1)
}

// Drawn returns the number of frames drawn and presented.
func (f *Frame) Drawn() uint64 {
	return f.drawn.Load()
}

// Release deletes the quad's buffers.
func (f *Frame) Release() {
	f.backend.DeleteBuffer(f.vbo)
	f.backend.DeleteBuffer(f.ibo)
}
