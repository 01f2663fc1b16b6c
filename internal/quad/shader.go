package quad

import (
	"fmt"

	"quadloop/internal/effect"
	"quadloop/internal/gfx"
	"quadloop/internal/mathutil"
)

// Shader is a linked program with its attribute and uniform locations
// resolved once at creation.
type Shader struct {
	backend gfx.Backend
	program gfx.Program

	position   gfx.Location
	mv         gfx.Location
	projection gfx.Location
	resolution gfx.Location
	time       gfx.Location
	texture    gfx.Location
}

// NewShader links vs and fs on the backend and looks up the quad's
// locations. Names the program does not declare resolve to gfx.NoLocation.
func NewShader(backend gfx.Backend, vs gfx.VertexStage, fs gfx.FragmentStage) (*Shader, error) {
	p, err := backend.CreateProgram(vs, fs)
	if err != nil {
		return nil, fmt.Errorf("quad: link shader: %w", err)
	}
	backend.UseProgram(p)

	return &Shader{
		backend:    backend,
		program:    p,
		position:   backend.AttribLocation(p, effect.AttrPosition),
		mv:         backend.UniformLocation(p, effect.UniformMV),
		projection: backend.UniformLocation(p, effect.UniformProjection),
		resolution: backend.UniformLocation(p, effect.UniformResolution),
		time:       backend.UniformLocation(p, effect.UniformTime),
		texture:    backend.UniformLocation(p, effect.UniformTexture),
	}, nil
}

// uniforms is one frame's worth of shader inputs.
type uniforms struct {
	modelView  mathutil.Mat4
	projection mathutil.Mat4
	resolution [2]float64
	seconds    float64
	texture    gfx.Texture
}

// Update binds the position buffer and pushes the frame's uniforms.
func (s *Shader) Update(positionVBO gfx.Buffer, u uniforms) {
	b := s.backend
	b.UseProgram(s.program)

	b.BindAttribute(s.position, positionVBO, 3)

	b.UniformMat4(s.mv, u.modelView)
	b.UniformMat4(s.projection, u.projection)
	b.UniformVec2(s.resolution, u.resolution)
	b.UniformFloat(s.time, u.seconds)
	if u.texture != 0 {
		b.UniformTexture(s.texture, u.texture)
	}
}
