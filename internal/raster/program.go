package raster

import (
	"errors"
	"fmt"
	"image"

	"quadloop/internal/gfx"
	"quadloop/internal/mathutil"
)

// program is a linked vertex/fragment pair. Attribute locations follow the
// vertex stage's declaration order; uniform locations follow first
// declaration across both stages.
type program struct {
	vs gfx.VertexStage
	fs gfx.FragmentStage

	uniformNames []string
	uniformLoc   map[string]gfx.Location
	values       []uniformValue
}

type uniformValue struct {
	mat mathutil.Mat4
	vec [2]float64
	f   float64
	tex gfx.Texture
}

func linkProgram(vs gfx.VertexStage, fs gfx.FragmentStage) (*program, error) {
	if vs.Main == nil {
		return nil, errors.New("raster: vertex stage has no entry point")
	}
	if fs.Main == nil {
		return nil, errors.New("raster: fragment stage has no entry point")
	}
	if vs.Varyings < 0 {
		return nil, fmt.Errorf("raster: negative varying count %d", vs.Varyings)
	}

	seen := make(map[string]bool, len(vs.Attributes))
	for _, name := range vs.Attributes {
		if name == "" || seen[name] {
			return nil, fmt.Errorf("raster: bad or duplicate attribute %q", name)
		}
		seen[name] = true
	}

	p := &program{vs: vs, fs: fs, uniformLoc: make(map[string]gfx.Location)}
	for _, names := range [][]string{vs.Uniforms, fs.Uniforms} {
		for _, name := range names {
			if name == "" {
				return nil, errors.New("raster: empty uniform name")
			}
			if _, ok := p.uniformLoc[name]; ok {
				continue
			}
			p.uniformLoc[name] = gfx.Location(len(p.uniformNames))
			p.uniformNames = append(p.uniformNames, name)
		}
	}
	p.values = make([]uniformValue, len(p.uniformNames))
	return p, nil
}

func (p *program) attribLocation(name string) gfx.Location {
	for i, a := range p.vs.Attributes {
		if a == name {
			return gfx.Location(i)
		}
	}
	return gfx.NoLocation
}

func (p *program) uniformLocation(name string) gfx.Location {
	if loc, ok := p.uniformLoc[name]; ok {
		return loc
	}
	return gfx.NoLocation
}

// uniformReader exposes a program's uniform values to its stages. It is
// only used while the device lock is held.
type uniformReader struct {
	p        *program
	textures map[gfx.Texture]*image.NRGBA
}

func (r uniformReader) value(name string) *uniformValue {
	loc, ok := r.p.uniformLoc[name]
	if !ok {
		return nil
	}
	return &r.p.values[loc]
}

func (r uniformReader) Mat4(name string) mathutil.Mat4 {
	if v := r.value(name); v != nil {
		return v.mat
	}
	return mathutil.Mat4{}
}

func (r uniformReader) Vec2(name string) [2]float64 {
	if v := r.value(name); v != nil {
		return v.vec
	}
	return [2]float64{}
}

func (r uniformReader) Float(name string) float64 {
	if v := r.value(name); v != nil {
		return v.f
	}
	return 0
}

func (r uniformReader) Sample(name string, u, v float64) ([4]float64, bool) {
	uv := r.value(name)
	if uv == nil || uv.tex == 0 {
		return [4]float64{}, false
	}
	tex := r.textures[uv.tex]
	if tex == nil {
		return [4]float64{}, false
	}
	return Sample(tex, u, v), true
}
