// Package effect holds the quad's shader program: a vertex stage that
// places the quad with the model-view (and optional projection) matrix and
// a fragment stage that animates a colour field from time and resolution.
package effect

import (
	"math"

	"quadloop/internal/gfx"
	"quadloop/internal/raster"
)

// Attribute and uniform names shared with the quad target.
const (
	AttrPosition      = "position"
	UniformMV         = "mv_matrix"
	UniformProjection = "p_matrix"
	UniformResolution = "resolution"
	UniformTime       = "time"
	UniformTexture    = "tex"
)

// Exposure scales the linear colour before tone mapping.
const Exposure = 1.05

// Vertex returns the vertex stage: gl_Position = p · mv · vec4(position, 1).
// It passes the quad's texture coordinate as two varyings, with v = 0 at the
// top edge.
func Vertex() gfx.VertexStage {
	return gfx.VertexStage{
		Attributes: []string{AttrPosition},
		Uniforms:   []string{UniformMV, UniformProjection},
		Varyings:   2,
		Main: func(u gfx.Uniforms, attrs [][]float64, out []float64) [4]float64 {
			p := attrs[0]
			pos := [4]float64{p[0], p[1], p[2], 1}
			out[0] = (p[0] + 1) / 2
			out[1] = (1 - p[1]) / 2
			return u.Mat4(UniformProjection).MulVec4(u.Mat4(UniformMV).MulVec4(pos))
		},
	}
}

// Fragment returns the fragment stage. The colour field cycles with time
// across the normalised screen position; a bound texture modulates it.
func Fragment() gfx.FragmentStage {
	return gfx.FragmentStage{
		Uniforms: []string{UniformResolution, UniformTime, UniformTexture},
		Main: func(u gfx.Uniforms, fragCoord [2]float64, in []float64) [4]float64 {
			t := u.Float(UniformTime)
			uv := ScreenUV(fragCoord, u.Vec2(UniformResolution), in)

			lin := [3]float64{
				0.5 + 0.5*math.Cos(t+uv[0]),
				0.5 + 0.5*math.Cos(t+uv[1]+2),
				0.5 + 0.5*math.Cos(t+uv[0]+4),
			}
			alpha := 1.0
			if c, ok := u.Sample(UniformTexture, in[0], in[1]); ok {
				for k := 0; k < 3; k++ {
					lin[k] *= raster.DecodeSRGB(c[k])
				}
				alpha = c[3]
			}

			var out [4]float64
			for k := 0; k < 3; k++ {
				out[k] = raster.LinearToSRGB(raster.ACESTonemap(lin[k] * Exposure))
			}
			out[3] = alpha
			return out
		},
	}
}

// ScreenUV normalises fragCoord by the resolution. Before the first resize
// the resolution is zero and the interpolated texture coordinate is used.
func ScreenUV(fragCoord, resolution [2]float64, varying []float64) [2]float64 {
	if resolution[0] <= 0 || resolution[1] <= 0 {
		return [2]float64{varying[0], 1 - varying[1]}
	}
	return [2]float64{fragCoord[0] / resolution[0], fragCoord[1] / resolution[1]}
}
