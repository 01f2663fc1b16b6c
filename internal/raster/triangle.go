package raster

import (
	"math"

	"quadloop/internal/gfx"
)

// vertexOut is a shaded vertex in window space.
type vertexOut struct {
	x, y    float64 // pixels, y down
	z       float64 // window depth in [0,1]
	invW    float64
	varying []float64
}

// fragmentFunc shades one pixel. fragCoord uses the GL bottom-left origin.
type fragmentFunc func(fragCoord [2]float64, varying []float64) [4]float64

type rasterState struct {
	depthTest bool
	depthFunc gfx.DepthFunc
	varying   []float64 // scratch, reused across pixels
}

// rasterizeTriangle fills a triangle with perspective-correct varyings,
// an optional depth test, and the fragment function's RGBA output.
//
// Pixel centers are sampled at +0.5. The loop allocates nothing.
func rasterizeTriangle(fb *FrameBuffer, v0, v1, v2 *vertexOut, st *rasterState, shade fragmentFunc) {
	x0, y0 := v0.x, v0.y
	x1, y1 := v1.x, v1.y
	x2, y2 := v2.x, v2.y

	// Bounding box
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX > fb.Width-1 {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY > fb.Height-1 {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-12 && det < 1e-12 {
		return
	}
	invDet := 1.0 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	nv := len(st.varying)
	height := float64(fb.Height)

	for sy := minY; sy <= maxY; sy++ {
		py := float64(sy) + 0.5
		dsy := py - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			px := float64(sx) + 0.5
			dsx := px - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -1e-9 || w1 < -1e-9 || w2 < -1e-9 {
				continue
			}

			z := w0*v0.z + w1*v1.z + w2*v2.z
			zIdx := rowOff + sx
			if st.depthTest && !depthPass(st.depthFunc, z, fb.ZBuf[zIdx]) {
				continue
			}

			// Perspective-correct weights
			p0 := w0 * v0.invW
			p1 := w1 * v1.invW
			p2 := w2 * v2.invW
			sum := p0 + p1 + p2
			if sum != 0 {
				p0, p1, p2 = p0/sum, p1/sum, p2/sum
			}
			for k := 0; k < nv; k++ {
				st.varying[k] = p0*v0.varying[k] + p1*v1.varying[k] + p2*v2.varying[k]
			}

			c := shade([2]float64{px, height - py}, st.varying)

			if st.depthTest {
				fb.ZBuf[zIdx] = z
			}
			pxIdx := zIdx * 4
			fb.Color[pxIdx] = clamp255(c[0] * 255)
			fb.Color[pxIdx+1] = clamp255(c[1] * 255)
			fb.Color[pxIdx+2] = clamp255(c[2] * 255)
			fb.Color[pxIdx+3] = clamp255(c[3] * 255)
		}
	}
}

func depthPass(f gfx.DepthFunc, z, stored float64) bool {
	switch f {
	case gfx.Less:
		return z < stored
	case gfx.LessEqual:
		return z <= stored
	default:
		return true
	}
}
