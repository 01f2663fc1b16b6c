package raster

import (
	"image"
	"math"
)

// Sample filters tex bilinearly at (u, v) with GL_REPEAT addressing and
// returns normalized RGBA. Texel centres sit at (i+0.5)/size, and v = 0
// is the top row of the image. An empty texture samples as transparent.
func Sample(tex *image.NRGBA, u, v float64) [4]float64 {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 || math.IsNaN(u) || math.IsNaN(v) {
		return [4]float64{}
	}

	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5
	x0f := math.Floor(fx)
	y0f := math.Floor(fy)
	dx := fx - x0f
	dy := fy - y0f

	x0 := wrap(int(x0f), w)
	y0 := wrap(int(y0f), h)
	x1 := wrap(x0+1, w)
	y1 := wrap(y0+1, h)

	stride := tex.Stride
	pix := tex.Pix

	// Four texels
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out [4]float64
	for c := 0; c < 4; c++ {
		out[c] = (float64(pix[i00+c])*w00 +
			float64(pix[i10+c])*w10 +
			float64(pix[i01+c])*w01 +
			float64(pix[i11+c])*w11) / 255
	}
	return out
}

// wrap maps i into [0, n) for any sign.
func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
