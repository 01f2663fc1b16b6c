package raster

import "math"

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// SRGBToLinear decodes an 8-bit sRGB channel.
func SRGBToLinear(c uint8) float64 {
	return srgbToLinear[c]
}

// LinearToSRGB encodes a linear channel with gamma 2.2, clamped to [0,1].
func LinearToSRGB(v float64) float64 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	return math.Pow(v, 1/2.2)
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

func clamp255(v float64) uint8 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// DecodeSRGB converts a [0,1] sRGB channel to linear.
func DecodeSRGB(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Pow(v, 2.2)
}
