package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample reduces a supersampled frame to w×h with CatmullRom filtering.
// Translucent frames are filtered in premultiplied space so transparent
// pixels do not bleed dark fringes into their neighbours. Frames already
// at or below the target size are returned unchanged.
func Downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if w <= 0 || h <= 0 || (b.Dx() <= w && b.Dy() <= h) {
		return img
	}
	dstRect := image.Rect(0, 0, w, h)

	if img.Opaque() {
		dst := image.NewNRGBA(dstRect)
		draw.CatmullRom.Scale(dst, dstRect, img, b, draw.Src, nil)
		return dst
	}

	// The RGBA conversion premultiplies and the NRGBA one undoes it.
	premul := image.NewRGBA(b)
	draw.Draw(premul, b, img, b.Min, draw.Src)

	scaled := image.NewRGBA(dstRect)
	draw.CatmullRom.Scale(scaled, dstRect, premul, b, draw.Src, nil)

	result := image.NewNRGBA(dstRect)
	draw.Draw(result, dstRect, scaled, image.Point{}, draw.Src)
	return result
}
