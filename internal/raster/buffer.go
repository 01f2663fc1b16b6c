package raster

// FrameBuffer holds the rendering target as flat slices for cache locality.
// Rows run top to bottom.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // window depth per pixel in [0,1], len = W*H
}

// NewFrameBuffer allocates a zeroed color buffer and a depth buffer cleared
// to the far plane.
func NewFrameBuffer(w, h int) *FrameBuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	n := w * h
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, n*4),
		ZBuf:   make([]float64, n),
	}
	fb.ClearDepth()
	return fb
}

// ClearColor fills every pixel with the given RGBA bytes.
func (fb *FrameBuffer) ClearColor(r, g, b, a uint8) {
	for i := 0; i+3 < len(fb.Color); i += 4 {
		fb.Color[i] = r
		fb.Color[i+1] = g
		fb.Color[i+2] = b
		fb.Color[i+3] = a
	}
}

// ClearDepth resets the depth buffer to 1.
func (fb *FrameBuffer) ClearDepth() {
	for i := range fb.ZBuf {
		fb.ZBuf[i] = 1
	}
}
