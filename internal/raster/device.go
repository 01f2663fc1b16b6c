package raster

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"quadloop/internal/gfx"
	"quadloop/internal/logging"
	"quadloop/internal/mathutil"
)

// ErrNoProgram is returned by DrawIndexed when no program is in use.
var ErrNoProgram = errors.New("raster: no program in use")

// Device is a software implementation of gfx.Backend that rasterizes into
// an in-memory FrameBuffer. All methods are safe for concurrent use; a
// window host may read Frame while a tick draws.
type Device struct {
	mu sync.Mutex

	back  *FrameBuffer
	front *image.NRGBA

	next     uint32
	buffers  map[gfx.Buffer]*buffer
	textures map[gfx.Texture]*image.NRGBA
	programs map[gfx.Program]*program

	current  *program
	bindings map[gfx.Location]binding
	index    *buffer

	cull      bool
	depthTest bool
	depthFunc gfx.DepthFunc

	presented uint64
	onPresent func(img *image.NRGBA)
}

type buffer struct {
	vertices []float64
	indices  []uint16
	isIndex  bool
}

type binding struct {
	buf  gfx.Buffer
	size int
}

// NewDevice creates a device with a w×h viewport.
func NewDevice(w, h int) *Device {
	return &Device{
		back:      NewFrameBuffer(w, h),
		front:     image.NewNRGBA(image.Rect(0, 0, max(w, 0), max(h, 0))),
		buffers:   make(map[gfx.Buffer]*buffer),
		textures:  make(map[gfx.Texture]*image.NRGBA),
		programs:  make(map[gfx.Program]*program),
		bindings:  make(map[gfx.Location]binding),
		depthFunc: gfx.Less,
	}
}

var _ gfx.Backend = (*Device)(nil)

// OnPresent registers fn to receive a private copy of every presented frame.
// fn runs on the presenting goroutine after the device lock is released.
func (d *Device) OnPresent(fn func(img *image.NRGBA)) {
	d.mu.Lock()
	d.onPresent = fn
	d.mu.Unlock()
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) CreateVertexBuffer(data []float32) (gfx.Buffer, error) {
	v := make([]float64, len(data))
	for i, f := range data {
		v[i] = float64(f)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	h := gfx.Buffer(d.handle())
	d.buffers[h] = &buffer{vertices: v}
	logging.Logger().Debug("raster: vertex buffer created", "buffer", h, "floats", len(v))
	return h, nil
}

func (d *Device) CreateIndexBuffer(data []uint16) (gfx.Buffer, error) {
	if len(data)%3 != 0 {
		return 0, fmt.Errorf("raster: index buffer length %d is not a multiple of 3", len(data))
	}
	idx := append([]uint16(nil), data...)
	d.mu.Lock()
	defer d.mu.Unlock()
	h := gfx.Buffer(d.handle())
	d.buffers[h] = &buffer{indices: idx, isIndex: true}
	logging.Logger().Debug("raster: index buffer created", "buffer", h, "indices", len(idx))
	return h, nil
}

func (d *Device) DeleteBuffer(b gfx.Buffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.index == d.buffers[b] {
		d.index = nil
	}
	delete(d.buffers, b)
}

func (d *Device) CreateTexture(img *image.NRGBA) (gfx.Texture, error) {
	if img == nil || img.Rect.Empty() {
		return 0, errors.New("raster: empty texture")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	h := gfx.Texture(d.handle())
	d.textures[h] = img
	return h, nil
}

func (d *Device) CreateProgram(vs gfx.VertexStage, fs gfx.FragmentStage) (gfx.Program, error) {
	p, err := linkProgram(vs, fs)
	if err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	h := gfx.Program(d.handle())
	d.programs[h] = p
	logging.Logger().Debug("raster: program linked", "program", h,
		"attributes", len(vs.Attributes), "uniforms", len(p.uniformNames))
	return h, nil
}

func (d *Device) UseProgram(h gfx.Program) {
	d.mu.Lock()
	d.current = d.programs[h]
	d.mu.Unlock()
}

func (d *Device) AttribLocation(h gfx.Program, name string) gfx.Location {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p := d.programs[h]; p != nil {
		return p.attribLocation(name)
	}
	return gfx.NoLocation
}

func (d *Device) UniformLocation(h gfx.Program, name string) gfx.Location {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p := d.programs[h]; p != nil {
		return p.uniformLocation(name)
	}
	return gfx.NoLocation
}

func (d *Device) BindAttribute(loc gfx.Location, buf gfx.Buffer, size int) {
	if loc < 0 || size <= 0 {
		return
	}
	d.mu.Lock()
	d.bindings[loc] = binding{buf: buf, size: size}
	d.mu.Unlock()
}

func (d *Device) DisableAttribute(loc gfx.Location) {
	d.mu.Lock()
	delete(d.bindings, loc)
	d.mu.Unlock()
}

func (d *Device) BindIndexBuffer(buf gfx.Buffer) {
	d.mu.Lock()
	d.index = d.buffers[buf]
	d.mu.Unlock()
}

func (d *Device) UniformMat4(loc gfx.Location, m mathutil.Mat4) {
	d.setUniform(loc, func(u *uniformValue) { u.mat = m })
}

func (d *Device) UniformVec2(loc gfx.Location, v [2]float64) {
	d.setUniform(loc, func(u *uniformValue) { u.vec = v })
}

func (d *Device) UniformFloat(loc gfx.Location, v float64) {
	d.setUniform(loc, func(u *uniformValue) { u.f = v })
}

func (d *Device) UniformTexture(loc gfx.Location, tex gfx.Texture) {
	d.setUniform(loc, func(u *uniformValue) { u.tex = tex })
}

// setUniform writes into the program in use; unknown locations are ignored.
func (d *Device) setUniform(loc gfx.Location, set func(*uniformValue)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil || loc < 0 || int(loc) >= len(d.current.values) {
		return
	}
	set(&d.current.values[loc])
}

// Viewport resizes the render target. Contents are discarded on change.
func (d *Device) Viewport(w, h int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w == d.back.Width && h == d.back.Height {
		return
	}
	d.back = NewFrameBuffer(w, h)
	d.front = image.NewNRGBA(image.Rect(0, 0, d.back.Width, d.back.Height))
	logging.Logger().Info("raster: viewport", "width", w, "height", h)
}

func (d *Device) Enable(c gfx.Capability)  { d.setCap(c, true) }
func (d *Device) Disable(c gfx.Capability) { d.setCap(c, false) }

func (d *Device) setCap(c gfx.Capability, on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch c {
	case gfx.CullFace:
		d.cull = on
	case gfx.DepthTest:
		d.depthTest = on
	}
}

func (d *Device) SetDepthFunc(f gfx.DepthFunc) {
	d.mu.Lock()
	d.depthFunc = f
	d.mu.Unlock()
}

// Clear fills the color buffer with rgba (0..1) and resets depth.
func (d *Device) Clear(rgba [4]float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.back.ClearColor(clamp255(rgba[0]*255), clamp255(rgba[1]*255), clamp255(rgba[2]*255), clamp255(rgba[3]*255))
	d.back.ClearDepth()
}

// DrawIndexed runs the current program over count indices of the bound
// index buffer. Triangles with a vertex at or behind w=0 are dropped;
// there is no near-plane clipping.
func (d *Device) DrawIndexed(count int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.current
	if p == nil {
		return ErrNoProgram
	}
	if d.index == nil {
		return errors.New("raster: no index buffer bound")
	}
	if count < 0 || count > len(d.index.indices) || count%3 != 0 {
		return fmt.Errorf("raster: draw count %d invalid for %d indices", count, len(d.index.indices))
	}

	attrs := make([]attribSource, len(p.vs.Attributes))
	for i, name := range p.vs.Attributes {
		b, ok := d.bindings[gfx.Location(i)]
		if !ok {
			return fmt.Errorf("raster: attribute %q not bound", name)
		}
		buf := d.buffers[b.buf]
		if buf == nil || buf.isIndex {
			return fmt.Errorf("raster: attribute %q bound to invalid buffer %d", name, b.buf)
		}
		attrs[i] = attribSource{data: buf.vertices, size: b.size}
	}

	u := uniformReader{p: p, textures: d.textures}
	fb := d.back
	cache := make(map[uint16]*vertexOut)
	in := make([][]float64, len(attrs))

	shadeVertex := func(i uint16) (*vertexOut, error) {
		if v, ok := cache[i]; ok {
			return v, nil
		}
		for k, a := range attrs {
			lo := int(i) * a.size
			if lo+a.size > len(a.data) {
				return nil, fmt.Errorf("raster: index %d out of range for attribute %q", i, p.vs.Attributes[k])
			}
			in[k] = a.data[lo : lo+a.size]
		}
		varying := make([]float64, p.vs.Varyings)
		clip := p.vs.Main(u, in, varying)
		v := &vertexOut{varying: varying}
		if clip[3] > 0 {
			v.invW = 1 / clip[3]
			nx, ny, nz := clip[0]*v.invW, clip[1]*v.invW, clip[2]*v.invW
			v.x = (nx + 1) / 2 * float64(fb.Width)
			v.y = (1 - ny) / 2 * float64(fb.Height)
			v.z = (nz + 1) / 2
		}
		cache[i] = v
		return v, nil
	}

	st := rasterState{
		depthTest: d.depthTest,
		depthFunc: d.depthFunc,
		varying:   make([]float64, p.vs.Varyings),
	}
	shade := func(fragCoord [2]float64, varying []float64) [4]float64 {
		return p.fs.Main(u, fragCoord, varying)
	}

	idx := d.index.indices[:count]
	for t := 0; t+2 < len(idx); t += 3 {
		var tri [3]*vertexOut
		for k := 0; k < 3; k++ {
			v, err := shadeVertex(idx[t+k])
			if err != nil {
				return err
			}
			tri[k] = v
		}
		if tri[0].invW <= 0 || tri[1].invW <= 0 || tri[2].invW <= 0 {
			continue
		}
		if d.cull && !frontFacing(tri[0], tri[1], tri[2]) {
			continue
		}
		rasterizeTriangle(fb, tri[0], tri[1], tri[2], &st, shade)
	}
	return nil
}

// frontFacing reports counter-clockwise winding in NDC (y up), which is
// clockwise in the y-down window space used here.
func frontFacing(a, b, c *vertexOut) bool {
	area := (b.x-a.x)*(c.y-a.y) - (c.x-a.x)*(b.y-a.y)
	return area < 0
}

// Present copies the drawn frame to the front image and hands a copy to
// the OnPresent hook.
func (d *Device) Present() {
	d.mu.Lock()
	copy(d.front.Pix, d.back.Color)
	d.presented++
	hook := d.onPresent
	var img *image.NRGBA
	if hook != nil {
		img = cloneNRGBA(d.front)
	}
	d.mu.Unlock()

	if hook != nil {
		hook(img)
	}
}

// Frame returns a copy of the last presented frame.
func (d *Device) Frame() *image.NRGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	return cloneNRGBA(d.front)
}

// Presented returns how many frames have been presented.
func (d *Device) Presented() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.presented
}

type attribSource struct {
	data []float64
	size int
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
