package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadPNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(1, 1, color.NRGBA{10, 20, 30, 128})
	path := filepath.Join(t.TempDir(), "quad.png")
	writePNG(t, path, src)

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds() != src.Bounds() {
		t.Fatalf("bounds = %v, want %v", img.Bounds(), src.Bounds())
	}
	if got := img.NRGBAAt(1, 1); got != (color.NRGBA{10, 20, 30, 128}) {
		t.Errorf("pixel = %v", got)
	}
}

func TestLoadJPEGIsOpaque(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "quad.JPG")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a := img.NRGBAAt(4, 4).A; a != 255 {
		t.Errorf("alpha = %d, want 255", a)
	}
}

func TestLoadOffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 9))
	src.SetNRGBA(5, 5, color.NRGBA{1, 2, 3, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	img, err := Decode(buf.Bytes(), "offset.png")
	if err != nil {
		t.Fatal(err)
	}
	if img.Rect.Min != (image.Point{}) {
		t.Errorf("origin = %v, want (0,0)", img.Rect.Min)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"unknown extension", filepath.Join(dir, "quad.bmp")},
		{"missing file", filepath.Join(dir, "missing.png")},
		{"corrupt data", garbage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Errorf("Load(%s) succeeded", tt.path)
			}
		})
	}
}

// tgaFile builds an uncompressed 32-bit true-colour TGA with a top-left
// origin from rows of BGRA pixels.
func tgaFile(w, h int, bgra []byte) []byte {
	hdr := []byte{
		0, 0, 2, // no id, no colour map, true-colour
		0, 0, 0, 0, 0, // colour map spec
		0, 0, 0, 0, // x, y origin
		byte(w), byte(w >> 8), byte(h), byte(h >> 8),
		32,   // bits per pixel
		0x28, // top-left origin, 8 alpha bits
	}
	return append(hdr, bgra...)
}

func TestLoadTGA(t *testing.T) {
	data := tgaFile(2, 1, []byte{
		0, 0, 255, 255, // red
		255, 0, 0, 255, // blue
	})
	path := filepath.Join(t.TempDir(), "quad.TGA")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 1 {
		t.Fatalf("bounds = %v, want 2x1", b)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel 0 = %v, want red", got)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("pixel 1 = %v, want blue", got)
	}
}

func TestDecodeChoosesByExtension(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{7, 8, 9, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"a.png", false},
		{"a.PNG", false},
		{"a.tga", true},
		{"a.jpg", true},
		{"a", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(buf.Bytes(), tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode(%q) err = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err == nil && img.NRGBAAt(0, 0) != (color.NRGBA{7, 8, 9, 255}) {
				t.Errorf("pixel = %v", img.NRGBAAt(0, 0))
			}
		})
	}
	if got := Extensions(); len(got) != 4 || got[0] != ".jpeg" {
		t.Errorf("Extensions() = %v", got)
	}
}
