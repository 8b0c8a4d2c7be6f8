package source

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: byte(x), G: byte(y), B: 128, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestStdlibDecoderRoundTrip(t *testing.T) {
	path := writeTestPNG(t, 8, 4)
	dec := NewImageDecoder()
	pic, err := dec.Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if pic.Width != 8 || pic.Height != 4 {
		t.Fatalf("decoded size = %dx%d, want 8x4", pic.Width, pic.Height)
	}
	r, g, b, a := pic.At(3, 2)
	if r != 3 || g != 2 || b != 128 || a != 255 {
		t.Errorf("pixel (3,2) = (%d,%d,%d,%d), want (3,2,128,255)", r, g, b, a)
	}
}

func TestImageSourceReturnsSamePicture(t *testing.T) {
	path := writeTestPNG(t, 4, 4)
	src, err := NewImageSource(NewImageDecoder(), path)
	if err != nil {
		t.Fatalf("NewImageSource: %v", err)
	}
	a, _ := src.Next()
	b, _ := src.Next()
	if a != b {
		t.Errorf("ImageSource.Next returned different Rasters across calls")
	}
}
