package source

import (
	"testing"

	"github.com/kvistgaard/ntsctv/raster"
)

func TestAlphaMaskOpaqueToWhiteTransparentToBlack(t *testing.T) {
	pic := raster.New(2, 1)
	pic.Set(0, 0, 10, 20, 30, 0)   // fully transparent
	pic.Set(1, 0, 10, 20, 30, 255) // opaque

	m := alphaMask(pic)
	r, g, b, _ := m.At(0, 0)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("transparent pixel mask = (%d,%d,%d), want black", r, g, b)
	}
	r, g, b, _ = m.At(1, 0)
	if r != 255 || g != 255 || b != 255 {
		t.Errorf("opaque pixel mask = (%d,%d,%d), want white", r, g, b)
	}
}

func TestNewBarsSourceNoLogo(t *testing.T) {
	s, err := NewBarsSource(nil, "")
	if err != nil {
		t.Fatalf("NewBarsSource: %v", err)
	}
	if s.logo != nil {
		t.Errorf("logo should be nil when logoPath is empty")
	}
}

func TestBarsSourceNextIsNotAFrameSource(t *testing.T) {
	s, _ := NewBarsSource(nil, "")
	if _, err := s.Next(); err == nil {
		t.Error("BarsSource.Next should report it is not a per-frame source")
	}
}
