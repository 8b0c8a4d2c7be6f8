package source

import (
	"errors"
	"fmt"

	"github.com/kvistgaard/ntsctv/encoder"
	"github.com/kvistgaard/ntsctv/raster"
	"github.com/kvistgaard/ntsctv/signal"
)

// BarsSource is the built-in SMPTE colour-bars pattern, drawn directly in
// the composite domain via encoder.DrawSMPTEBars rather than decoded from a
// picture. It implements FrameSource only so it fits into the same --in
// dispatch table as file-backed sources; a runner should prefer the
// StaticEncoder path and never actually call Next on it.
type BarsSource struct {
	logo     *raster.Raster
	logoMask *raster.Raster
}

// NewBarsSource builds a bars source, optionally compositing logoPath
// (decoded via decoder) centred over the pattern. An empty logoPath omits
// the logo.
func NewBarsSource(decoder ImageDecoder, logoPath string) (*BarsSource, error) {
	if logoPath == "" {
		return &BarsSource{}, nil
	}
	logo, err := decoder.Decode(logoPath)
	if err != nil {
		return nil, fmt.Errorf("source: decode logo %s: %w", logoPath, err)
	}
	return &BarsSource{logo: logo, logoMask: alphaMask(logo)}, nil
}

// alphaMask builds the black-means-transparent mask LoadXImage expects from
// pic's own alpha channel: transparent pixels become black, opaque ones
// white.
func alphaMask(pic *raster.Raster) *raster.Raster {
	m := raster.New(pic.Width, pic.Height)
	for y := 0; y < pic.Height; y++ {
		for x := 0; x < pic.Width; x++ {
			_, _, _, a := pic.At(x, y)
			if a == 0 {
				m.Set(x, y, 0, 0, 0, 255)
			} else {
				m.Set(x, y, 255, 255, 255, 255)
			}
		}
	}
	return m
}

// EncodeInto implements StaticEncoder.
func (s *BarsSource) EncodeInto(enc *encoder.SourceEncoder, sig *signal.InputSignal, outW, outH int) {
	enc.DrawSMPTEBars(sig, s.logo, s.logoMask, outW, outH)
}

func (s *BarsSource) Next() (*raster.Raster, error) {
	return nil, errors.New("source: BarsSource is a StaticEncoder, not a per-frame FrameSource")
}

func (s *BarsSource) Close() error { return nil }
