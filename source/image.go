package source

import (
	"fmt"

	"github.com/kvistgaard/ntsctv/raster"
)

// ImageSource is a still-image FrameSource: it decodes once and returns the
// same Raster on every call, so a plain photo behaves as a stationary
// channel for the whole run.
type ImageSource struct {
	pic *raster.Raster
}

// NewImageSource decodes path once via decoder.
func NewImageSource(decoder ImageDecoder, path string) (*ImageSource, error) {
	pic, err := decoder.Decode(path)
	if err != nil {
		return nil, fmt.Errorf("source: decode %s: %w", path, err)
	}
	return &ImageSource{pic: pic}, nil
}

func (s *ImageSource) Next() (*raster.Raster, error) { return s.pic, nil }
func (s *ImageSource) Close() error                  { return nil }
