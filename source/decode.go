package source

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kvistgaard/ntsctv/raster"
)

// stdlibDecoder decodes still images with the standard library's registered
// codecs plus golang.org/x/image's extended set (BMP, TIFF, WebP),
// registered here purely for their Decode side effect.
type stdlibDecoder struct{}

// NewImageDecoder returns the default ImageDecoder.
func NewImageDecoder() ImageDecoder {
	return stdlibDecoder{}
}

func (stdlibDecoder) Decode(path string) (*raster.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return raster.FromImage(img), nil
}
