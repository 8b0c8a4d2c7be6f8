// Package source implements the --in grammar of SPEC_FULL.md §6: still
// images, video files, live cameras and the built-in SMPTE bars generator,
// all exposed as a uniform FrameSource the runner drives once per frame.
package source

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kvistgaard/ntsctv/encoder"
	"github.com/kvistgaard/ntsctv/raster"
	"github.com/kvistgaard/ntsctv/signal"
)

// ImageDecoder decodes a still-image file into a Raster.
type ImageDecoder interface {
	Decode(path string) (*raster.Raster, error)
}

// FrameSource yields one Raster picture per call to Next, in the display
// order the runner should encode. Video and camera sources return io.EOF
// (or a wrapped decode error) when the stream ends or a frame is dropped;
// the runner substitutes a placeholder per SPEC_FULL.md §7's
// RuntimeDecodeFailure policy rather than aborting.
type FrameSource interface {
	Next() (*raster.Raster, error)
	Close() error
}

// StaticEncoder is implemented by sources whose picture is generated
// directly in the composite domain rather than decoded from pixels (the
// SMPTE bars pattern). A runner that finds a source implementing this
// interface should call EncodeInto once instead of routing the source
// through FrameSource.Next and SourceEncoder.LoadXImage every frame.
type StaticEncoder interface {
	EncodeInto(enc *encoder.SourceEncoder, sig *signal.InputSignal, outW, outH int)
}

// Open parses one --in source string and returns a ready FrameSource.
// Grammar (spec.md §6):
//
//	:cam[:N]              live camera device N (default 0)
//	:bars[:/path/to/logo]  built-in SMPTE colour bars, optional centred logo
//	path/to/file.ext       still image or video file, dispatched by extension
func Open(spec string, decoder ImageDecoder, outW, outH int) (FrameSource, error) {
	switch {
	case spec == ":cam" || strings.HasPrefix(spec, ":cam:"):
		devArg := strings.TrimPrefix(spec, ":cam")
		devArg = strings.TrimPrefix(devArg, ":")
		n := 0
		if devArg != "" {
			v, err := strconv.Atoi(devArg)
			if err != nil {
				return nil, fmt.Errorf("source: bad camera index %q: %w", devArg, err)
			}
			n = v
		}
		return NewCameraSource(n, outW, outH)

	case spec == ":bars" || strings.HasPrefix(spec, ":bars:"):
		logoPath := strings.TrimPrefix(spec, ":bars")
		logoPath = strings.TrimPrefix(logoPath, ":")
		return NewBarsSource(decoder, logoPath)

	case isVideoExt(spec):
		return NewVideoSource(spec, outW, outH)

	default:
		return NewImageSource(decoder, spec)
	}
}

func isVideoExt(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range []string{
		".h264", ".h265", ".mpeg2", ".mpeg4", ".mp4", ".mjpeg", ".mpg", ".vp8",
		".mov", ".wmv", ".flv", ".avi", ".mkv", ".webm", ".m4v",
	} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
