// Package sink implements the --out grammar of SPEC_FULL.md §6: a finished
// raster either goes to an ffmpeg-piped container file or to an on-screen
// window (":highgui").
package sink

import (
	"strings"

	"github.com/kvistgaard/ntsctv/raster"
)

// FrameSink accepts one finished Raster per Write call, in display order.
type FrameSink interface {
	Write(pic *raster.Raster) error
	Close() error
}

// Open parses one --out sink string. ":highgui" opens an on-screen window;
// anything else is treated as a container file path written via ffmpeg at
// fps frames per second.
func Open(spec string, w, h int, fps float64) (FrameSink, error) {
	if strings.HasPrefix(spec, ":highgui") {
		return NewWindowSink(w, h)
	}
	return NewFileSink(spec, w, h, fps)
}
