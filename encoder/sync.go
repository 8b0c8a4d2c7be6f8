// Package encoder converts Rasters (and the SMPTE test pattern) into the
// InputSignal composite-sample matrices the engine demodulates.
package encoder

import (
	"github.com/kvistgaard/ntsctv/geometry"
	"github.com/kvistgaard/ntsctv/signal"
)

// SourceEncoder draws sync/colourburst scaffolding and pictures into an
// InputSignal. It holds no state of its own beyond the geometry it was
// built for; all mutable state lives in the InputSignal it is handed.
type SourceEncoder struct {
	Geom geometry.Geometry
}

// New returns a SourceEncoder for the given geometry.
func New(g geometry.Geometry) *SourceEncoder {
	return &SourceEncoder{Geom: g}
}

func fillRange(line []int8, from, to int, v int8) {
	if from < 0 {
		from = 0
	}
	if to > len(line) {
		to = len(line)
	}
	for i := from; i < to; i++ {
		line[i] = v
	}
}

// SetupSync fills sig with sync pulses, blanking, black picture level and
// (optionally) colourburst on every line, per spec.md §4.1. doSSAVI selects
// the "sync suppressed above video" polarity some encoders use for test
// signals: the sync level normally used during the horizontal blanking
// interval becomes WHITE instead of SYNC.
func (e *SourceEncoder) SetupSync(sig *signal.InputSignal, doCB, doSSAVI bool) {
	g := e.Geom
	syncLevel := int8(geometry.Sync)
	if doSSAVI {
		syncLevel = int8(geometry.White)
	}

	for y := 0; y < g.V; y++ {
		line := sig.Sig[y]
		vsync := y >= 3 && y < 7

		if vsync {
			fillRange(line, g.SyncStart, g.BPStart, geometry.Blank)
			fillRange(line, g.BPStart, g.PicStart, syncLevel)
		} else {
			fillRange(line, g.SyncStart, g.BPStart, syncLevel)
			fillRange(line, g.BPStart, g.PicStart, geometry.Blank)
		}
		fillRange(line, g.PicStart, g.FPStart, geometry.Black)
		fillRange(line, g.FPStart, g.H, geometry.Blank)

		if doCB {
			for cycle := 0; cycle < 9; cycle++ {
				base := g.CBStart + cycle*4
				if base+3 >= g.H {
					break
				}
				line[base+1] += geometry.CB
				line[base+3] -= geometry.CB
			}
		}
	}
	sig.Wrap()
}
