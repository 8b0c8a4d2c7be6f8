// Package engine implements the NTSC demodulator and renderer: TVEngine
// owns the receiver signal buffer, AGC state, sync trackers, colourburst
// phase, scan-line level tables and intensity LUT described in spec.md §4.3.
package engine

import (
	"math"

	"github.com/kvistgaard/ntsctv/geometry"
	"github.com/kvistgaard/ntsctv/raster"
	"github.com/kvistgaard/ntsctv/rng"
)

// LevelEntry is one cell of the level table: which of the three brightness
// buckets a replicated scan-line row falls into, and the multiplier to
// apply to the demodulated RGB for that row.
type LevelEntry struct {
	Index int // 0, 1 or 2
	Value float64
}

// TVEngine is the demodulator/renderer described in spec.md §4.3.
type TVEngine struct {
	Geom geometry.Geometry
	Knobs

	rxSignal []float64 // len SignalLen + 2*H
	crtload  []float64 // len V

	lineHsync   []int       // len V
	curHsync    int
	curVsync    int
	cbPhase     [4]float64
	lineCbPhase [][4]float64 // len V

	agcLevel float64

	// shrinkpulse is the line number the next crtload glitch fires on, or
	// -1 when none is pending; armed by setupFrame, consumed once by
	// smoothCrtLoad.
	shrinkpulse int

	intensityValues [1024]int
	levelTable      [geometry.MaxLineHeight + 1][geometry.MaxLineHeight + 1]LevelEntry

	masterSeed uint32
	frameIndex uint64
	master     *rng.LCG
	ghostRNG   *rng.LCG

	Output *raster.Raster // borrowed render target

	outW, outH         int
	usewidth, useheight int

	snapAspect bool

	// derived per-frame, kept as fields so render_line (§4.3.3) can read
	// them without re-deriving each line.
	puheight       float64
	tintI, tintQ   float64
	scanwidth      float64
}

// New returns a TVEngine for the given geometry and deterministic run seed.
func New(g geometry.Geometry, seed uint32) *TVEngine {
	e := &TVEngine{
		Geom:       g,
		Knobs:      DefaultKnobs(),
		rxSignal:   make([]float64, g.SignalLen+2*g.H),
		crtload:    make([]float64, g.V),
		lineHsync:  make([]int, g.V),
		lineCbPhase: make([][4]float64, g.V),
		masterSeed: seed,
		master:     rng.NewLCG(seed),
		ghostRNG:   rng.NewLCG(rng.Jump(seed, 1000000007)),
		snapAspect: true,
	}
	e.buildIntensityTable()
	e.crtload[0] = 0.5
	e.shrinkpulse = -1
	return e
}

// buildIntensityTable fills the gamma LUT: i -> 65535*(i/256)^0.8 >> 8,
// which spec.md requires to be monotone non-decreasing.
func (e *TVEngine) buildIntensityTable() {
	for i := 0; i < 1024; i++ {
		v := 65535.0 * math.Pow(float64(i)/256.0, 0.8)
		e.intensityValues[i] = int(v) >> 8
	}
}

// Configure sets the output raster size the engine blits into. usewidth and
// useheight are derived from (outW, outH) and forced even; when snapAspect
// is enabled and the requested size is within 2.5% of a VISLINES multiple,
// useheight snaps to that multiple (spec.md §9, cosmetic).
func (e *TVEngine) Configure(outW, outH int) {
	e.outW, e.outH = outW, outH

	uw, uh := outW, outH
	if e.snapAspect {
		mult := float64(uh) / float64(e.Geom.VisLines)
		rounded := math.Round(mult)
		if rounded > 0 {
			snapped := rounded * float64(e.Geom.VisLines)
			if math.Abs(snapped-float64(uh))/float64(uh) < 0.025 {
				uh = int(snapped)
			}
		}
	}
	if uw%2 != 0 {
		uw--
	}
	if uh%2 != 0 {
		uh--
	}
	if uw > outW {
		uw = outW
	}
	if uh > outH {
		uh = outH
	}
	e.usewidth, e.useheight = uw, uh
}

// SubWidth is the per-line resampled-pixel count used internally by the
// renderer: usewidth divided by the horizontal replication factor, so that
// blastRow's xrepl-fold replication spans exactly usewidth output pixels.
func (e *TVEngine) SubWidth() int {
	return e.usewidth / e.xrepl()
}
