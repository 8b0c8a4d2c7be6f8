package encoder

import (
	"math"

	"github.com/kvistgaard/ntsctv/signal"
)

// lcpToSamples converts an (L, C, phi) luma/chroma/phase triple into the
// four-sample subcarrier cycle used to fill a solid-colour region: sample k
// of every 4-sample group is n[k].
func lcpToSamples(luma, chroma, phase float64) [4]int8 {
	var n [4]int8
	for k := 0; k < 4; k++ {
		v := luma + chroma*math.Cos((90*float64(k)+phase)*math.Pi/180)
		if v < 0 {
			v = 0
		} else if v > 127 {
			v = 127
		}
		n[k] = int8(v)
	}
	return n
}

// DrawSolidRelLCP fills the relative rectangle [left, right) x [top, bot)
// (each in [0, 1], relative to the visible picture window) with a solid
// colour given as luma/chroma/phase, per spec.md §4.2.
func (e *SourceEncoder) DrawSolidRelLCP(sig *signal.InputSignal, left, right, top, bot, luma, chroma, phase float64) {
	g := e.Geom
	visLen := g.VisEnd - g.VisStart

	x0 := g.VisStart + int(left*float64(visLen))
	x1 := g.VisStart + int(right*float64(visLen))
	y0 := g.Top + int(top*float64(g.VisLines))
	y1 := g.Top + int(bot*float64(g.VisLines))

	x0, x1 = clampInt(x0, 0, g.H), clampInt(x1, 0, g.H)
	y0, y1 = clampInt(y0, 0, g.V), clampInt(y1, 0, g.V)

	n := lcpToSamples(luma, chroma, phase)
	for y := y0; y < y1; y++ {
		line := sig.Sig[y]
		for x := x0; x < x1; x++ {
			line[x] = n[x&3]
		}
	}
	sig.Wrap()
}
