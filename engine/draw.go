package engine

import (
	"fmt"
	"math"

	"github.com/kvistgaard/ntsctv/signal"
	"golang.org/x/sync/errgroup"
)

// Draw renders one frame into e.Output, following the per-frame pipeline of
// spec.md §4.3.1: AGC prep, signal assembly, sync recovery, knob
// integration, level table, CRT-load smoothing, line rendering and the
// final blit. Output must already be sized via Configure and assigned
// before calling Draw.
func (e *TVEngine) Draw(noiseLevel float64, receptions []signal.Reception) error {
	if e.Output == nil {
		return fmt.Errorf("engine: Draw called with nil Output raster")
	}
	g := e.Geom

	e.agcLevel = 1 / rxSignalLevel(noiseLevel, receptions)
	if math.IsInf(e.agcLevel, 0) || math.IsNaN(e.agcLevel) {
		e.agcLevel = 1
	}

	e.setupFrame()

	for k := range receptions {
		receptions[k].UpdateGhost(e.ghostRNG)
	}

	random0 := e.master.Next()
	random1 := e.master.Next()
	ec := e.ChannelChangeCycles

	if err := e.assemble(receptions, noiseLevel, random0, random1, ec); err != nil {
		return fmt.Errorf("engine: assemble: %w", err)
	}

	e.syncRecover()

	e.crtload[g.Top-1] = 0.5
	e.puheight = ramp(e.Powerup, 2, 1, 1.3) * e.HeightControl * (1.125 - 0.125*ramp(e.Powerup, 2, 2, 1.1))

	tintRad := (103 + e.TintControl) * math.Pi / 180
	e.tintI = -math.Cos(tintRad)
	e.tintQ = math.Sin(tintRad)

	avgheight := e.puheight * float64(e.useheight) / float64(g.VisLines)
	e.computeLevelTable(avgheight)

	e.smoothCrtLoad()
	e.frameIndex++

	grp := new(errgroup.Group)
	grp.SetLimit(-1)
	for l := g.Top; l < g.Bot; l++ {
		line := l
		grp.Go(func() error {
			e.renderLine(line)
			return nil
		})
	}
	return grp.Wait()
}

// smoothCrtLoad implements spec.md §4.3.1 step 6. It runs strictly serially:
// crtload[l] depends on crtload[l-1].
func (e *TVEngine) smoothCrtLoad() {
	g := e.Geom
	baseload := 0.5
	for l := g.Top; l < g.Bot; l++ {
		if l == e.shrinkpulse {
			baseload += 0.4
			e.shrinkpulse = -1
		}

		sigOfs := ((l+e.curVsync+g.V)%g.V+g.V)%g.V*g.H + e.lineHsync[l]
		var tot float64
		for i := 0; i < g.PicLen; i++ {
			pos := sigOfs + i
			if pos >= 0 && pos < len(e.rxSignal) {
				tot += e.rxSignal[pos]
			}
		}
		totsignal := tot * e.agcLevel

		slineno := l - g.Top
		var squeeze float64
		if slineno > 184 {
			squeeze = float64(slineno-184) * float64(l-184) * 0.001 * e.Squeezebottom
		}

		e.crtload[l] = 0.95*e.crtload[l-1] + 0.05*(baseload+(totsignal-30000)/100000+squeeze)
	}
}
