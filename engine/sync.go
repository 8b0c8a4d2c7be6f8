package engine

import "math"

// syncRecover implements spec.md §4.3.2: vertical sync sweep, then a
// per-line horizontal sync sweep and colourburst phase tracking. It runs
// strictly serially — each line's horizontal search and colourburst update
// depends on the previous line's cur_hsync, and cur_vsync must be resolved
// before any per-line work begins.
func (e *TVEngine) syncRecover() {
	g := e.Geom
	e.recoverVertical()

	for l := 0; l < g.V; l++ {
		if l >= 5*g.S && l < g.V-3*g.S {
			e.recoverHorizontalLine(l)
		}
		e.lineHsync[l] = (e.curHsync + g.PicStart) % g.H

		if l > 15*g.S {
			e.updateColourburst(l)
		}
		e.rescaleLineCB(l)
	}
}

func (e *TVEngine) recoverVertical() {
	g := e.Geom
	best := 0
	found := false
	for i := -32 * g.S; i < 32*g.S; i++ {
		stride := g.H / (16 * g.S)
		if stride < 1 {
			stride = 1
		}
		var sum float64
		n := 0
		for j := 0; j < g.H; j += stride {
			line := ((e.curVsync+i)%g.V + g.V) % g.V
			sum += e.rxSignal[line*g.H+j]
			n++
		}
		filt := (sum / float64(n)) * e.agcLevel
		ratio := float64(g.V+i) / float64(g.V)
		if ratio >= 1.05+0.0002*filt {
			best = i
			found = true
			break
		}
	}
	if found {
		e.curVsync = ((e.curVsync+best)%g.V + g.V) % g.V
	}
}

// wrappedSample indexes rxSignal modulo its full padded length, so a search
// window that runs a few samples short of a row boundary (as cur_hsync
// offsets do) can never panic even on unusually small test geometries.
func (e *TVEngine) wrappedSample(pos int) float64 {
	n := len(e.rxSignal)
	pos %= n
	if pos < 0 {
		pos += n
	}
	return e.rxSignal[pos]
}

func (e *TVEngine) recoverHorizontalLine(l int) {
	g := e.Geom
	lineno2 := (l + e.curVsync + g.V) % g.V
	if lineno2 == 0 {
		lineno2 = g.V
	}
	sidx := lineno2*g.H + e.curHsync

	best := 0
	found := false
	for i := -8 * g.S; i < 8*g.S; i++ {
		var filt float64
		for k := 0; k < 4; k++ {
			filt += e.wrappedSample(sidx + i - k)
		}
		filt *= e.agcLevel
		ratio := float64(g.H+i) / float64(g.H)
		if ratio >= 1.005+0.0001*filt {
			best = i
			found = true
			break
		}
	}
	if found {
		e.curHsync = ((e.curHsync+best)%g.H + g.H) % g.H
	}
}

func (e *TVEngine) updateColourburst(l int) {
	g := e.Geom
	from := g.CBStart + 8*g.S
	to := g.CBStart + 28*g.S
	base := l*g.H + (e.curHsync &^ 3)
	for i := from; i < to && i < g.H; i++ {
		k := i & 3
		sample := e.wrappedSample(base+i) * e.agcLevel
		e.cbPhase[k] = e.cbPhase[k]*(1-1.0/128) + sample*(1.0/128)
	}
}

func (e *TVEngine) rescaleLineCB(l int) {
	var sumSq float64
	for _, v := range e.cbPhase {
		sumSq += v * v
	}
	scale := 32 / math.Sqrt(0.1+sumSq)
	for k := 0; k < 4; k++ {
		e.lineCbPhase[l][k] = e.cbPhase[k] * scale
	}
}
