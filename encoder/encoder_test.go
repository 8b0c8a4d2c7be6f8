package encoder

import (
	"testing"

	"github.com/kvistgaard/ntsctv/filter"
	"github.com/kvistgaard/ntsctv/geometry"
	"github.com/kvistgaard/ntsctv/raster"
	"github.com/kvistgaard/ntsctv/signal"
)

func TestSetupSyncSingleContiguousSyncSegment(t *testing.T) {
	g := geometry.Default
	e := New(g)
	sig := signal.New(g)
	e.SetupSync(sig, true, false)

	for y := 0; y < g.V; y++ {
		line := sig.Sig[y]
		inSync := false
		segments := 0
		for x := 0; x < g.BPStart; x++ {
			isSync := int(line[x]) == geometry.Sync
			if isSync && !inSync {
				segments++
			}
			inSync = isSync
		}
		if segments > 1 {
			t.Errorf("line %d: found %d disjoint sync segments before BPStart, want <= 1", y, segments)
		}
	}
}

func TestSetupSyncColourburstSumsToZero(t *testing.T) {
	g := geometry.Default
	e := New(g)
	sig := signal.New(g)
	e.SetupSync(sig, true, false)

	// pick a non-vsync line
	line := sig.Sig[10]
	for base := g.CBStart; base+3 < g.CBStart+36*g.S && base+3 < len(line); base += 4 {
		sum := int(line[base]) + int(line[base+1]) + int(line[base+2]) + int(line[base+3])
		blankBase := 0 // sync/blank baseline for these positions is 0 outside CB
		if sum != blankBase {
			t.Errorf("group at %d: sum=%d, want 0 (blank baseline, CB burst cancels)", base, sum)
		}
	}
}

func TestLoadXImageClampsToValidRange(t *testing.T) {
	g := geometry.Default
	e := New(g)
	sig := signal.New(g)
	e.SetupSync(sig, true, false)

	pic := raster.New(64, 48)
	for y := 0; y < pic.Height; y++ {
		for x := 0; x < pic.Width; x++ {
			pic.Set(x, y, 255, 255, 255, 255)
		}
	}
	e.LoadXImage(sig, pic, nil, 0, 0, 320, 240, 320, 240)

	for y := g.Top; y < g.Bot; y++ {
		for x := g.PicStart; x < g.PicStart+g.PicLen; x++ {
			v := sig.Sig[y][x]
			if v < 0 || v > 125 {
				t.Fatalf("sample at (%d,%d) = %d out of [0,125]", y, x, v)
			}
		}
	}
}

func TestLoadXImageMaskLeavesDestinationUnchanged(t *testing.T) {
	g := geometry.Default
	e := New(g)
	sig := signal.New(g)
	e.SetupSync(sig, true, false)
	before := make([]int8, g.H)
	copy(before, sig.Sig[g.Top][:])

	pic := raster.New(8, 8)
	pic.Fill(255, 255, 255, 255)
	mask := raster.New(8, 8) // all-zero: fully masked out
	e.LoadXImage(sig, pic, mask, 0, 0, 40, 40, 320, 240)

	after := sig.Sig[g.Top]
	for x := range before {
		if before[x] != after[x] {
			t.Fatalf("masked LoadXImage modified sample at x=%d: %d -> %d", x, before[x], after[x])
		}
	}
}

// TestLoadXImageMaskFreezesFilterHistoryAcrossMaskedRun covers a
// partially-masked line (cols 0-3 masked, cols 4-7 not), so the first
// non-masked column's filter output must match a bank that was never
// stepped through the masked run — i.e. it sees exactly the output of a
// fresh bank's very first Step call, not one primed by zero samples.
func TestLoadXImageMaskFreezesFilterHistoryAcrossMaskedRun(t *testing.T) {
	g := geometry.Default
	e := New(g)
	sig := signal.New(g)
	e.SetupSync(sig, true, false)

	pic := raster.New(8, 1)
	pic.Fill(255, 255, 255, 255)
	mask := raster.New(8, 1) // cols 0-3 stay (0,0,0,0): masked/transparent
	for x := 4; x < 8; x++ {
		mask.Set(x, 0, 255, 255, 255, 255) // cols 4-7: unmasked
	}

	outW, targetW := g.PicLen, 8
	e.LoadXImage(sig, pic, mask, 0, 0, targetW, g.VisLines, outW, g.VisLines)

	row := g.Top
	destCol := 4 + g.PicStart

	xLen := 8
	multiq := buildMultiQ(xLen + 4)
	var rawy, rawi, rawq int64 = (36 * 255) >> 7, (2 * 255) >> 7, 0

	bank := filter.NewBank()
	filtY, filtI, filtQ := bank.Step(rawy, rawi, rawq)
	c := filtY + ((multiq[4]*filtI + multiq[7]*filtQ) >> 12)
	c = ((c * 100) >> 14) + geometry.Black
	if c < 0 {
		c = 0
	} else if c > 125 {
		c = 125
	}
	want := int8(c)

	if got := sig.Sig[row][destCol]; got != want {
		t.Fatalf("sample at first unmasked column = %d, want %d (bank history must be untouched by the masked run)", got, want)
	}
}

func TestDrawSolidRelLCPMeanLumaWithinTolerance(t *testing.T) {
	g := geometry.Default
	targets := []float64{15, 36, 75, 100}
	for _, L := range targets {
		e := New(g)
		sig := signal.New(g)
		e.SetupSync(sig, true, false)
		e.DrawSolidRelLCP(sig, 0, 1, 0, 1, L, 0, 0)

		var sum float64
		count := 0
		for y := g.Top; y < g.Bot; y++ {
			for x := g.VisStart; x < g.VisEnd; x++ {
				sum += float64(sig.Sig[y][x])
				count++
			}
		}
		mean := sum / float64(count)
		if diff := (mean - L) / L; diff > 0.05 || diff < -0.05 {
			t.Errorf("L=%v: mean=%v, relative error %v exceeds 0.05", L, mean, diff)
		}
	}
}

func TestDrawSMPTEBarsTopBandHasSeveralDistinctLevels(t *testing.T) {
	g := geometry.Default
	e := New(g)
	sig := signal.New(g)
	e.DrawSMPTEBars(sig, nil, nil, 320, 240)

	y := g.Top + g.VisLines*30/100 // well within the 0-0.68 top band
	visLen := g.VisEnd - g.VisStart
	seen := map[int8]bool{}
	for i := 0; i < 7; i++ {
		x := g.VisStart + (i*visLen)/7 + visLen/14
		seen[sig.Sig[y][x]] = true
	}
	if len(seen) < 4 {
		t.Errorf("expected several distinct bar levels at y=%d, saw %d distinct values", y, len(seen))
	}
}
