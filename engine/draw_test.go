package engine

import (
	"runtime"
	"testing"

	"github.com/kvistgaard/ntsctv/encoder"
	"github.com/kvistgaard/ntsctv/geometry"
	"github.com/kvistgaard/ntsctv/raster"
	"github.com/kvistgaard/ntsctv/signal"
)

func newTestEngine(seed uint32) *TVEngine {
	g := geometry.New(1)
	e := New(g, seed)
	e.Configure(320, 240)
	e.Output = raster.New(320, 240)
	return e
}

func TestDrawNoSignalLawProducesBlackFrame(t *testing.T) {
	e := newTestEngine(1)
	if err := e.Draw(0, nil); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	for _, v := range e.rxSignal {
		if v != 0 {
			t.Fatalf("rxSignal not all zero with no receptions and no noise: %v", v)
		}
	}
	for i := 0; i < len(e.Output.Pix); i += 4 {
		r, g, b := e.Output.Pix[i], e.Output.Pix[i+1], e.Output.Pix[i+2]
		if r != 0 || g != 0 || b != 0 {
			t.Fatalf("pixel %d = (%d,%d,%d), want (0,0,0)", i/4, r, g, b)
		}
	}
}

func TestDrawIsDeterministic(t *testing.T) {
	g := geometry.New(1)
	src := signal.New(g)
	src.Sig[g.Top+5][g.PicStart+10] = 80

	recA := signal.Reception{Signal: src, Level: 0.8}
	recB := signal.Reception{Signal: src, Level: 0.8}

	ea := newTestEngine(42)
	eb := newTestEngine(42)

	if err := ea.Draw(0.06, []signal.Reception{recA}); err != nil {
		t.Fatalf("Draw a: %v", err)
	}
	if err := eb.Draw(0.06, []signal.Reception{recB}); err != nil {
		t.Fatalf("Draw b: %v", err)
	}

	if len(ea.Output.Pix) != len(eb.Output.Pix) {
		t.Fatalf("output length mismatch")
	}
	for i := range ea.Output.Pix {
		if ea.Output.Pix[i] != eb.Output.Pix[i] {
			t.Fatalf("byte %d differs: %d != %d", i, ea.Output.Pix[i], eb.Output.Pix[i])
		}
	}
}

// TestDrawIsDeterministicAcrossWorkerPoolSizes proves the property the
// LCG-jump noise/signal design (rng.AtBlock, engine/assembly.go's
// noiseFloorAt/burstNoiseAt) exists for: the same seed and inputs must
// produce byte-identical output whether the assembly/render worker pools
// run with GOMAXPROCS(1) or a higher degree of parallelism.
func TestDrawIsDeterministicAcrossWorkerPoolSizes(t *testing.T) {
	g := geometry.New(1)
	src := signal.New(g)
	src.Sig[g.Top+5][g.PicStart+10] = 80

	prev := runtime.GOMAXPROCS(0)
	defer runtime.GOMAXPROCS(prev)

	runWith := func(procs int) []byte {
		runtime.GOMAXPROCS(procs)
		rec := signal.Reception{Signal: src, Level: 0.8}
		e := newTestEngine(42)
		if err := e.Draw(0.06, []signal.Reception{rec}); err != nil {
			t.Fatalf("Draw (GOMAXPROCS=%d): %v", procs, err)
		}
		out := make([]byte, len(e.Output.Pix))
		copy(out, e.Output.Pix)
		return out
	}

	single := runWith(1)
	multi := runWith(8)

	if len(single) != len(multi) {
		t.Fatalf("output length mismatch between worker pool sizes")
	}
	for i := range single {
		if single[i] != multi[i] {
			t.Fatalf("byte %d differs across worker pool sizes: %d != %d, want output independent of GOMAXPROCS", i, single[i], multi[i])
		}
	}
}

// TestSyncRecoveryConvergesWithinFewFrames checks that curVsync stops
// changing within a handful of frames after a reception arrives offset by
// a whole number of scan lines, well inside recoverVertical's search window.
func TestSyncRecoveryConvergesWithinFewFrames(t *testing.T) {
	g := geometry.New(1)
	sig := signal.New(g)
	enc := encoder.New(g)
	enc.SetupSync(sig, true, false)

	rec := signal.Reception{Signal: sig, Ofs: 5 * g.H, Level: 1}

	e := New(g, 7)
	e.Configure(320, 240)

	var last, prev int
	for frame := 0; frame < 6; frame++ {
		e.Output = raster.New(320, 240)
		if err := e.Draw(0, []signal.Reception{rec}); err != nil {
			t.Fatalf("Draw frame %d: %v", frame, err)
		}
		prev = last
		last = e.curVsync
		if frame == 4 && last != prev {
			t.Errorf("curVsync still changing at frame %d: %d -> %d, want converged by frame 3", frame, prev, last)
		}
	}
}

// TestHorizontalSyncConvergesForNonLineAlignedOffset checks property #8's
// other half: a reception offset by a fractional line (not a multiple of H)
// must still pull curHsync away from its zero starting value and settle,
// instead of the search window staying pinned near position 0 every frame
// regardless of where the true sync edge actually is.
func TestHorizontalSyncConvergesForNonLineAlignedOffset(t *testing.T) {
	g := geometry.New(1)
	sig := signal.New(g)
	enc := encoder.New(g)
	enc.SetupSync(sig, true, false)

	rec := signal.Reception{Signal: sig, Ofs: 5*g.H + 37, Level: 1}

	e := New(g, 11)
	e.Configure(320, 240)

	var last, prev int
	for frame := 0; frame < 6; frame++ {
		e.Output = raster.New(320, 240)
		if err := e.Draw(0, []signal.Reception{rec}); err != nil {
			t.Fatalf("Draw frame %d: %v", frame, err)
		}
		prev = last
		last = e.curHsync
		if frame == 4 && last != prev {
			t.Errorf("curHsync still changing at frame %d: %d -> %d, want converged by frame 3", frame, prev, last)
		}
	}
	if last == 0 {
		t.Errorf("curHsync stayed at 0 after a non-line-aligned offset of 37 samples, want it to track the true edge")
	}
}

// TestDrawPowerRampIncreasesMeanLuma checks the full-pipeline power-up
// envelope (spec.md §4.3.1 step 4, via puheight/pixbright's dependence on
// Powerup): a solid-white input rendered at increasing Powerup values should
// never get dimmer.
func TestDrawPowerRampIncreasesMeanLuma(t *testing.T) {
	g := geometry.New(1)
	sig := signal.New(g)
	enc := encoder.New(g)
	enc.SetupSync(sig, true, false)
	enc.DrawSolidRelLCP(sig, 0, 1, 0, 1, 100, 0, 0)

	rec := signal.Reception{Signal: sig, Level: 1}

	var lastLuma float64
	for i, powerup := range []float64{0.5, 2, 8, 30, 200, 1000} {
		e := New(g, 3)
		e.Configure(320, 240)
		e.Powerup = powerup
		e.Output = raster.New(320, 240)
		if err := e.Draw(0, []signal.Reception{rec}); err != nil {
			t.Fatalf("Draw powerup=%v: %v", powerup, err)
		}
		luma := e.Output.MeanLuma()
		if i > 0 && luma < lastLuma-1e-9 {
			t.Errorf("powerup=%v: mean luma %v dropped below previous %v", powerup, luma, lastLuma)
		}
		lastLuma = luma
	}
}

func TestLevelTableSymmetric(t *testing.T) {
	e := newTestEngine(1)
	e.computeLevelTable(3.0)
	for h := 1; h <= geometry.MaxLineHeight; h++ {
		for i := 0; i < h; i++ {
			a := e.levelTable[h][i].Index
			b := e.levelTable[h][h-1-i].Index
			if a != b {
				t.Errorf("levelTable[%d][%d].Index = %d, levelTable[%d][%d].Index = %d, want equal", h, i, a, h, h-1-i, b)
			}
		}
	}
}
