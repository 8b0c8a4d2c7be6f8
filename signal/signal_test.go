package signal

import (
	"math"
	"testing"

	"github.com/kvistgaard/ntsctv/geometry"
	"github.com/kvistgaard/ntsctv/rng"
)

func TestWrapDuplicatesRowZero(t *testing.T) {
	g := geometry.New(1)
	sig := New(g)
	sig.Sig[0][5] = 42
	sig.Wrap()
	if sig.Sig[g.V][5] != 42 {
		t.Fatalf("Sig[V][5] = %d, want 42", sig.Sig[g.V][5])
	}
}

func TestFlatWrapsModuloSignalLen(t *testing.T) {
	g := geometry.New(1)
	sig := New(g)
	sig.Sig[0][0] = 7
	if got := sig.Flat(g.SignalLen); got != 7 {
		t.Errorf("Flat(SignalLen) = %d, want 7", got)
	}
	want := sig.Flat((g.V - 1) * g.H)
	if got := sig.Flat(-g.H); got != want {
		t.Errorf("Flat(-H) = %d, want %d", got, want)
	}
}

func TestUpdateGhostNoMultipathSettlesToStaticShape(t *testing.T) {
	r := Reception{Multipath: 0}
	g := rng.NewLCG(1)
	for i := 0; i < 5; i++ {
		r.UpdateGhost(g)
	}
	n := len(r.GhostFIR)
	for i := 0; i < n; i++ {
		switch {
		case i < n/2:
			if r.GhostFIR[i] != 0 {
				t.Errorf("GhostFIR[%d] = %v, want 0", i, r.GhostFIR[i])
			}
		case i&1 == 1:
			if r.GhostFIR[i] != 0.04/float64(n) {
				t.Errorf("GhostFIR[%d] = %v, want %v", i, r.GhostFIR[i], 0.04/float64(n))
			}
		default:
			if r.GhostFIR[i] != -0.08/float64(n) {
				t.Errorf("GhostFIR[%d] = %v, want %v", i, r.GhostFIR[i], -0.08/float64(n))
			}
		}
	}
}

func TestUpdateGhostMultipathStaysBounded(t *testing.T) {
	r := Reception{Multipath: 1}
	g := rng.NewLCG(2)
	for i := 0; i < 10000; i++ {
		r.UpdateGhost(g)
		for _, v := range r.GhostFIR {
			if math.IsNaN(v) || math.Abs(v) > 1 {
				t.Fatalf("GhostFIR escaped bounds after %d frames: %v", i, r.GhostFIR)
			}
		}
	}
}

func TestUpdateGhostIsDeterministic(t *testing.T) {
	ra := Reception{Multipath: 0.5}
	rb := Reception{Multipath: 0.5}
	ga := rng.NewLCG(123)
	gb := rng.NewLCG(123)
	for i := 0; i < 200; i++ {
		ra.UpdateGhost(ga)
		rb.UpdateGhost(gb)
		if ra.GhostFIR != rb.GhostFIR {
			t.Fatalf("GhostFIR diverged at frame %d: %v != %v", i, ra.GhostFIR, rb.GhostFIR)
		}
	}
}
