package engine

import "testing"

func TestRampZeroBeforeStart(t *testing.T) {
	if v := ramp(0.5, 2, 1, 1.3); v != 0 {
		t.Errorf("ramp before start = %v, want 0", v)
	}
}

func TestRampSaturatesFarPastStart(t *testing.T) {
	if v := ramp(1000, 2, 1, 1.3); v != 1 {
		t.Errorf("ramp far past start = %v, want 1", v)
	}
}

func TestRampMonotonicOverTime(t *testing.T) {
	prev := 0.0
	for _, powerup := range []float64{1, 2, 3, 5, 8, 20, 100} {
		v := ramp(powerup, 2, 1, 1.3)
		if v < prev {
			t.Fatalf("ramp(%v) = %v, not monotonic (prev %v)", powerup, v, prev)
		}
		prev = v
	}
}

func TestRampBounded(t *testing.T) {
	for _, powerup := range []float64{0, 0.5, 1, 1.5, 2, 5, 10, 900, 901, 5000} {
		v := ramp(powerup, 2, 1, 1.3)
		if v < 0 || v > 1 {
			t.Fatalf("ramp(%v) = %v, out of [0,1]", powerup, v)
		}
	}
}
