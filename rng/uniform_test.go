package rng

import "testing"

func TestUniformRange(t *testing.T) {
	g := NewLCG(1)
	for i := 0; i < 10000; i++ {
		v := g.Uniform(-2, 3)
		if v < -2 || v >= 3 {
			t.Fatalf("Uniform(-2, 3) = %v, out of range", v)
		}
	}
}

func TestUniformDeterministic(t *testing.T) {
	a := NewLCG(7)
	b := NewLCG(7)
	for i := 0; i < 100; i++ {
		va := a.Uniform(0, 1)
		vb := b.Uniform(0, 1)
		if va != vb {
			t.Fatalf("Uniform diverged at step %d: %v != %v", i, va, vb)
		}
	}
}

func TestIntnRange(t *testing.T) {
	g := NewLCG(99)
	for i := 0; i < 10000; i++ {
		v := g.Intn(5)
		if v < 0 || v >= 5 {
			t.Fatalf("Intn(5) = %d, out of range", v)
		}
	}
}

func TestIntnZeroOrNegativeIsZero(t *testing.T) {
	g := NewLCG(1)
	if v := g.Intn(0); v != 0 {
		t.Errorf("Intn(0) = %d, want 0", v)
	}
	if v := g.Intn(-3); v != 0 {
		t.Errorf("Intn(-3) = %d, want 0", v)
	}
}
