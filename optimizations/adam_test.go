package optimizations

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestAdamUpdateMovesAgainstGradient(t *testing.T) {
	p := mat.NewDense(1, 1, []float64{1.0})
	g := mat.NewDense(1, 1, []float64{0.5})
	m := mat.NewDense(1, 1, nil)
	v := mat.NewDense(1, 1, nil)

	AdamUpdateInPlace(p, g, m, v, 1, 0.01, 0.9, 0.999, 1e-8, 0.0)

	if p.At(0, 0) >= 1.0 {
		t.Fatalf("positive gradient did not decrease the parameter: %g", p.At(0, 0))
	}
	// With bias correction the very first step is ~lr * sign(g).
	if math.Abs((1.0-p.At(0, 0))-0.01) > 1e-6 {
		t.Fatalf("first step size %g, want ~0.01", 1.0-p.At(0, 0))
	}
	if m.At(0, 0) == 0 || v.At(0, 0) == 0 {
		t.Fatal("moment estimates were not updated")
	}
}

func TestAdamUpdateShapeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on shape mismatch")
		}
	}()
	AdamUpdateInPlace(
		mat.NewDense(2, 1, nil), mat.NewDense(1, 1, nil),
		mat.NewDense(2, 1, nil), mat.NewDense(2, 1, nil),
		1, 0.01, 0.9, 0.999, 1e-8, 0.0)
}

func TestClipGrads(t *testing.T) {
	a := mat.NewDense(1, 2, []float64{3, 0})
	b := mat.NewDense(1, 1, []float64{4})
	// global norm is 5
	s := ClipGrads(1.0, a, b)
	if math.Abs(s-0.2) > 1e-12 {
		t.Fatalf("scale=%g, want 0.2", s)
	}
	norm := math.Sqrt(a.At(0, 0)*a.At(0, 0) + a.At(0, 1)*a.At(0, 1) + b.At(0, 0)*b.At(0, 0))
	if math.Abs(norm-1.0) > 1e-12 {
		t.Fatalf("clipped norm=%g, want 1", norm)
	}
}

func TestClipGradsNoop(t *testing.T) {
	a := mat.NewDense(1, 1, []float64{0.5})
	if s := ClipGrads(1.0, a); s != 1.0 {
		t.Fatalf("scale=%g, want 1.0", s)
	}
	if a.At(0, 0) != 0.5 {
		t.Fatal("in-range gradient was modified")
	}
	if s := ClipGrads(0, a); s != 1.0 {
		t.Fatal("disabled clipping must be a no-op")
	}
}
