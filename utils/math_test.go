package utils

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestColVectorSoftmax(t *testing.T) {
	v := mat.NewDense(3, 1, []float64{1, 2, 3})
	p := ColVectorSoftmax(v)
	sum := 0.0
	for i := 0; i < 3; i++ {
		if p.At(i, 0) <= 0 {
			t.Fatalf("p[%d]=%g, want positive", i, p.At(i, 0))
		}
		sum += p.At(i, 0)
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("sum=%g, want 1", sum)
	}
	if !(p.At(2, 0) > p.At(1, 0) && p.At(1, 0) > p.At(0, 0)) {
		t.Fatal("softmax did not preserve ordering")
	}
}

func TestColVectorSoftmaxStability(t *testing.T) {
	v := mat.NewDense(2, 1, []float64{1000, 1001})
	p := ColVectorSoftmax(v)
	for i := 0; i < 2; i++ {
		if math.IsNaN(p.At(i, 0)) || math.IsInf(p.At(i, 0), 0) {
			t.Fatalf("p[%d] not finite: %g", i, p.At(i, 0))
		}
	}
	if math.Abs(p.At(0, 0)+p.At(1, 0)-1) > 1e-12 {
		t.Fatal("large logits broke normalization")
	}
}

func TestCrossEntropyWithGrad(t *testing.T) {
	logits := mat.NewDense(3, 1, []float64{0.5, -0.2, 0.1})
	target := OneHot(3, 0)
	loss, grad := CrossEntropyWithGrad(logits, target)

	p := ColVectorSoftmax(logits)
	wantLoss := -math.Log(p.At(0, 0) + 1e-12)
	if math.Abs(loss-wantLoss) > 1e-12 {
		t.Fatalf("loss=%g, want %g", loss, wantLoss)
	}
	// grad = p - t
	for i := 0; i < 3; i++ {
		want := p.At(i, 0) - target.At(i, 0)
		if math.Abs(grad.At(i, 0)-want) > 1e-12 {
			t.Fatalf("grad[%d]=%g, want %g", i, grad.At(i, 0), want)
		}
	}
}

func TestAddBias(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	b := mat.NewDense(2, 1, []float64{10, 20})
	out := AddBias(m, b)
	if out.At(0, 2) != 13 || out.At(1, 0) != 24 {
		t.Fatalf("unexpected AddBias result: %v", mat.Formatted(out))
	}
}

func TestTanhPrimeFromOutput(t *testing.T) {
	x := 0.7
	y := math.Tanh(x)
	out := TanhPrimeFromOutput(mat.NewDense(1, 1, []float64{y}))

	eps := 1e-6
	num := (math.Tanh(x+eps) - math.Tanh(x-eps)) / (2 * eps)
	if math.Abs(out.At(0, 0)-num) > 1e-9 {
		t.Fatalf("tanh'=%g, finite diff says %g", out.At(0, 0), num)
	}
}

func TestOneHot(t *testing.T) {
	v := OneHot(4, 2)
	for i := 0; i < 4; i++ {
		want := 0.0
		if i == 2 {
			want = 1.0
		}
		if v.At(i, 0) != want {
			t.Fatalf("OneHot[%d]=%g, want %g", i, v.At(i, 0), want)
		}
	}
}
