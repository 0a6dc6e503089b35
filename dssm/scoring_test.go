package dssm

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const cosEps = 1e-8

func col(vals ...float64) *mat.Dense {
	return mat.NewDense(len(vals), 1, vals)
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b *mat.Dense
		want float64
	}{
		{"identical", col(1, 0, 0), col(1, 0, 0), 1.0},
		{"orthogonal", col(1, 0), col(0, 1), 0.0},
		{"opposite", col(1, 0), col(-1, 0), -1.0},
		{"45 degrees", col(1, 1), col(1, 0), math.Sqrt2 / 2},
		{"zero vector", col(0, 0, 0), col(1, 0, 0), 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b, cosEps)
			if math.IsNaN(got) {
				t.Fatal("cosine is NaN")
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("got %g, want %g", got, tt.want)
			}
		})
	}
}

func TestCosineScaleInvariance(t *testing.T) {
	a := col(0.3, -0.7, 0.2)
	b := col(-0.1, 0.5, 0.9)
	base := Cosine(a, b, cosEps)
	for _, s := range []float64{0.25, 2.5, 1000} {
		scaled := mat.NewDense(3, 1, nil)
		scaled.Scale(s, b)
		if got := Cosine(a, scaled, cosEps); math.Abs(got-base) > 1e-12 {
			t.Fatalf("scaling by %g changed cosine: %g vs %g", s, got, base)
		}
	}
}

func TestCosineGradsFiniteDiff(t *testing.T) {
	a := col(0.3, -0.7, 0.2)
	b := col(-0.1, 0.5, 0.9)
	da, db := cosineGrads(a, b, cosEps)

	eps := 1e-6
	for i := 0; i < 3; i++ {
		v := a.At(i, 0)
		a.Set(i, 0, v+eps)
		up := Cosine(a, b, cosEps)
		a.Set(i, 0, v-eps)
		down := Cosine(a, b, cosEps)
		a.Set(i, 0, v)
		num := (up - down) / (2 * eps)
		if math.Abs(num-da.At(i, 0)) > 1e-6 {
			t.Fatalf("da[%d]: num=%g ana=%g", i, num, da.At(i, 0))
		}

		v = b.At(i, 0)
		b.Set(i, 0, v+eps)
		up = Cosine(a, b, cosEps)
		b.Set(i, 0, v-eps)
		down = Cosine(a, b, cosEps)
		b.Set(i, 0, v)
		num = (up - down) / (2 * eps)
		if math.Abs(num-db.At(i, 0)) > 1e-6 {
			t.Fatalf("db[%d]: num=%g ana=%g", i, num, db.At(i, 0))
		}
	}
}

func TestCosineGradsZeroNorm(t *testing.T) {
	a := col(0, 0)
	b := col(1, 2)
	da, db := cosineGrads(a, b, cosEps)
	for i := 0; i < 2; i++ {
		if math.IsNaN(da.At(i, 0)) || math.IsInf(da.At(i, 0), 0) {
			t.Fatalf("da[%d] not finite: %g", i, da.At(i, 0))
		}
		if math.IsNaN(db.At(i, 0)) || math.IsInf(db.At(i, 0), 0) {
			t.Fatalf("db[%d] not finite: %g", i, db.At(i, 0))
		}
	}
}
