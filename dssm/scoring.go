package dssm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Cosine returns cos(a, b) for two column vectors of equal length. The
// denominator is clamped to eps so zero-norm embeddings yield a finite score
// instead of NaN.
func Cosine(a, b *mat.Dense, eps float64) float64 {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != 1 || bc != 1 || ar != br {
		panic("Cosine expects two equal-length column vectors")
	}
	dot, na2, nb2 := 0.0, 0.0, 0.0
	for i := 0; i < ar; i++ {
		av, bv := a.At(i, 0), b.At(i, 0)
		dot += av * bv
		na2 += av * av
		nb2 += bv * bv
	}
	den := math.Sqrt(na2) * math.Sqrt(nb2)
	if den < eps {
		den = eps
	}
	return dot / den
}

// cosineGrads returns d cos(a,b)/da and d cos(a,b)/db. When the denominator
// clamp is active it is treated as a constant, so the norm terms of the
// gradient vanish and training cannot blow up on degenerate embeddings.
func cosineGrads(a, b *mat.Dense, eps float64) (da, db *mat.Dense) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != 1 || bc != 1 || ar != br {
		panic("cosineGrads expects two equal-length column vectors")
	}
	dot, na2, nb2 := 0.0, 0.0, 0.0
	for i := 0; i < ar; i++ {
		av, bv := a.At(i, 0), b.At(i, 0)
		dot += av * bv
		na2 += av * av
		nb2 += bv * bv
	}
	den := math.Sqrt(na2) * math.Sqrt(nb2)
	clamped := den < eps
	if clamped {
		den = eps
	}

	da = mat.NewDense(ar, 1, nil)
	db = mat.NewDense(ar, 1, nil)
	for i := 0; i < ar; i++ {
		av, bv := a.At(i, 0), b.At(i, 0)
		gda := bv / den
		gdb := av / den
		if !clamped {
			gda -= dot * av / (na2 * den)
			gdb -= dot * bv / (nb2 * den)
		}
		da.Set(i, 0, gda)
		db.Set(i, 0, gdb)
	}
	return da, db
}
