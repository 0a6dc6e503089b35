package utils

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Matrix functions used by the encoder and scoring math.

// r = rows of matrix
// c = columns of matrix
// o = output

func Dot(m, n mat.Matrix) mat.Matrix {
	r, _ := m.Dims()
	_, c := n.Dims()
	o := mat.NewDense(r, c, nil)
	o.Product(m, n)
	return o
}

func Apply(fn func(i, j int, v float64) float64, m mat.Matrix) mat.Matrix {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.Apply(fn, m)
	return o
}

func Scale(s float64, m mat.Matrix) mat.Matrix {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.Scale(s, m)
	return o
}

func Multiply(m, n mat.Matrix) mat.Matrix {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.MulElem(m, n)
	return o
}

func Add(m, n mat.Matrix) mat.Matrix {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.Add(m, n)
	return o
}

func Subtract(m, n mat.Matrix) mat.Matrix {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.Sub(m, n)
	return o
}

// AddBias broadcasts a (r x 1) bias across every column of m.
func AddBias(m, bias *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	rb, cb := bias.Dims()
	if rb != r || cb != 1 {
		panic("AddBias: bias must be (r x 1)")
	}
	out := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			out.Set(i, j, m.At(i, j)+bias.At(i, 0))
		}
	}
	return out
}

func ToDense(m mat.Matrix) *mat.Dense {
	if d, ok := m.(*mat.Dense); ok {
		return d
	}
	return mat.DenseCopyOf(m)
}

func ZerosLike(a *mat.Dense) *mat.Dense {
	r, c := a.Dims()
	return mat.NewDense(r, c, nil)
}

// RandomArray draws size values uniformly from ±1/sqrt(fanIn).
func RandomArray(rng *rand.Rand, size int, fanIn float64) []float64 {
	min := -1.0 / math.Sqrt(fanIn+1e-12)
	max := 1.0 / math.Sqrt(fanIn+1e-12)
	out := make([]float64, size)
	for i := 0; i < size; i++ {
		out[i] = min + (max-min)*rng.Float64()
	}
	return out
}

func OneHot(n, idx int) *mat.Dense {
	v := make([]float64, n)
	if idx >= 0 && idx < n {
		v[idx] = 1.0
	}
	return mat.NewDense(n, 1, v)
}

func MatrixNorm(m *mat.Dense) float64 {
	r, c := m.Dims()
	s := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			s += v * v
		}
	}
	return math.Sqrt(s)
}

// -------- tanh activation --------
// TanhApply is shape-compatible with mat.Dense.Apply.
// The derivative is computed from the activation output: 1 - y^2.

func TanhApply(i, j int, x float64) float64 {
	return math.Tanh(x)
}

// TanhPrimeFromOutput returns the elementwise tanh derivative given the
// post-activation matrix Y.
func TanhPrimeFromOutput(y *mat.Dense) *mat.Dense {
	r, c := y.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := y.At(i, j)
			out.Set(i, j, 1.0-v*v)
		}
	}
	return out
}

// ---------- Softmax ----------

// ColVectorSoftmax applies softmax across the single column of a (r x 1)
// vector. Used for similarity logits -> candidate probabilities.
func ColVectorSoftmax(v *mat.Dense) *mat.Dense {
	r, c := v.Dims()
	if c != 1 {
		panic("ColVectorSoftmax expects a (r x 1) column vector")
	}
	out := mat.NewDense(r, 1, nil)
	// stability: subtract max
	mx := v.At(0, 0)
	for i := 1; i < r; i++ {
		if v.At(i, 0) > mx {
			mx = v.At(i, 0)
		}
	}
	sum := 0.0
	for i := 0; i < r; i++ {
		e := math.Exp(v.At(i, 0) - mx)
		out.Set(i, 0, e)
		sum += e
	}
	for i := 0; i < r; i++ {
		out.Set(i, 0, out.At(i, 0)/sum)
	}
	return out
}

// ---------- Loss ----------

// CrossEntropyWithGrad fuses softmax and categorical cross-entropy.
// The returned gradient is with respect to the logits: p - t.
func CrossEntropyWithGrad(logits, target *mat.Dense) (float64, *mat.Dense) {
	prob := ColVectorSoftmax(logits)
	loss := 0.0
	r, _ := prob.Dims()
	grad := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		p := prob.At(i, 0)
		t := target.At(i, 0)
		if t == 1.0 {
			loss -= math.Log(p + 1e-12)
		}
		grad.Set(i, 0, p-t)
	}
	return loss, grad
}
