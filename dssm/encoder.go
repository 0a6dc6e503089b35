package dssm

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/KirillTim/Deep-Semantic-Similarity-Model/optimizations"
	"github.com/KirillTim/Deep-Semantic-Similarity-Model/params"
	"github.com/KirillTim/Deep-Semantic-Similarity-Model/utils"
)

// Encoder maps a variable-length sequence of trigram vectors to a single
// L-dimensional semantic embedding: a width-1 "convolution" (per-position
// dense transform) with tanh, max pooling over time, then a dense projection
// with tanh. Positions are columns, so input is (WordDepth x T).
//
// One Encoder instance holds one parameter set. The document side of the
// model reuses a single instance for the positive and every negative
// document, which is what makes the weights shared.
type Encoder struct {
	wordDepth, k, l int

	ConvW *mat.Dense // (K x WordDepth)
	ConvB *mat.Dense // (K x 1)
	SemW  *mat.Dense // (L x K)
	SemB  *mat.Dense // (L x 1)

	// Adam state
	t              int
	mConvW, vConvW *mat.Dense
	mConvB, vConvB *mat.Dense
	mSemW, vSemW   *mat.Dense
	mSemB, vSemB   *mat.Dense
}

// encoderTape records one forward pass so gradients can be computed later.
// The document encoder runs several times per example before any backward
// pass, so activations live on the tape rather than on the Encoder itself.
type encoderTape struct {
	input   *mat.Dense // (WordDepth x T)
	hidden  *mat.Dense // (K x T), post-tanh
	poolIdx []int      // winning column per feature row, len K
	pooled  *mat.Dense // (K x 1)
	output  *mat.Dense // (L x 1), post-tanh
}

// encoderGrads accumulates parameter gradients across forward passes that
// share one Encoder.
type encoderGrads struct {
	convW, convB, semW, semB *mat.Dense
}

func NewEncoder(rng *rand.Rand, wordDepth, k, l int) *Encoder {
	e := &Encoder{
		wordDepth: wordDepth,
		k:         k,
		l:         l,
		ConvW:     mat.NewDense(k, wordDepth, utils.RandomArray(rng, k*wordDepth, float64(wordDepth))),
		ConvB:     mat.NewDense(k, 1, nil),
		SemW:      mat.NewDense(l, k, utils.RandomArray(rng, l*k, float64(k))),
		SemB:      mat.NewDense(l, 1, nil),
	}
	e.mConvW, e.vConvW = utils.ZerosLike(e.ConvW), utils.ZerosLike(e.ConvW)
	e.mConvB, e.vConvB = utils.ZerosLike(e.ConvB), utils.ZerosLike(e.ConvB)
	e.mSemW, e.vSemW = utils.ZerosLike(e.SemW), utils.ZerosLike(e.SemW)
	e.mSemB, e.vSemB = utils.ZerosLike(e.SemB), utils.ZerosLike(e.SemB)
	return e
}

// OutputSize returns L, the width of the semantic embedding.
func (e *Encoder) OutputSize() int { return e.l }

// Forward encodes x (WordDepth x T) into an (L x 1) embedding and returns
// the tape needed for a later backward pass.
func (e *Encoder) Forward(x *mat.Dense) (*mat.Dense, *encoderTape, error) {
	d, T := x.Dims()
	if T < 1 {
		return nil, nil, fmt.Errorf("%w: got %d positions", ErrEmptySequence, T)
	}
	if d != e.wordDepth {
		return nil, nil, fmt.Errorf("%w: got %d rows, want %d", ErrDimensionMismatch, d, e.wordDepth)
	}

	// Width-1 convolution: a dense transform applied to every position.
	hLin := utils.AddBias(utils.ToDense(utils.Dot(e.ConvW, x)), e.ConvB) // (K x T)
	hidden := utils.Apply(utils.TanhApply, hLin).(*mat.Dense)

	// Max over time: one winner per feature row, any T >= 1.
	pooled := mat.NewDense(e.k, 1, nil)
	poolIdx := make([]int, e.k)
	for i := 0; i < e.k; i++ {
		best := hidden.At(i, 0)
		bestT := 0
		for t := 1; t < T; t++ {
			if v := hidden.At(i, t); v > best {
				best = v
				bestT = t
			}
		}
		pooled.Set(i, 0, best)
		poolIdx[i] = bestT
	}

	semLin := utils.AddBias(utils.ToDense(utils.Dot(e.SemW, pooled)), e.SemB) // (L x 1)
	out := utils.Apply(utils.TanhApply, semLin).(*mat.Dense)

	tape := &encoderTape{
		input:   x,
		hidden:  hidden,
		poolIdx: poolIdx,
		pooled:  pooled,
		output:  out,
	}
	return out, tape, nil
}

// BackwardGradsOnly computes parameter gradients for one taped forward pass
// given dY = dLoss/dEmbedding (L x 1). It never mutates parameters.
func (e *Encoder) BackwardGradsOnly(tape *encoderTape, dY *mat.Dense) *encoderGrads {
	if r, c := dY.Dims(); r != e.l || c != 1 {
		panic(fmt.Sprintf("BackwardGradsOnly: dY is (%d x %d), want (%d x 1)", r, c, e.l))
	}

	// Through the output tanh: y = tanh(SemW*pooled + SemB)
	dSemLin := utils.Multiply(dY, utils.TanhPrimeFromOutput(tape.output)).(*mat.Dense) // (L x 1)
	dSemW := utils.ToDense(utils.Dot(dSemLin, tape.pooled.T()))                        // (L x K)
	dSemB := mat.DenseCopyOf(dSemLin)                                                  // (L x 1)
	dPooled := utils.ToDense(utils.Dot(e.SemW.T(), dSemLin))                           // (K x 1)

	// Through max pooling: gradient flows only to the winning position.
	_, T := tape.hidden.Dims()
	dHidden := mat.NewDense(e.k, T, nil)
	for i := 0; i < e.k; i++ {
		dHidden.Set(i, tape.poolIdx[i], dPooled.At(i, 0))
	}

	// Through the conv tanh: hidden = tanh(ConvW*x + ConvB)
	dConvLin := utils.Multiply(dHidden, utils.TanhPrimeFromOutput(tape.hidden)).(*mat.Dense) // (K x T)
	dConvW := utils.ToDense(utils.Dot(dConvLin, tape.input.T()))                             // (K x WordDepth)

	// Bias gradient sums over time.
	dConvB := mat.NewDense(e.k, 1, nil)
	for i := 0; i < e.k; i++ {
		s := 0.0
		for t := 0; t < T; t++ {
			s += dConvLin.At(i, t)
		}
		dConvB.Set(i, 0, s)
	}

	return &encoderGrads{convW: dConvW, convB: dConvB, semW: dSemW, semB: dSemB}
}

func (e *Encoder) zeroGrads() *encoderGrads {
	return &encoderGrads{
		convW: utils.ZerosLike(e.ConvW),
		convB: utils.ZerosLike(e.ConvB),
		semW:  utils.ZerosLike(e.SemW),
		semB:  utils.ZerosLike(e.SemB),
	}
}

func (g *encoderGrads) accumulate(o *encoderGrads) {
	g.convW.Add(g.convW, o.convW)
	g.convB.Add(g.convB, o.convB)
	g.semW.Add(g.semW, o.semW)
	g.semB.Add(g.semB, o.semB)
}

func (g *encoderGrads) all() []*mat.Dense {
	return []*mat.Dense{g.convW, g.convB, g.semW, g.semB}
}

// adamStep applies one AdamW update to every encoder parameter.
// Weight decay touches weights only, never biases.
func (e *Encoder) adamStep(g *encoderGrads, cfg params.TrainingConfig) {
	e.t++
	optimizations.AdamUpdateInPlace(e.ConvW, g.convW, e.mConvW, e.vConvW,
		e.t, cfg.LearningRate, cfg.AdamBeta1, cfg.AdamBeta2, cfg.AdamEps,
		cfg.WeightDecay)
	optimizations.AdamUpdateInPlace(e.ConvB, g.convB, e.mConvB, e.vConvB,
		e.t, cfg.LearningRate, cfg.AdamBeta1, cfg.AdamBeta2, cfg.AdamEps, 0.0)
	optimizations.AdamUpdateInPlace(e.SemW, g.semW, e.mSemW, e.vSemW,
		e.t, cfg.LearningRate, cfg.AdamBeta1, cfg.AdamBeta2, cfg.AdamEps,
		cfg.WeightDecay)
	optimizations.AdamUpdateInPlace(e.SemB, g.semB, e.mSemB, e.vSemB,
		e.t, cfg.LearningRate, cfg.AdamBeta1, cfg.AdamBeta2, cfg.AdamEps, 0.0)
}
