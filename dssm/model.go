package dssm

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/KirillTim/Deep-Semantic-Similarity-Model/optimizations"
	"github.com/KirillTim/Deep-Semantic-Similarity-Model/params"
	"github.com/KirillTim/Deep-Semantic-Similarity-Model/utils"
)

// Model is the full DSSM: an independently-weighted query encoder, a single
// document encoder shared by the positive and all J negative documents, and
// a learned scalar gamma smoothing the softmax over candidates.
type Model struct {
	cfg params.TrainingConfig

	Query *Encoder
	Doc   *Encoder

	// Gamma lives in a 1x1 matrix so it runs through the same Adam update
	// as every other parameter.
	Gamma          *mat.Dense
	mGamma, vGamma *mat.Dense
	gammaT         int
}

// Prediction holds everything one forward pass produces. Candidate order is
// fixed: positive document first, then the negatives in their given order.
// The training labels rely on that convention (class 0 is the click).
type Prediction struct {
	QueryEmbedding *mat.Dense   // (L x 1)
	DocEmbeddings  []*mat.Dense // J+1 of (L x 1), positive first
	Similarities   []float64    // J+1 cosines, positive first
	Probabilities  *mat.Dense   // (J+1 x 1), softmax of gamma-scaled cosines

	queryTape *encoderTape
	docTapes  []*encoderTape
}

// New builds an untrained model from cfg. The two encoders get independent
// random parameters drawn from rng.
func New(cfg params.TrainingConfig, rng *rand.Rand) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	gamma := mat.NewDense(1, 1, []float64{1.0})
	return &Model{
		cfg:    cfg,
		Query:  NewEncoder(rng, cfg.WordDepth(), cfg.K, cfg.L),
		Doc:    NewEncoder(rng, cfg.WordDepth(), cfg.K, cfg.L),
		Gamma:  gamma,
		mGamma: utils.ZerosLike(gamma),
		vGamma: utils.ZerosLike(gamma),
	}, nil
}

// Forward scores one (query, positive, negatives) triple and returns the
// probability distribution over the J+1 candidates.
func (m *Model) Forward(query, pos *mat.Dense, negs []*mat.Dense) (*Prediction, error) {
	if len(negs) != m.cfg.J {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrNegativeCount, len(negs), m.cfg.J)
	}

	qEmb, qTape, err := m.Query.Forward(query)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	// One encoder instance, J+1 invocations: the weights are shared, the
	// activations are not.
	docs := append([]*mat.Dense{pos}, negs...)
	docEmbs := make([]*mat.Dense, len(docs))
	docTapes := make([]*encoderTape, len(docs))
	for i, d := range docs {
		emb, tape, err := m.Doc.Forward(d)
		if err != nil {
			return nil, fmt.Errorf("encoding document %d: %w", i, err)
		}
		docEmbs[i] = emb
		docTapes[i] = tape
	}

	sims := make([]float64, len(docEmbs))
	logits := mat.NewDense(len(docEmbs), 1, nil)
	gamma := m.Gamma.At(0, 0)
	for i, emb := range docEmbs {
		sims[i] = Cosine(qEmb, emb, m.cfg.CosineEps)
		logits.Set(i, 0, gamma*sims[i])
	}

	return &Prediction{
		QueryEmbedding: qEmb,
		DocEmbeddings:  docEmbs,
		Similarities:   sims,
		Probabilities:  utils.ColVectorSoftmax(logits),
		queryTape:      qTape,
		docTapes:       docTapes,
	}, nil
}

// Loss computes the cross-entropy of one example without updating anything.
func (m *Model) Loss(query, pos *mat.Dense, negs []*mat.Dense) (float64, error) {
	pred, err := m.Forward(query, pos, negs)
	if err != nil {
		return 0, err
	}
	loss, _ := m.lossAndLogitGrad(pred)
	return loss, nil
}

// lossAndLogitGrad rebuilds the logits from a prediction and returns the CE
// loss against class 0 plus dLoss/dLogits.
func (m *Model) lossAndLogitGrad(pred *Prediction) (float64, *mat.Dense) {
	n := len(pred.Similarities)
	gamma := m.Gamma.At(0, 0)
	logits := mat.NewDense(n, 1, nil)
	for i, s := range pred.Similarities {
		logits.Set(i, 0, gamma*s)
	}
	return utils.CrossEntropyWithGrad(logits, utils.OneHot(n, 0))
}

// backward computes the loss of a taped prediction and the gradients of
// every learned parameter. Document-encoder gradients are accumulated across
// the J+1 branches that share its weights. No parameters are mutated.
func (m *Model) backward(pred *Prediction) (loss float64, qGrads, docGrads *encoderGrads, gGamma *mat.Dense) {
	loss, dLogits := m.lossAndLogitGrad(pred)

	gamma := m.Gamma.At(0, 0)
	dGamma := 0.0
	dQEmb := mat.NewDense(m.cfg.L, 1, nil)
	docGrads = m.Doc.zeroGrads()

	for i := range pred.Similarities {
		dz := dLogits.At(i, 0)
		dGamma += dz * pred.Similarities[i]
		dSim := dz * gamma

		da, db := cosineGrads(pred.QueryEmbedding, pred.DocEmbeddings[i], m.cfg.CosineEps)
		// query embedding gradient accumulates over every candidate
		dQEmb.Add(dQEmb, utils.ToDense(utils.Scale(dSim, da)))
		docGrads.accumulate(m.Doc.BackwardGradsOnly(pred.docTapes[i], utils.ToDense(utils.Scale(dSim, db))))
	}
	qGrads = m.Query.BackwardGradsOnly(pred.queryTape, dQEmb)
	gGamma = mat.NewDense(1, 1, []float64{dGamma})
	return loss, qGrads, docGrads, gGamma
}

// TrainStep runs one example through the model, backpropagates the
// cross-entropy against the positive-first one-hot label and applies one
// Adam update to both encoders and gamma. Returns the pre-update loss.
func (m *Model) TrainStep(query, pos *mat.Dense, negs []*mat.Dense) (float64, error) {
	pred, err := m.Forward(query, pos, negs)
	if err != nil {
		return 0, err
	}
	loss, qGrads, docGrads, gGamma := m.backward(pred)

	if m.cfg.GradClip > 0 {
		all := append(qGrads.all(), docGrads.all()...)
		optimizations.ClipGrads(m.cfg.GradClip, append(all, gGamma)...)
	}

	m.Query.adamStep(qGrads, m.cfg)
	m.Doc.adamStep(docGrads, m.cfg)
	m.gammaT++
	optimizations.AdamUpdateInPlace(m.Gamma, gGamma, m.mGamma, m.vGamma,
		m.gammaT, m.cfg.LearningRate, m.cfg.AdamBeta1, m.cfg.AdamBeta2,
		m.cfg.AdamEps, 0.0)

	return loss, nil
}
