package IO

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/KirillTim/Deep-Semantic-Similarity-Model/params"
)

// Example is one training triple: a query, the clicked document and J
// unclicked ones. The positive always sits in slot 0 downstream.
type Example struct {
	Query     *mat.Dense
	Positive  *mat.Dense
	Negatives []*mat.Dense
}

// SyntheticDataset generates n random examples with per-sequence random
// lengths, standing in for a real click log.
func SyntheticDataset(rng *rand.Rand, n int, cfg params.TrainingConfig) []Example {
	out := make([]Example, n)
	for i := range out {
		negs := make([]*mat.Dense, cfg.J)
		for j := range negs {
			negs[j] = randomSequence(rng, cfg)
		}
		out[i] = Example{
			Query:     randomSequence(rng, cfg),
			Positive:  randomSequence(rng, cfg),
			Negatives: negs,
		}
	}
	return out
}

func randomSequence(rng *rand.Rand, cfg params.TrainingConfig) *mat.Dense {
	T := cfg.MinSeqLen + rng.Intn(cfg.MaxSeqLen-cfg.MinSeqLen+1)
	d := cfg.WordDepth()
	data := make([]float64, d*T)
	for i := range data {
		data[i] = rng.Float64()
	}
	return mat.NewDense(d, T, data)
}
