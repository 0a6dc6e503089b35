package dssm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// The two extracted scorers evaluate only the subgraph they need. They read
// the same parameter instances the training loop updates, so scores always
// reflect the current weights.

// ScorePositive returns the query / positive-document cosine similarity
// without touching any negative document.
func (m *Model) ScorePositive(query, pos *mat.Dense) (float64, error) {
	qEmb, _, err := m.Query.Forward(query)
	if err != nil {
		return 0, fmt.Errorf("encoding query: %w", err)
	}
	dEmb, _, err := m.Doc.Forward(pos)
	if err != nil {
		return 0, fmt.Errorf("encoding document: %w", err)
	}
	return Cosine(qEmb, dEmb, m.cfg.CosineEps), nil
}

// ScoreNegatives returns the query / negative-document cosine similarities,
// in the order the documents are given, without requiring a positive
// document.
func (m *Model) ScoreNegatives(query *mat.Dense, negs []*mat.Dense) ([]float64, error) {
	qEmb, _, err := m.Query.Forward(query)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}
	sims := make([]float64, len(negs))
	for i, d := range negs {
		dEmb, _, err := m.Doc.Forward(d)
		if err != nil {
			return nil, fmt.Errorf("encoding document %d: %w", i, err)
		}
		sims[i] = Cosine(qEmb, dEmb, m.cfg.CosineEps)
	}
	return sims, nil
}
