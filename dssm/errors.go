package dssm

import "errors"

// Precondition failures surfaced at the model boundary. Shape violations in
// the low-level matrix kernels panic instead, matching the rest of the
// numeric code.
var (
	// ErrEmptySequence is returned when a query or document carries zero
	// positions. Max-over-time pooling is undefined on an empty sequence.
	ErrEmptySequence = errors.New("dssm: sequence must contain at least one position")

	// ErrDimensionMismatch is returned when an input's feature width does
	// not match the configured word depth.
	ErrDimensionMismatch = errors.New("dssm: input width does not match word depth")

	// ErrNegativeCount is returned when the number of negative documents
	// differs from the configured J.
	ErrNegativeCount = errors.New("dssm: wrong number of negative documents")
)
