package topsis

import "errors"

// Every sentinel is prefixed with "topsis: ". Compute wraps them with row/column
// context via fmt.Errorf("...: %w", ErrX); match with errors.Is.
var (
	// ErrEmptyMatrix is returned when the decision matrix has no rows or no columns.
	ErrEmptyMatrix = errors.New("topsis: decision matrix is empty")

	// ErrRaggedMatrix is returned when the rows of the decision matrix differ in length.
	ErrRaggedMatrix = errors.New("topsis: decision matrix rows differ in length")

	// ErrWeightCount is returned when the weight vector length differs from the
	// number of criteria (matrix columns).
	ErrWeightCount = errors.New("topsis: weight count does not match criteria count")

	// ErrNonFinite is returned when the matrix or the weights hold NaN or ±Inf.
	ErrNonFinite = errors.New("topsis: NaN or Inf encountered")

	// ErrZeroColumn is returned when a criterion column is entirely zero, which
	// leaves vector normalization without a divisor.
	ErrZeroColumn = errors.New("topsis: criterion column has zero norm")
)
