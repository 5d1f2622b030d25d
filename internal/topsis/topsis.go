// Package topsis implements the classic TOPSIS ranking method (Technique for
// Order of Preference by Similarity to Ideal Solution).
//
// Compute takes a decision matrix (alternatives × criteria) and one weight per
// criterion and derives, in order:
//
//  1. the vector-normalized matrix (each column divided by its Euclidean norm),
//  2. the weighted matrix (each column scaled by its weight),
//  3. the ideal and negative-ideal vectors (column-wise max and min),
//  4. each alternative's Euclidean separation from both vectors,
//  5. the relative closeness S⁻ / (S⁺ + S⁻).
//
// Every criterion is treated as benefit-type: higher values are better. Weights
// are used as given; they are neither validated nor rescaled here.
package topsis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DegenerateCloseness is the closeness assigned to an alternative whose total
// separation S⁺ + S⁻ is zero. That happens only when the alternative sits on
// both the ideal and the negative-ideal vector, i.e. when no criterion
// discriminates between alternatives.
const DegenerateCloseness = 0.5

// Result holds every artifact of one TOPSIS computation. It is immutable:
// accessors return copies.
type Result struct {
	rows, cols int

	normalized *mat.Dense
	weighted   *mat.Dense

	ideal         []float64
	negativeIdeal []float64

	idealSeparation         []float64
	negativeIdealSeparation []float64

	closeness  []float64
	ranking    []int
	degenerate []int
}

// Compute runs the full TOPSIS pipeline over matrix (R rows of C values) and
// weights (length C). Inputs are not modified. Any invalid input aborts the
// whole computation and no partial result is returned.
func Compute(matrix [][]float64, weights []float64) (*Result, error) {
	rows, cols, err := checkShape(matrix, weights)
	if err != nil {
		return nil, err
	}

	data := make([]float64, 0, rows*cols)
	for _, row := range matrix {
		data = append(data, row...)
	}

	return compute(mat.NewDense(rows, cols, data), weights)
}

// FromDense is Compute for callers that already hold a gonum matrix.
func FromDense(m mat.Matrix, weights []float64) (*Result, error) {
	if m == nil {
		return nil, ErrEmptyMatrix
	}
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return nil, ErrEmptyMatrix
	}
	if len(weights) != cols {
		return nil, fmt.Errorf("%d weights for %d criteria: %w", len(weights), cols, ErrWeightCount)
	}

	return compute(mat.DenseCopyOf(m), weights)
}

func checkShape(matrix [][]float64, weights []float64) (rows, cols int, err error) {
	rows = len(matrix)
	if rows == 0 || len(matrix[0]) == 0 {
		return 0, 0, ErrEmptyMatrix
	}
	cols = len(matrix[0])
	for i, row := range matrix {
		if len(row) != cols {
			return 0, 0, fmt.Errorf("row %d has %d values, want %d: %w", i, len(row), cols, ErrRaggedMatrix)
		}
	}
	if len(weights) != cols {
		return 0, 0, fmt.Errorf("%d weights for %d criteria: %w", len(weights), cols, ErrWeightCount)
	}

	return rows, cols, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// compute owns d; the caller must not retain it.
func compute(d *mat.Dense, weights []float64) (*Result, error) {
	rows, cols := d.Dims()

	for i := 0; i < rows; i++ {
		for j, v := range d.RawRowView(i) {
			if !isFinite(v) {
				return nil, fmt.Errorf("matrix[%d][%d]: %w", i, j, ErrNonFinite)
			}
		}
	}
	for j, w := range weights {
		if !isFinite(w) {
			return nil, fmt.Errorf("weight[%d]: %w", j, ErrNonFinite)
		}
	}

	res := &Result{rows: rows, cols: cols}

	// Stage 1: vector normalization per column.
	res.normalized = mat.NewDense(rows, cols, nil)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, d)
		norm := floats.Norm(col, 2)
		if norm == 0 {
			return nil, fmt.Errorf("column %d: %w", j, ErrZeroColumn)
		}
		for i := range col {
			col[i] /= norm
		}
		res.normalized.SetCol(j, col)
	}

	// Stage 2: weighting.
	res.weighted = mat.NewDense(rows, cols, nil)
	res.weighted.Apply(func(_, j int, v float64) float64 {
		return v * weights[j]
	}, res.normalized)

	// Stage 3: ideal and negative-ideal vectors.
	res.ideal = make([]float64, cols)
	res.negativeIdeal = make([]float64, cols)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, res.weighted)
		res.ideal[j] = floats.Max(col)
		res.negativeIdeal[j] = floats.Min(col)
	}

	// Stage 4: separations. Distances are taken on the weighted matrix divided
	// by the largest weight magnitude so huge finite weights cannot overflow;
	// closeness is invariant under that scaling.
	scale := floats.Norm(weights, math.Inf(1))
	if scale == 0 {
		scale = 1
	}
	idealScaled := make([]float64, cols)
	negativeScaled := make([]float64, cols)
	for j := 0; j < cols; j++ {
		idealScaled[j] = res.ideal[j] / scale
		negativeScaled[j] = res.negativeIdeal[j] / scale
	}

	res.idealSeparation = make([]float64, rows)
	res.negativeIdealSeparation = make([]float64, rows)
	res.closeness = make([]float64, rows)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j, v := range res.weighted.RawRowView(i) {
			row[j] = v / scale
		}
		sPlus := floats.Distance(row, idealScaled, 2)
		sMinus := floats.Distance(row, negativeScaled, 2)

		res.idealSeparation[i] = sPlus * scale
		res.negativeIdealSeparation[i] = sMinus * scale
		if !isFinite(res.idealSeparation[i]) || !isFinite(res.negativeIdealSeparation[i]) {
			return nil, fmt.Errorf("separation of row %d overflows: %w", i, ErrNonFinite)
		}

		// Stage 5: relative closeness.
		total := sPlus + sMinus
		if total == 0 {
			res.closeness[i] = DegenerateCloseness
			res.degenerate = append(res.degenerate, i)
			continue
		}
		res.closeness[i] = sMinus / total
	}

	res.ranking = Rank(res.closeness)

	return res, nil
}

// Rows returns the number of alternatives.
func (r *Result) Rows() int { return r.rows }

// Cols returns the number of criteria.
func (r *Result) Cols() int { return r.cols }

// Normalized returns the vector-normalized matrix, one slice per alternative.
func (r *Result) Normalized() [][]float64 { return denseRows(r.normalized) }

// Weighted returns the normalized matrix scaled column-wise by the weights.
func (r *Result) Weighted() [][]float64 { return denseRows(r.weighted) }

// Ideal returns the per-criterion maximum of the weighted matrix.
func (r *Result) Ideal() []float64 { return clone(r.ideal) }

// NegativeIdeal returns the per-criterion minimum of the weighted matrix.
func (r *Result) NegativeIdeal() []float64 { return clone(r.negativeIdeal) }

// IdealSeparation returns each alternative's distance to the ideal vector.
func (r *Result) IdealSeparation() []float64 { return clone(r.idealSeparation) }

// NegativeIdealSeparation returns each alternative's distance to the
// negative-ideal vector.
func (r *Result) NegativeIdealSeparation() []float64 {
	return clone(r.negativeIdealSeparation)
}

// Closeness returns each alternative's relative closeness, in [0, 1].
func (r *Result) Closeness() []float64 { return clone(r.closeness) }

// Ranking returns alternative indices ordered best first.
func (r *Result) Ranking() []int {
	out := make([]int, len(r.ranking))
	copy(out, r.ranking)
	return out
}

// Degenerate returns the indices of alternatives whose closeness was set to
// DegenerateCloseness. It is nil when there are none.
func (r *Result) Degenerate() []int {
	if len(r.degenerate) == 0 {
		return nil
	}
	out := make([]int, len(r.degenerate))
	copy(out, r.degenerate)
	return out
}

func denseRows(d *mat.Dense) [][]float64 {
	rows, _ := d.Dims()
	out := make([][]float64, rows)
	for i := range out {
		out[i] = mat.Row(nil, i, d)
	}
	return out
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
