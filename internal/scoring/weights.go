package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/MikeSquared-Agency/Topsis/internal/problem"
)

// WeightTolerance is the allowed distance of a weight sum from 1.0.
const WeightTolerance = 0.001

var (
	ErrWeightSum            = errors.New("scoring: weights must sum to 1.0")
	ErrNegativeWeight       = errors.New("scoring: negative weight")
	ErrNonPositiveWeightSum = errors.New("scoring: weights cannot be normalized")
)

// Weight is the relative importance of one criterion.
type Weight struct {
	Criterion string  `json:"criterion"`
	Value     float64 `json:"value"`
}

// WeightSet holds one weight per criterion, in column order.
type WeightSet []Weight

// WeightsFromProblem collects the criterion weights of p.
func WeightsFromProblem(p *problem.Problem) WeightSet {
	names, values := p.CriterionNames(), p.Weights()
	ws := make(WeightSet, len(names))
	for i := range names {
		ws[i] = Weight{Criterion: names[i], Value: values[i]}
	}
	return ws
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	var sum float64
	for _, v := range w {
		sum += v.Value
	}
	return sum
}

// Values returns the bare weight vector.
func (w WeightSet) Values() []float64 {
	out := make([]float64, len(w))
	for i, v := range w {
		out[i] = v.Value
	}
	return out
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w WeightSet) Validate() error {
	for _, v := range w {
		if v.Value < 0 {
			return fmt.Errorf("%q is %f: %w", v.Criterion, v.Value, ErrNegativeWeight)
		}
	}
	if math.Abs(w.Sum()-1.0) > WeightTolerance {
		return fmt.Errorf("weights sum to %.4f: %w", w.Sum(), ErrWeightSum)
	}
	return nil
}

// Normalized returns a copy rescaled so the weights sum to 1.0.
func (w WeightSet) Normalized() (WeightSet, error) {
	sum := w.Sum()
	if !(sum > 0) || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("weights sum to %.4f: %w", sum, ErrNonPositiveWeightSum)
	}
	out := make(WeightSet, len(w))
	for i, v := range w {
		out[i] = Weight{Criterion: v.Criterion, Value: v.Value / sum}
	}
	return out, nil
}
