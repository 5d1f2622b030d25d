package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Topsis/internal/problem"
)

func TestWeightsFromProblem(t *testing.T) {
	p := &problem.Problem{Criteria: []problem.Criterion{
		{Name: "price", Weight: 0.6},
		{Name: "quality", Weight: 0.4},
	}}

	ws := WeightsFromProblem(p)
	assert.Equal(t, WeightSet{{"price", 0.6}, {"quality", 0.4}}, ws)
	assert.Equal(t, []float64{0.6, 0.4}, ws.Values())
	assert.InDelta(t, 1.0, ws.Sum(), 1e-12)
}

func TestWeightSetValidate(t *testing.T) {
	t.Run("unit sum", func(t *testing.T) {
		ws := WeightSet{{"a", 0.3}, {"b", 0.1}, {"c", 0.4}, {"d", 0.2}}
		assert.NoError(t, ws.Validate())
	})

	t.Run("within tolerance", func(t *testing.T) {
		ws := WeightSet{{"a", 0.3335}, {"b", 0.3335}, {"c", 0.3335}}
		assert.NoError(t, ws.Validate())
	})

	t.Run("bad sum", func(t *testing.T) {
		ws := WeightSet{{"a", 0.5}, {"b", 0.6}}
		assert.ErrorIs(t, ws.Validate(), ErrWeightSum)
	})

	t.Run("negative", func(t *testing.T) {
		ws := WeightSet{{"a", -0.1}, {"b", 1.1}}
		err := ws.Validate()
		assert.ErrorIs(t, err, ErrNegativeWeight)
		assert.Contains(t, err.Error(), `"a"`)
	})
}

func TestWeightSetNormalized(t *testing.T) {
	ws := WeightSet{{"a", 3}, {"b", 1}}

	n, err := ws.Normalized()
	require.NoError(t, err)
	assert.Equal(t, WeightSet{{"a", 0.75}, {"b", 0.25}}, n)
	assert.NoError(t, n.Validate())
	assert.Equal(t, 3.0, ws[0].Value, "original must be unchanged")

	_, err = WeightSet{{"a", 0}, {"b", 0}}.Normalized()
	assert.ErrorIs(t, err, ErrNonPositiveWeightSum)

	_, err = WeightSet{{"a", -1}, {"b", 0.5}}.Normalized()
	assert.ErrorIs(t, err, ErrNonPositiveWeightSum)

	_, err = WeightSet{{"a", math.Inf(1)}}.Normalized()
	assert.ErrorIs(t, err, ErrNonPositiveWeightSum)
}
