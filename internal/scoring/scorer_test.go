package scoring

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Topsis/internal/hermes"
	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
	"github.com/MikeSquared-Agency/Topsis/internal/problem"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockHermes struct {
	mock.Mock
}

func (m *mockHermes) Publish(subject string, data interface{}) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

func (m *mockHermes) Close() {}

func supplierProblem() *problem.Problem {
	return &problem.Problem{
		Name: "suppliers",
		Criteria: []problem.Criterion{
			{Name: "price", Weight: 0.3},
			{Name: "quality", Weight: 0.1},
			{Name: "delivery", Weight: 0.4},
			{Name: "service", Weight: 0.2},
		},
		Alternatives: []problem.Alternative{
			{Name: "acme", Scores: []float64{15, 40, 25, 40}},
			{Name: "globex", Scores: []float64{20, 30, 20, 35}},
			{Name: "initech", Scores: []float64{30, 10, 30, 15}},
		},
	}
}

func TestEvaluateRanksAlternatives(t *testing.T) {
	s := NewScorer(Options{}, nil, nil, discardLogger())

	eval, err := s.Evaluate(context.Background(), supplierProblem(), false)
	require.NoError(t, err)

	require.Len(t, eval.Alternatives, 3)
	names := []string{eval.Alternatives[0].Name, eval.Alternatives[1].Name, eval.Alternatives[2].Name}
	assert.Equal(t, []string{"initech", "acme", "globex"}, names)

	winner := eval.Winner()
	assert.Equal(t, 1, winner.Rank)
	assert.Equal(t, 2, winner.Index)
	assert.InDelta(t, 0.576, winner.Closeness, 0.0005)
	assert.InDelta(t, 0.108, winner.IdealSeparation, 0.0005)
	assert.InDelta(t, 0.147, winner.NegativeIdealSeparation, 0.0005)

	for i, a := range eval.Alternatives {
		assert.Equal(t, i+1, a.Rank)
		assert.True(t, a.Pareto, "%s should be on the frontier", a.Name)
		assert.False(t, a.Degenerate)
	}

	assert.Equal(t, "suppliers", eval.Name)
	assert.NotEqual(t, uuid.Nil, eval.ID)
	assert.Len(t, eval.Ideal, 4)
	assert.Len(t, eval.NegativeIdeal, 4)
	assert.Equal(t, []string{"acme", "globex", "initech"}, eval.ParetoFrontier)
	assert.Nil(t, eval.Normalized)
	assert.Nil(t, eval.Weighted)
}

func TestEvaluateDetail(t *testing.T) {
	s := NewScorer(Options{}, nil, nil, discardLogger())
	eval, err := s.Evaluate(context.Background(), supplierProblem(), true)
	require.NoError(t, err)
	assert.Len(t, eval.Normalized, 3)
	assert.Len(t, eval.Weighted, 3)

	s = NewScorer(Options{IncludeDetail: true}, nil, nil, discardLogger())
	eval, err = s.Evaluate(context.Background(), supplierProblem(), false)
	require.NoError(t, err)
	assert.Len(t, eval.Normalized, 3)
}

func TestEvaluateWeightPolicy(t *testing.T) {
	p := supplierProblem()
	for i := range p.Criteria {
		p.Criteria[i].Weight *= 10
	}

	t.Run("weights used as given", func(t *testing.T) {
		eval, err := NewScorer(Options{}, nil, nil, discardLogger()).Evaluate(context.Background(), p, false)
		require.NoError(t, err)
		assert.InDelta(t, 10.0, eval.Weights.Sum(), 1e-9)
		// Closeness is invariant under uniform weight scaling.
		assert.Equal(t, "initech", eval.Winner().Name)
		assert.InDelta(t, 0.576, eval.Winner().Closeness, 0.0005)
	})

	t.Run("strict rejects", func(t *testing.T) {
		_, err := NewScorer(Options{RequireUnitWeights: true}, nil, nil, discardLogger()).Evaluate(context.Background(), p, false)
		assert.ErrorIs(t, err, ErrWeightSum)
	})

	t.Run("normalize then strict", func(t *testing.T) {
		opts := Options{RequireUnitWeights: true, NormalizeWeights: true}
		eval, err := NewScorer(opts, nil, nil, discardLogger()).Evaluate(context.Background(), p, false)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, eval.Weights.Sum(), 1e-9)
		assert.InDelta(t, 0.3, eval.Weights[0].Value, 1e-9)
	})
}

func TestEvaluateDegenerate(t *testing.T) {
	p := &problem.Problem{
		Criteria: []problem.Criterion{{Name: "a", Weight: 0.5}, {Name: "b", Weight: 0.5}},
		Alternatives: []problem.Alternative{
			{Name: "x", Scores: []float64{1, 1}},
			{Name: "y", Scores: []float64{1, 1}},
		},
	}
	h := &mockHermes{}
	h.On("Publish", mock.AnythingOfType("string"), mock.MatchedBy(func(e hermes.EvaluationCompletedEvent) bool {
		return len(e.Degenerate) == 2
	})).Return(nil).Once()

	m := metrics.NewMetrics()
	eval, err := NewScorer(Options{}, h, m, discardLogger()).Evaluate(context.Background(), p, false)
	require.NoError(t, err)

	for _, a := range eval.Alternatives {
		assert.True(t, a.Degenerate)
		assert.Equal(t, topsis.DegenerateCloseness, a.Closeness)
	}
	h.AssertExpectations(t)
}

func TestEvaluatePublishesCompleted(t *testing.T) {
	h := &mockHermes{}
	h.On("Publish", mock.AnythingOfType("string"), mock.AnythingOfType("hermes.EvaluationCompletedEvent")).
		Return(nil).Once()

	eval, err := NewScorer(Options{SubjectPrefix: "ranker"}, h, nil, discardLogger()).
		Evaluate(context.Background(), supplierProblem(), false)
	require.NoError(t, err)

	h.AssertExpectations(t)
	call := h.Calls[0]
	assert.Equal(t, hermes.SubjectEvaluationCompleted("ranker", eval.ID.String()), call.Arguments.String(0))
	event := call.Arguments.Get(1).(hermes.EvaluationCompletedEvent)
	assert.Equal(t, "initech", event.Winner)
	assert.Equal(t, 3, event.Alternatives)
	assert.Equal(t, 4, event.Criteria)
	assert.Empty(t, event.Degenerate)
}

func TestEvaluatePublishFailureIsNotFatal(t *testing.T) {
	h := &mockHermes{}
	h.On("Publish", mock.Anything, mock.Anything).Return(errors.New("nats down"))

	_, err := NewScorer(Options{}, h, nil, discardLogger()).Evaluate(context.Background(), supplierProblem(), false)
	assert.NoError(t, err)
	h.AssertNumberOfCalls(t, "Publish", 1)
}

func TestEvaluateRejections(t *testing.T) {
	zeroColumn := supplierProblem()
	for i := range zeroColumn.Alternatives {
		zeroColumn.Alternatives[i].Scores[1] = 0
	}
	invalid := supplierProblem()
	invalid.Alternatives[0].Scores = []float64{1}

	tests := []struct {
		name   string
		p      *problem.Problem
		want   error
		status string
	}{
		{"invalid document", invalid, problem.ErrScoreCount, metrics.StatusInvalid},
		{"zero column", zeroColumn, topsis.ErrZeroColumn, metrics.StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &mockHermes{}
			h.On("Publish", mock.AnythingOfType("string"), mock.AnythingOfType("hermes.EvaluationRejectedEvent")).
				Return(nil).Once()
			m := metrics.NewMetrics()
			reg := prometheus.NewRegistry()
			require.NoError(t, m.Register(reg))

			eval, err := NewScorer(Options{}, h, m, discardLogger()).Evaluate(context.Background(), tt.p, false)
			assert.Nil(t, eval)
			assert.ErrorIs(t, err, tt.want)
			h.AssertExpectations(t)

			families, err := reg.Gather()
			require.NoError(t, err)
			var got float64
			for _, mf := range families {
				if mf.GetName() != metrics.MetricEvaluationsTotal {
					continue
				}
				for _, metric := range mf.GetMetric() {
					for _, l := range metric.GetLabel() {
						if l.GetName() == "status" && l.GetValue() == tt.status {
							got = metric.GetCounter().GetValue()
						}
					}
				}
			}
			assert.Equal(t, 1.0, got)
		})
	}
}

func TestEvaluateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScorer(Options{}, nil, nil, discardLogger()).Evaluate(ctx, supplierProblem(), false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputeRawMatrix(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics()
	require.NoError(t, m.Register(reg))
	s := NewScorer(Options{RequireUnitWeights: true}, nil, m, discardLogger())

	// Weights are used as given even under a strict policy.
	res, err := s.Compute(context.Background(), supplierProblem().Matrix(), []float64{3, 1, 4, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, res.Ranking())

	_, err = s.Compute(context.Background(), [][]float64{{1, 0}, {2, 0}}, []float64{0.5, 0.5})
	assert.ErrorIs(t, err, topsis.ErrZeroColumn)
}
