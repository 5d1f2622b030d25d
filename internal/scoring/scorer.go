package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Topsis/internal/hermes"
	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
	"github.com/MikeSquared-Agency/Topsis/internal/problem"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

// RankedAlternative is one alternative's outcome within an evaluation.
type RankedAlternative struct {
	Name                    string  `json:"name"`
	Index                   int     `json:"index"`
	Rank                    int     `json:"rank"`
	Closeness               float64 `json:"closeness"`
	IdealSeparation         float64 `json:"ideal_separation"`
	NegativeIdealSeparation float64 `json:"negative_ideal_separation"`
	Pareto                  bool    `json:"pareto"`
	Degenerate              bool    `json:"degenerate,omitempty"`
}

// Evaluation captures the complete output for one decision problem.
// Alternatives are ordered by rank, best first.
type Evaluation struct {
	ID             uuid.UUID           `json:"evaluation_id"`
	Name           string              `json:"name,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	Weights        WeightSet           `json:"weights"`
	Alternatives   []RankedAlternative `json:"alternatives"`
	Ideal          []float64           `json:"ideal"`
	NegativeIdeal  []float64           `json:"negative_ideal"`
	ParetoFrontier []string            `json:"pareto_frontier"`
	Normalized     [][]float64         `json:"normalized,omitempty"`
	Weighted       [][]float64         `json:"weighted,omitempty"`
}

// Winner returns the best-ranked alternative.
func (e *Evaluation) Winner() RankedAlternative {
	return e.Alternatives[0]
}

// Options controls how the Scorer prepares weights and what it reports.
type Options struct {
	// RequireUnitWeights rejects weight sets that are negative or do not sum to 1.
	RequireUnitWeights bool
	// NormalizeWeights rescales weights to sum to 1 before computing.
	NormalizeWeights bool
	// IncludeDetail adds the normalized and weighted matrices to every evaluation.
	IncludeDetail bool
	// SubjectPrefix is the NATS subject prefix for evaluation events.
	SubjectPrefix string
}

// Scorer runs TOPSIS evaluations over decision problems.
type Scorer struct {
	opts    Options
	hermes  hermes.Client
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewScorer creates a Scorer. h and m may be nil.
func NewScorer(opts Options, h hermes.Client, m *metrics.Metrics, logger *slog.Logger) *Scorer {
	if opts.SubjectPrefix == "" {
		opts.SubjectPrefix = hermes.DefaultSubjectPrefix
	}
	return &Scorer{
		opts:    opts,
		hermes:  h,
		metrics: m,
		logger:  logger,
	}
}

// Evaluate validates p, computes its TOPSIS ranking and publishes the outcome.
// detail forces the normalized and weighted matrices into the result even when
// IncludeDetail is off.
func (s *Scorer) Evaluate(ctx context.Context, p *problem.Problem, detail bool) (*Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.New()
	start := time.Now()

	if err := p.Validate(); err != nil {
		s.reject(id, p, start, metrics.StatusInvalid, err)
		return nil, err
	}

	weights, err := s.prepareWeights(WeightsFromProblem(p))
	if err != nil {
		s.reject(id, p, start, metrics.StatusInvalid, err)
		return nil, err
	}

	matrix := p.Matrix()
	res, err := topsis.Compute(matrix, weights.Values())
	if err != nil {
		s.reject(id, p, start, metrics.StatusError, err)
		return nil, fmt.Errorf("evaluate %q: %w", p.Name, err)
	}

	eval := s.buildEvaluation(id, p, weights, matrix, res, detail || s.opts.IncludeDetail)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.ObserveEvaluation(metrics.StatusSuccess, elapsed, res.Rows(), res.Cols())
		s.metrics.AddDegenerateRows(len(res.Degenerate()))
	}

	s.logger.Debug("topsis artifacts",
		"evaluation_id", id,
		"ideal", res.Ideal(),
		"negative_ideal", res.NegativeIdeal(),
		"closeness", res.Closeness(),
	)
	if d := res.Degenerate(); d != nil {
		s.logger.Warn("degenerate alternatives scored as neutral",
			"evaluation_id", id,
			"count", len(d),
			"closeness", topsis.DegenerateCloseness,
		)
	}

	winner := eval.Winner()
	s.logger.Info("evaluation completed",
		"evaluation_id", id,
		"name", p.Name,
		"alternatives", res.Rows(),
		"criteria", res.Cols(),
		"winner", winner.Name,
		"closeness", winner.Closeness,
		"duration_ms", elapsed.Milliseconds(),
	)

	s.publish(hermes.SubjectEvaluationCompleted(s.opts.SubjectPrefix, id.String()), hermes.EvaluationCompletedEvent{
		EvaluationID: id.String(),
		Name:         p.Name,
		Winner:       winner.Name,
		Closeness:    winner.Closeness,
		Alternatives: res.Rows(),
		Criteria:     res.Cols(),
		Degenerate:   degenerateNames(eval),
		Timestamp:    eval.CreatedAt,
	})

	return eval, nil
}

// Compute runs the bare engine over an anonymous matrix. Weights are used as
// given; the weight policy applies only to named problems.
func (s *Scorer) Compute(ctx context.Context, matrix [][]float64, weights []float64) (*topsis.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := topsis.Compute(matrix, weights)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveEvaluation(metrics.StatusInvalid, time.Since(start), 0, 0)
		}
		s.logger.Warn("computation rejected", "error", err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveEvaluation(metrics.StatusSuccess, time.Since(start), res.Rows(), res.Cols())
		s.metrics.AddDegenerateRows(len(res.Degenerate()))
	}
	s.logger.Debug("computation completed",
		"alternatives", res.Rows(),
		"criteria", res.Cols(),
		"closeness", res.Closeness(),
	)
	return res, nil
}

// prepareWeights applies the configured weight policy. Normalization runs
// before validation so a normalized set always passes the unit-sum check.
func (s *Scorer) prepareWeights(ws WeightSet) (WeightSet, error) {
	if s.opts.NormalizeWeights {
		n, err := ws.Normalized()
		if err != nil {
			return nil, err
		}
		ws = n
	}
	if s.opts.RequireUnitWeights {
		if err := ws.Validate(); err != nil {
			return nil, err
		}
	}
	return ws, nil
}

func (s *Scorer) buildEvaluation(id uuid.UUID, p *problem.Problem, weights WeightSet, matrix [][]float64, res *topsis.Result, detail bool) *Evaluation {
	closeness := res.Closeness()
	sPlus := res.IdealSeparation()
	sMinus := res.NegativeIdealSeparation()

	names := p.AlternativeNames()
	onFrontier := make(map[int]bool)
	var frontier []string
	for _, idx := range ParetoFrontier(matrix) {
		onFrontier[idx] = true
		frontier = append(frontier, names[idx])
	}
	degenerate := make(map[int]bool)
	for _, idx := range res.Degenerate() {
		degenerate[idx] = true
	}

	order := res.Ranking()
	alternatives := make([]RankedAlternative, len(order))
	for rank, idx := range order {
		alternatives[rank] = RankedAlternative{
			Name:                    names[idx],
			Index:                   idx,
			Rank:                    rank + 1,
			Closeness:               closeness[idx],
			IdealSeparation:         sPlus[idx],
			NegativeIdealSeparation: sMinus[idx],
			Pareto:                  onFrontier[idx],
			Degenerate:              degenerate[idx],
		}
	}

	eval := &Evaluation{
		ID:             id,
		Name:           p.Name,
		CreatedAt:      time.Now().UTC(),
		Weights:        weights,
		Alternatives:   alternatives,
		Ideal:          res.Ideal(),
		NegativeIdeal:  res.NegativeIdeal(),
		ParetoFrontier: frontier,
	}
	if detail {
		eval.Normalized = res.Normalized()
		eval.Weighted = res.Weighted()
	}
	return eval
}

func (s *Scorer) reject(id uuid.UUID, p *problem.Problem, start time.Time, status string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveEvaluation(status, time.Since(start), 0, 0)
	}
	s.logger.Warn("evaluation rejected", "evaluation_id", id, "name", p.Name, "error", err)
	s.publish(hermes.SubjectEvaluationRejected(s.opts.SubjectPrefix, id.String()), hermes.EvaluationRejectedEvent{
		EvaluationID: id.String(),
		Name:         p.Name,
		Error:        err.Error(),
		Timestamp:    time.Now().UTC(),
	})
}

func (s *Scorer) publish(subject string, event interface{}) {
	if s.hermes == nil {
		return
	}
	if err := s.hermes.Publish(subject, event); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

func degenerateNames(e *Evaluation) []string {
	var names []string
	for _, a := range e.Alternatives {
		if a.Degenerate {
			names = append(names, a.Name)
		}
	}
	return names
}
