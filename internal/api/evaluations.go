package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/MikeSquared-Agency/Topsis/internal/problem"
	"github.com/MikeSquared-Agency/Topsis/internal/scoring"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

type EvaluationsHandler struct {
	scorer       *scoring.Scorer
	maxBodyBytes int64
}

func NewEvaluationsHandler(s *scoring.Scorer, maxBodyBytes int64) *EvaluationsHandler {
	return &EvaluationsHandler{scorer: s, maxBodyBytes: maxBodyBytes}
}

type computeRequest struct {
	Matrix  [][]float64 `json:"matrix"`
	Weights []float64   `json:"weights"`
}

type computeResponse struct {
	Normalized              [][]float64 `json:"normalized"`
	Weighted                [][]float64 `json:"weighted"`
	Ideal                   []float64   `json:"ideal"`
	NegativeIdeal           []float64   `json:"negative_ideal"`
	IdealSeparation         []float64   `json:"ideal_separation"`
	NegativeIdealSeparation []float64   `json:"negative_ideal_separation"`
	Closeness               []float64   `json:"closeness"`
	Ranking                 []int       `json:"ranking"`
	Positions               []int       `json:"positions"`
	Degenerate              []int       `json:"degenerate,omitempty"`
}

// Create evaluates a named decision problem.
func (h *EvaluationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p problem.Problem
	if !h.decode(w, r, &p) {
		return
	}

	detail := false
	if v := r.URL.Query().Get("detail"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "detail must be a boolean"})
			return
		}
		detail = b
	}

	eval, err := h.scorer.Evaluate(r.Context(), &p, detail)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, eval)
}

// Compute runs the engine over a raw matrix and returns every artifact.
func (h *EvaluationsHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.scorer.Compute(r.Context(), req.Matrix, req.Weights)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, computeResponse{
		Normalized:              res.Normalized(),
		Weighted:                res.Weighted(),
		Ideal:                   res.Ideal(),
		NegativeIdeal:           res.NegativeIdeal(),
		IdealSeparation:         res.IdealSeparation(),
		NegativeIdealSeparation: res.NegativeIdealSeparation(),
		Closeness:               res.Closeness(),
		Ranking:                 res.Ranking(),
		Positions:               topsis.Positions(res.Ranking()),
		Degenerate:              res.Degenerate(),
	})
}

func (h *EvaluationsHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// statusFor maps structural input errors to 400, numeric or weight policy
// errors to 422 and an abandoned request context to 503 or 504.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, problem.ErrNoCriteria),
		errors.Is(err, problem.ErrNoAlternatives),
		errors.Is(err, problem.ErrUnnamed),
		errors.Is(err, problem.ErrDuplicateName),
		errors.Is(err, problem.ErrScoreCount),
		errors.Is(err, topsis.ErrEmptyMatrix),
		errors.Is(err, topsis.ErrRaggedMatrix),
		errors.Is(err, topsis.ErrWeightCount):
		return http.StatusBadRequest
	case errors.Is(err, topsis.ErrZeroColumn),
		errors.Is(err, topsis.ErrNonFinite),
		errors.Is(err, scoring.ErrWeightSum),
		errors.Is(err, scoring.ErrNegativeWeight),
		errors.Is(err, scoring.ErrNonPositiveWeightSum):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON marshals v before writing; an unencodable value yields a 500.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode response", "status", status, "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}
