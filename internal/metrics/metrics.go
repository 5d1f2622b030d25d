// Package metrics provides Prometheus collectors for evaluations and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricEvaluationsTotal       = "topsis_evaluations_total"
	MetricEvaluationDuration     = "topsis_evaluation_duration_seconds"
	MetricEvaluationAlternatives = "topsis_evaluation_alternatives"
	MetricEvaluationCriteria     = "topsis_evaluation_criteria"
	MetricDegenerateRowsTotal    = "topsis_degenerate_rows_total"
	MetricHTTPRequestsTotal      = "http_requests_total"
	MetricHTTPRequestDuration    = "http_request_duration_seconds"
)

// Evaluation status labels.
const (
	StatusSuccess = "success"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

// Metrics contains Prometheus collectors for the service.
// All operations are thread-safe.
type Metrics struct {
	evaluationsTotal       *prometheus.CounterVec
	evaluationDuration     prometheus.Histogram
	evaluationAlternatives prometheus.Histogram
	evaluationCriteria     prometheus.Histogram
	degenerateRows         prometheus.Counter
	httpRequestsTotal      *prometheus.CounterVec
	httpRequestDuration    *prometheus.HistogramVec
}

// NewMetrics creates a Metrics instance with all collectors initialized.
// The collectors are not registered; call Register to register them.
func NewMetrics() *Metrics {
	return &Metrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricEvaluationsTotal,
				Help: "Total number of TOPSIS evaluations by outcome",
			},
			[]string{"status"},
		),
		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricEvaluationDuration,
				Help:    "Time spent computing a TOPSIS evaluation in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
			},
		),
		evaluationAlternatives: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricEvaluationAlternatives,
				Help:    "Number of alternatives per evaluation",
				Buckets: prometheus.ExponentialBuckets(2, 2, 10),
			},
		),
		evaluationCriteria: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricEvaluationCriteria,
				Help:    "Number of criteria per evaluation",
				Buckets: prometheus.LinearBuckets(1, 2, 10),
			},
		),
		degenerateRows: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricDegenerateRowsTotal,
				Help: "Total number of alternatives with zero total separation",
			},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.0},
			},
			[]string{"method", "route", "status"},
		),
	}
}

// Register registers all collectors with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.evaluationsTotal,
		m.evaluationDuration,
		m.evaluationAlternatives,
		m.evaluationCriteria,
		m.degenerateRows,
		m.httpRequestsTotal,
		m.httpRequestDuration,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveEvaluation records one evaluation attempt. Shape histograms are only
// observed for successful evaluations.
func (m *Metrics) ObserveEvaluation(status string, d time.Duration, alternatives, criteria int) {
	m.evaluationsTotal.WithLabelValues(status).Inc()
	if status != StatusSuccess {
		return
	}
	m.evaluationDuration.Observe(d.Seconds())
	m.evaluationAlternatives.Observe(float64(alternatives))
	m.evaluationCriteria.Observe(float64(criteria))
}

// AddDegenerateRows increments the degenerate row counter by n.
func (m *Metrics) AddDegenerateRows(n int) {
	if n > 0 {
		m.degenerateRows.Add(float64(n))
	}
}

// ObserveHTTPRequest records a served HTTP request.
// route should be the matched route pattern, not the raw path.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	m.httpRequestsTotal.WithLabelValues(method, route, code).Inc()
	m.httpRequestDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
}
