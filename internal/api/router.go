package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
	"github.com/MikeSquared-Agency/Topsis/internal/scoring"
)

func NewRouter(s *scoring.Scorer, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	if m != nil {
		r.Use(HTTPMetrics(m))
	}
	r.Use(RateLimitMiddleware(cfg.Server.RateLimitPerMinute, cfg.Server.APIToken != ""))

	evaluations := NewEvaluationsHandler(s, cfg.Server.MaxBodyBytes)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(TokenAuthMiddleware(cfg.Server.APIToken))

		r.Post("/evaluations", evaluations.Create)
		r.Post("/topsis", evaluations.Compute)
	})

	return r
}

func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
