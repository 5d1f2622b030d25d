// Package logging builds the service's slog logger from configuration.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
)

// New returns a logger writing to w with the configured level and format.
// Unknown values fall back to info level and JSON output.
func New(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
