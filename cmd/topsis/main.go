package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/Topsis/internal/api"
	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/hermes"
	"github.com/MikeSquared-Agency/Topsis/internal/logging"
	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
	"github.com/MikeSquared-Agency/Topsis/internal/problem"
	"github.com/MikeSquared-Agency/Topsis/internal/scoring"
)

const usage = `usage:
  topsis serve [-config path]
  topsis rank  [-config path] -problem file [-format table|json] [-detail]`

func main() {
	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = serveCmd(args)
	case "rank":
		err = rankCmd(args, os.Stdout)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "topsis:", err)
		os.Exit(1)
	}
}

func serveCmd(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.Logging, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg, logger)
}

// run serves the API and metrics endpoints until ctx is cancelled or a server
// fails, then shuts both down.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics()
	if err := m.Register(reg); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, cfg.Hermes.SubjectPrefix, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	scorer := scoring.NewScorer(scoringOptions(cfg), hermesClient, m, logger)

	apiLn, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("listen api: %w", err)
	}
	metricsLn, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.MetricsPort))
	if err != nil {
		apiLn.Close()
		return fmt.Errorf("listen metrics: %w", err)
	}

	apiServer := &http.Server{
		Handler:           api.NewRouter(scorer, cfg, m, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsServer := &http.Server{
		Handler:           api.NewMetricsRouter(reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("API server starting", "addr", apiLn.Addr().String())
		if err := apiServer.Serve(apiLn); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("metrics server starting", "addr", metricsLn.Addr().String())
		if err := metricsServer.Serve(metricsLn); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		return errors.Join(apiServer.Shutdown(shutdownCtx), metricsServer.Shutdown(shutdownCtx))
	})

	err = g.Wait()
	logger.Info("shutdown complete")
	return err
}

func rankCmd(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("rank", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to config file")
	problemPath := fs.String("problem", "", "path to problem file (YAML or JSON)")
	format := fs.String("format", "table", "output format: table or json")
	detail := fs.Bool("detail", false, "include normalized and weighted matrices")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *problemPath == "" {
		return errors.New("rank: -problem is required")
	}
	if *format != "table" && *format != "json" {
		return fmt.Errorf("rank: unknown format %q", *format)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.Logging, os.Stderr)

	p, err := problem.Load(*problemPath)
	if err != nil {
		return err
	}

	eval, err := scoring.NewScorer(scoringOptions(cfg), nil, nil, logger).Evaluate(context.Background(), p, *detail)
	if err != nil {
		return err
	}

	if *format == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(eval)
	}
	return printTable(stdout, eval)
}

func printTable(w io.Writer, eval *scoring.Evaluation) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tALTERNATIVE\tCLOSENESS\tS+\tS-\tPARETO")
	for _, a := range eval.Alternatives {
		pareto := ""
		if a.Pareto {
			pareto = "yes"
		}
		if a.Degenerate {
			pareto += " (degenerate)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%.3f\t%.3f\t%s\n",
			a.Rank, a.Name, a.Closeness, a.IdealSeparation, a.NegativeIdealSeparation, strings.TrimSpace(pareto))
	}
	return tw.Flush()
}

func scoringOptions(cfg *config.Config) scoring.Options {
	return scoring.Options{
		RequireUnitWeights: cfg.Scoring.RequireUnitWeights,
		NormalizeWeights:   cfg.Scoring.NormalizeWeights,
		IncludeDetail:      cfg.Scoring.IncludeDetail,
		SubjectPrefix:      cfg.Hermes.SubjectPrefix,
	}
}
