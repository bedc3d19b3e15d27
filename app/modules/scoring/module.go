package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/leaderboard/domain"
	leaderboardservice "github.com/Black-And-White-Club/peoria-stableford/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/peoria-stableford/app/modules/scorecard/application/export"
	"github.com/Black-And-White-Club/peoria-stableford/app/modules/scorecard/application/parsers"
	scoringservice "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/application"
	scoringhandlers "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/infrastructure/handlers"
	"github.com/Black-And-White-Club/peoria-stableford/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
)

const shutdownTimeout = 10 * time.Second

// Module represents the scoring module.
type Module struct {
	Service  scoringservice.Service
	Handlers *scoringhandlers.ScoringHandlers
	Registry *prometheus.Registry
	logger   *slog.Logger
	config   *config.Config
}

// NewScoringModule wires metrics, the scoring service and its HTTP handlers from cfg.
func NewScoringModule(cfg *config.Config, logger *slog.Logger, tracer trace.Tracer) (*Module, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := scoringservice.NewPrometheusMetrics(registry)
	if err != nil {
		return nil, err
	}

	ranking := leaderboarddomain.RankingOptions{
		GroupSize:   cfg.Scoring.GroupSize,
		TopByPoints: cfg.Scoring.TopByPoints,
		TopByNet:    cfg.Scoring.TopByNet,
	}
	service := scoringservice.NewScoringService(logger, metrics, tracer, parsers.NewFactory(), scoringservice.Options{
		Workers: cfg.Scoring.Workers,
		Ranking: ranking,
		Report: export.Options{
			IncludeCharts: cfg.Report.Charts,
			Palette:       leaderboardservice.DefaultChartPalette(),
			TopByPoints:   ranking.TopByPoints,
			TopByNet:      ranking.TopByNet,
		},
	})

	handlers := scoringhandlers.NewScoringHandlers(service, logger, tracer, cfg.HTTP.MaxUploadBytes, cfg.Scoring.ReferenceHoles)

	return &Module{
		Service:  service,
		Handlers: handlers,
		Registry: registry,
		logger:   logger,
		config:   cfg,
	}, nil
}

// Router returns the HTTP API. /metrics is served here unless a separate metrics
// address is configured.
func (m *Module) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	var gatherer prometheus.Gatherer
	if m.config.Observability.MetricsAddress == "" {
		gatherer = m.Registry
	}
	scoringhandlers.RegisterRoutes(r, m.Handlers, gatherer, scoringhandlers.RouteOptions{
		RateLimit:      m.config.HTTP.RateLimit,
		RateBurst:      m.config.HTTP.RateBurst,
		AllowedOrigins: m.config.HTTP.AllowedOrigins,
	})
	return r
}

// Serve runs the API (and the metrics listener, when configured) until ctx is done.
func (m *Module) Serve(ctx context.Context) error {
	servers := []*http.Server{{
		Addr:              m.config.HTTP.Address,
		Handler:           m.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if addr := m.config.Observability.MetricsAddress; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
		servers = append(servers, &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		m.logger.InfoContext(ctx, "HTTP server listening", slog.String("address", srv.Addr))
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("server on %s: %w", srv.Addr, err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	m.logger.InfoContext(ctx, "Shutting down HTTP servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if runErr != nil {
		errs = append(errs, runErr)
	}
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
