package scoringservice

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ScoringMetrics records service operations and per-player outcomes.
type ScoringMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordPlayerScored(ctx context.Context)
	RecordPlayerRejected(ctx context.Context, reason string)
}

// PrometheusMetrics is the ScoringMetrics implementation exported on /metrics.
type PrometheusMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	players    *prometheus.CounterVec
}

// NewPrometheusMetrics creates the scoring collectors and registers them with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "peoria",
			Subsystem: "scoring",
			Name:      "operations_total",
			Help:      "Scoring service operations by outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "peoria",
			Subsystem: "scoring",
			Name:      "operation_duration_seconds",
			Help:      "Scoring service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		players: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "peoria",
			Subsystem: "scoring",
			Name:      "players_total",
			Help:      "Players scored or rejected.",
		}, []string{"outcome", "reason"}),
	}

	for _, c := range []prometheus.Collector{m.operations, m.duration, m.players} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register scoring metrics: %w", err)
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.operations.WithLabelValues(operation, "attempt").Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.operations.WithLabelValues(operation, "success").Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.operations.WithLabelValues(operation, "failure").Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordPlayerScored(_ context.Context) {
	m.players.WithLabelValues("scored", "").Inc()
}

func (m *PrometheusMetrics) RecordPlayerRejected(_ context.Context, reason string) {
	m.players.WithLabelValues("rejected", reason).Inc()
}

// NoOpMetrics discards everything.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpMetrics) RecordPlayerScored(context.Context)                             {}
func (NoOpMetrics) RecordPlayerRejected(context.Context, string)                   {}
