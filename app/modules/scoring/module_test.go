package scoring

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Black-And-White-Club/peoria-stableford/config"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig("testdata/does-not-exist.yaml")
	require.NoError(t, err)
	return cfg
}

func newTestModule(t *testing.T, cfg *config.Config) *Module {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m, err := NewScoringModule(cfg, logger, noop.NewTracerProvider().Tracer("test"))
	require.NoError(t, err)
	return m
}

type runKey struct{}

// ctxRecorder keeps the run value each record's context carried, keyed by message.
type ctxRecorder struct {
	slog.Handler
	mu   sync.Mutex
	runs map[string]any
}

func (h *ctxRecorder) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs[r.Message] = ctx.Value(runKey{})
	return nil
}

func (h *ctxRecorder) record(msg string) (any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.runs[msg]
	return v, ok
}

func TestModule_Router(t *testing.T) {
	cfg := testConfig(t)
	cfg.Observability.MetricsAddress = ""

	srv := httptest.NewServer(newTestModule(t, cfg).Router())
	defer srv.Close()

	for _, path := range []string{"/healthz", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestModule_RouterWithSeparateMetrics(t *testing.T) {
	cfg := testConfig(t)
	cfg.Observability.MetricsAddress = ":0"

	srv := httptest.NewServer(newTestModule(t, cfg).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestModule_ServeStopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	cfg := testConfig(t)
	cfg.HTTP.Address = addr
	cfg.Observability.MetricsAddress = ""

	rec := &ctxRecorder{Handler: slog.NewTextHandler(io.Discard, nil), runs: map[string]any{}}
	m, err := NewScoringModule(cfg, slog.New(rec), noop.NewTracerProvider().Tracer("test"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), runKey{}, "serve-1"))
	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	for _, msg := range []string{"HTTP server listening", "Shutting down HTTP servers"} {
		run, ok := rec.record(msg)
		require.True(t, ok, msg)
		require.Equal(t, "serve-1", run, msg)
	}
}
