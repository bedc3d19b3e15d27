package scoringhandlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// RouteOptions configures the API surface.
type RouteOptions struct {
	RateLimit      float64
	RateBurst      int
	AllowedOrigins []string
}

// RegisterRoutes mounts /healthz, /metrics and the /api/rounds endpoints on r.
// gatherer may be nil to leave /metrics unmounted.
func RegisterRoutes(r chi.Router, h *ScoringHandlers, gatherer prometheus.Gatherer, opts RouteOptions) {
	r.Get("/healthz", h.HandleHealth)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	limiter := NewIPRateLimiter(rate.Limit(opts.RateLimit), opts.RateBurst)
	r.Route("/api/rounds", func(r chi.Router) {
		r.Use(CORSMiddleware(opts.AllowedOrigins))
		r.Use(RateLimitMiddleware(limiter))

		r.Post("/score", h.HandleScore)
		r.Post("/report", h.HandleReport)
	})
}
