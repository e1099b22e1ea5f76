package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter creates a new Chi router with all middleware and routes.
// A nil rateLimiter disables rate limiting.
func NewRouter(
	handler *Handler,
	analytics *AnalyticsHandler,
	health *HealthHandler,
	logger *zap.Logger,
	rateLimiter *RateLimiter,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)

	// Probes are not rate limited.
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	r.Group(func(r chi.Router) {
		if rateLimiter != nil {
			r.Use(rateLimiter.Middleware)
		}

		r.Get("/{token}", handler.Redirect)

		r.Route("/api/v1", func(r chi.Router) {
			r.Post("/links", handler.CreateLink)
			r.Get("/links", handler.ListLinks)
			r.Get("/links/{token}", handler.GetLink)
			r.Get("/links/{token}/analytics", analytics.GetSummaryByToken)
			r.Get("/analytics/{linkID}", analytics.GetSummary)
		})
	})

	return r
}
