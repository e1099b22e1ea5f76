package http

import (
	"context"
	"errors"
	"net/http"

	"shortlink/internal/analytics/domain"
	linkdomain "shortlink/internal/link/domain"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AnalyticsService computes per-link summaries.
type AnalyticsService interface {
	Summarize(ctx context.Context, linkID string) (*domain.Summary, error)
	SummarizeByToken(ctx context.Context, token string) (*domain.Summary, error)
}

// AnalyticsHandler handles HTTP requests for analytics queries
type AnalyticsHandler struct {
	analytics AnalyticsService
	logger    *zap.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analytics AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		logger:    logger,
	}
}

// GetSummary handles GET /api/v1/analytics/{linkID}
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")
	summary, err := h.analytics.Summarize(r.Context(), linkID)
	h.respond(w, r, summary, err, "Link not found: "+linkID)
}

// GetSummaryByToken handles GET /api/v1/links/{token}/analytics
func (h *AnalyticsHandler) GetSummaryByToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	summary, err := h.analytics.SummarizeByToken(r.Context(), token)
	h.respond(w, r, summary, err, "Short link not found: "+token)
}

func (h *AnalyticsHandler) respond(w http.ResponseWriter, r *http.Request, summary *domain.Summary, err error, notFoundDetail string) {
	if err != nil {
		if errors.Is(err, linkdomain.ErrNotFound) {
			writeProblem(w, notFound(r, notFoundDetail))
			return
		}
		h.logger.Error("failed to summarize clicks", zap.String("path", r.URL.Path), zap.Error(err))
		writeProblem(w, internalError(r))
		return
	}

	// Zero clicks is a valid summary, not a 404.
	writeJSON(w, http.StatusOK, summary)
}
