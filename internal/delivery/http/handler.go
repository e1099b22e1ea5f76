package http

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shortlink/internal/analytics/pipeline"
	linkdomain "shortlink/internal/link/domain"
	"shortlink/pkg/problemdetails"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// LinkService is the link side of the core the handler drives.
type LinkService interface {
	Allocate(ctx context.Context, originalURL string, owner *string) (*linkdomain.Link, error)
	Resolve(ctx context.Context, token string) (*linkdomain.Link, error)
	ListByOwner(ctx context.Context, owner string, limit, offset int) ([]*linkdomain.Link, error)
}

// ClickDispatcher hands a resolved visit to the analytics pipeline. It must
// not block.
type ClickDispatcher interface {
	Dispatch(click pipeline.RawClick)
}

// Handler handles HTTP requests for link operations
type Handler struct {
	links      LinkService
	dispatcher ClickDispatcher // may be nil when analytics is disabled
	baseURL    string
	logger     *zap.Logger
}

// NewHandler creates a new Handler
func NewHandler(links LinkService, dispatcher ClickDispatcher, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		links:      links,
		dispatcher: dispatcher,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		logger:     logger,
	}
}

// CreateLinkRequest represents the request body for creating a short link
type CreateLinkRequest struct {
	URL   string  `json:"url"`
	Owner *string `json:"owner,omitempty"`
}

// LinkResponse represents a link in API responses
type LinkResponse struct {
	ID          string    `json:"id"`
	Token       string    `json:"token"`
	ShortURL    string    `json:"short_url"`
	OriginalURL string    `json:"original_url"`
	Owner       *string   `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListLinksResponse is the response for owner listings
type ListLinksResponse struct {
	Links []LinkResponse `json:"links"`
	Count int            `json:"count"`
}

// CreateLink handles POST /api/v1/links
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem := problemdetails.New(
			http.StatusBadRequest,
			problemdetails.TypeInvalidRequest,
			"Invalid Request",
			"Request body must be valid JSON with a 'url' field",
		)
		writeProblem(w, problem)
		return
	}

	link, err := h.links.Allocate(r.Context(), req.URL, req.Owner)
	if err != nil {
		switch {
		case errors.Is(err, linkdomain.ErrInvalidInput):
			problem := problemdetails.New(
				http.StatusBadRequest,
				problemdetails.TypeInvalidURL,
				"Invalid URL",
				err.Error(),
			)
			writeProblem(w, problem)
		case errors.Is(err, linkdomain.ErrAllocationExhausted):
			problem := problemdetails.New(
				http.StatusInternalServerError,
				problemdetails.TypeAllocationExhausted,
				"Internal Server Error",
				"Failed to allocate a unique token",
			)
			writeProblem(w, problem)
		default:
			h.logger.Error("failed to create link", zap.Error(err))
			writeProblem(w, internalError(r))
		}
		return
	}

	writeJSON(w, http.StatusCreated, h.toResponse(link))
}

// Redirect handles GET /{token}
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	link, err := h.links.Resolve(r.Context(), token)
	if err != nil {
		if errors.Is(err, linkdomain.ErrNotFound) {
			writeProblem(w, notFound(r, "Short link not found: "+token))
			return
		}
		h.logger.Error("failed to resolve token", zap.String("token", token), zap.Error(err))
		writeProblem(w, internalError(r))
		return
	}

	// Read request data before responding.
	click := pipeline.RawClick{
		LinkID:     link.ID,
		Token:      link.Token,
		IPAddress:  clientIP(r),
		UserAgent:  r.Header.Get("User-Agent"),
		Referrer:   r.Header.Get("Referer"),
		OccurredAt: time.Now().UTC(),
	}

	http.Redirect(w, r, link.OriginalURL, http.StatusFound)

	if h.dispatcher != nil {
		h.dispatcher.Dispatch(click)
	}
}

// GetLink handles GET /api/v1/links/{token}
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	link, err := h.links.Resolve(r.Context(), token)
	if err != nil {
		if errors.Is(err, linkdomain.ErrNotFound) {
			writeProblem(w, notFound(r, "Short link not found: "+token))
			return
		}
		h.logger.Error("failed to get link", zap.String("token", token), zap.Error(err))
		writeProblem(w, internalError(r))
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(link))
}

// ListLinks handles GET /api/v1/links?owner=&limit=&offset=
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	owner := query.Get("owner")

	var fieldErrors []problemdetails.FieldError
	limit, ok := parseIntParam(query.Get("limit"), 0)
	if !ok {
		fieldErrors = append(fieldErrors, problemdetails.FieldError{Field: "limit", Message: "must be an integer"})
	}
	offset, ok := parseIntParam(query.Get("offset"), 0)
	if !ok {
		fieldErrors = append(fieldErrors, problemdetails.FieldError{Field: "offset", Message: "must be an integer"})
	}
	if owner == "" {
		fieldErrors = append(fieldErrors, problemdetails.FieldError{Field: "owner", Message: "is required"})
	}
	if len(fieldErrors) > 0 {
		writeProblem(w, problemdetails.NewValidation(fieldErrors))
		return
	}

	links, err := h.links.ListByOwner(r.Context(), owner, limit, offset)
	if err != nil {
		if errors.Is(err, linkdomain.ErrInvalidInput) {
			problem := problemdetails.New(
				http.StatusBadRequest,
				problemdetails.TypeInvalidRequest,
				"Invalid Request",
				err.Error(),
			)
			writeProblem(w, problem)
			return
		}
		h.logger.Error("failed to list links", zap.String("owner", owner), zap.Error(err))
		writeProblem(w, internalError(r))
		return
	}

	resp := ListLinksResponse{
		Links: lo.Map(links, func(link *linkdomain.Link, _ int) LinkResponse {
			return h.toResponse(link)
		}),
	}
	resp.Count = len(resp.Links)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) toResponse(link *linkdomain.Link) LinkResponse {
	return LinkResponse{
		ID:          link.ID,
		Token:       link.Token,
		ShortURL:    h.baseURL + "/" + link.Token,
		OriginalURL: link.OriginalURL,
		Owner:       link.Owner,
		CreatedAt:   link.CreatedAt,
	}
}

// parseIntParam returns def for an empty value and false for a malformed one.
func parseIntParam(s string, def int) (int, bool) {
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// clientIP strips the port RemoteAddr carries when RealIP found no header.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
