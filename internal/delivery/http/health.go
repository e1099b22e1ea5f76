package http

import (
	"context"
	"net/http"
	"time"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	names  []string
	checks map[string]ReadinessCheck
}

// NewHealthHandler creates a health handler with no readiness checks.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{checks: make(map[string]ReadinessCheck)}
}

// AddCheck registers a named readiness check. Checks run in registration order.
func (h *HealthHandler) AddCheck(name string, check ReadinessCheck) *HealthHandler {
	h.names = append(h.names, name)
	h.checks[name] = check
	return h
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Healthz handles GET /healthz (liveness probe)
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz handles GET /readyz (readiness probe)
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, name := range h.names {
		if err := h.checks[name](ctx); err != nil {
			resp := HealthResponse{
				Status: "unavailable",
				Reason: name + " unavailable: " + err.Error(),
			}
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "ready"})
}
