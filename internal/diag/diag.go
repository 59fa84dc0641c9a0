// Package diag exposes an optional local diagnostics endpoint: liveness
// plus the prometheus registry. It serves operators poking at the tool,
// not the weather UI, and is disabled unless a port is configured.
package diag

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jmalden/weatherdesk/internal/observability"
)

// HealthStatus is the /healthz response body.
type HealthStatus struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
}

// Handler serves the diagnostics routes.
type Handler struct {
	logger    *zap.Logger
	storePing func() error // nil when the store backend has no liveness probe
}

// NewHandler creates a Handler. storePing may be nil.
func NewHandler(logger *zap.Logger, storePing func() error) *Handler {
	return &Handler{logger: logger, storePing: storePing}
}

// GetHealth reports liveness. A failing store ping degrades the status
// but still returns 200: the app runs fine from an empty state.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{Status: "ok"}
	if h.storePing != nil {
		if err := h.storePing(); err != nil {
			h.logger.Warn("store ping failed", zap.Error(err))
			status.Store = "unreachable"
		} else {
			status.Store = "ok"
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(status)
}

// NewRouter builds the diagnostics router with request metrics and an
// optional rate limiter.
func NewRouter(h *Handler, limiter *rate.Limiter) *mux.Router {
	router := mux.NewRouter()
	router.Use(MetricsMiddleware)
	router.Use(RateLimitMiddleware(limiter))
	router.HandleFunc("/healthz", h.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())
	return router
}
