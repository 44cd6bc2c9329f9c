package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HealthHandler reports process liveness.
type HealthHandler struct {
	version   string
	startedAt time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startedAt: time.Now(),
	}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Health)
	return r
}

// Health returns the liveness payload.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":    "healthy",
		"version":   h.version,
		"uptime":    time.Since(h.startedAt).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
