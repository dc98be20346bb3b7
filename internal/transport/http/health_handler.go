package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HealthHandler reports process liveness and catalog readiness
type HealthHandler struct {
	service ResolveServiceInterface
	started time.Time
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service ResolveServiceInterface, version string) *HealthHandler {
	return &HealthHandler{
		service: service,
		started: time.Now(),
		version: version,
	}
}

// Routes returns the health routes
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.Liveness)
	r.Get("/ready", h.Readiness)
	return r
}

// Liveness handles GET /api/health
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).String(),
	})
}

// Readiness handles GET /api/health/ready: ready only once a catalog
// snapshot can be served.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ready(r.Context()); err != nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]interface{}{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	render.JSON(w, r, map[string]interface{}{"status": "ready"})
}
