package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "tickerlens/internal/errors"
)

// CatalogHandler handles catalog administration requests
type CatalogHandler struct {
	service      ResolveServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service ResolveServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CatalogHandler {
	return &CatalogHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "catalog_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the catalog routes
func (h *CatalogHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetInfo)
	r.Get("/tickers", h.GetTickers)
	r.Post("/rebuild", h.Rebuild)
	return r
}

// GetInfo handles GET /api/catalog
func (h *CatalogHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.CatalogInfo(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, info)
}

// GetTickers handles GET /api/catalog/tickers
func (h *CatalogHandler) GetTickers(w http.ResponseWriter, r *http.Request) {
	tickers, err := h.service.Tickers(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"tickers": tickers,
		"count":   len(tickers),
	})
}

// Rebuild handles POST /api/catalog/rebuild. This is the explicit operator
// entry point for refreshing the catalog after a universe or name-map change.
func (h *CatalogHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "catalog rebuild requested")

	info, err := h.service.Rebuild(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "catalog rebuild complete",
		slog.Int("tickers", info.Tickers),
		slog.Int("aliases", info.Aliases),
	)
	render.JSON(w, r, info)
}
