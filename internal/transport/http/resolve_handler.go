package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "tickerlens/internal/errors"
)

// ResolveHandler handles query resolution requests
type ResolveHandler struct {
	service      ResolveServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewResolveHandler creates a new resolve handler
func NewResolveHandler(service ResolveServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ResolveHandler {
	return &ResolveHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "resolve_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the resolve routes
func (h *ResolveHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Resolve)
	return r
}

// ResolveRequest is the resolve request body
type ResolveRequest struct {
	Query string `json:"query" validate:"required,max=1000"`
}

// Bind implements render.Binder
func (req *ResolveRequest) Bind(r *http.Request) error {
	return nil
}

// Resolve handles POST /api/resolve
func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := render.Bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("query", "Query is required and must be at most 1000 characters"))
		return
	}

	result, err := h.service.Resolve(r.Context(), req.Query)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "query resolved",
		slog.Int("matches", len(result.Matches)),
		slog.Int("warnings", len(result.Warnings)),
	)
	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}
