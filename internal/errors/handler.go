package errors

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/render"

	"tickerlens/internal/catalog"
	"tickerlens/internal/infrastructure"
)

// Common error types following RFC 7807
const (
	TypeValidation  = "/errors/validation"
	TypeNotFound    = "/errors/not-found"
	TypeRateLimit   = "/errors/rate-limit"
	TypeInternal    = "/errors/internal"
	TypeServiceDown = "/errors/service-unavailable"
	TypeTimeout     = "/errors/timeout"

	// Domain-specific error types
	TypeCatalogConfig      = "/errors/catalog/configuration"
	TypeCatalogUnavailable = "/errors/catalog/unavailable"
)

// ProblemDetails implements RFC 7807 Problem Details for HTTP APIs
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	Extensions map[string]interface{} `json:"-"`
}

// Render implements the render.Renderer interface
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

// MarshalJSON custom marshaler to include extensions
func (pd *ProblemDetails) MarshalJSON() ([]byte, error) {
	data := make(map[string]interface{}, 5+len(pd.Extensions))
	data["type"] = pd.Type
	data["title"] = pd.Title
	data["status"] = pd.Status
	if pd.Detail != "" {
		data["detail"] = pd.Detail
	}
	if pd.Instance != "" {
		data["instance"] = pd.Instance
	}
	for k, v := range pd.Extensions {
		data[k] = v
	}
	return json.Marshal(data)
}

// WithExtension adds an extension member to the problem details
func (pd *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	if pd.Extensions == nil {
		pd.Extensions = make(map[string]interface{})
	}
	pd.Extensions[key] = value
	return pd
}

// NewProblem creates a ProblemDetails with the given parameters
func NewProblem(problemType, title string, status int, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   problemType,
		Title:  title,
		Status: status,
		Detail: detail,
	}
}

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := infrastructure.GetTraceID(r.Context())

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
	)

	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)
	if h.includeStack {
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	var problem *ProblemDetails

	var cfgErr *catalog.ConfigurationError
	var apiErr *APIError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		problem = NewProblem(TypeTimeout, "Request Timeout", http.StatusGatewayTimeout, "The request took too long to process")
	case errors.Is(err, context.Canceled):
		problem = NewProblem(TypeTimeout, "Request Canceled", 499, "The request was canceled")
	case errors.As(err, &cfgErr):
		problem = NewProblem(TypeCatalogConfig, "Catalog Configuration Error", http.StatusServiceUnavailable, cfgErr.Reason)
	case errors.As(err, &apiErr):
		problem = NewProblem(problemTypeFor(apiErr.StatusCode), apiErr.Message, apiErr.StatusCode, detailString(apiErr.Details))
	default:
		problem = NewProblem(TypeInternal, "Internal Server Error", http.StatusInternalServerError, "An unexpected error occurred")
	}

	problem.Instance = r.URL.Path
	return problem
}

func problemTypeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return TypeValidation
	case http.StatusNotFound:
		return TypeNotFound
	case http.StatusTooManyRequests:
		return TypeRateLimit
	case http.StatusServiceUnavailable:
		return TypeCatalogUnavailable
	default:
		return TypeInternal
	}
}

func getStackTrace() string {
	return string(debug.Stack())
}

func detailString(details interface{}) string {
	switch d := details.(type) {
	case nil:
		return ""
	case string:
		return d
	case ValidationError:
		return d.Field + ": " + d.Message
	default:
		return ""
	}
}
