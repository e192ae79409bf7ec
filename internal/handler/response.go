package handler

import (
	"errors"
	"net/http"

	"github.com/dafibh/prolink/prolink-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MessageResponse is returned by operations that only report an outcome
type MessageResponse struct {
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://prolink.app/errors/validation"
	ErrorTypeBadRequest   = "https://prolink.app/errors/bad-request"
	ErrorTypeNotFound     = "https://prolink.app/errors/not-found"
	ErrorTypeUnauthorized = "https://prolink.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://prolink.app/errors/forbidden"
	ErrorTypeUnavailable  = "https://prolink.app/errors/service-unavailable"
	ErrorTypeInternal     = "https://prolink.app/errors/internal"
)

func newProblem(c echo.Context, status int, errType, title, detail string) error {
	return c.JSON(status, ProblemDetails{
		Type:     errType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewBadRequestError creates a bad request error response
func NewBadRequestError(c echo.Context, detail string) error {
	return newProblem(c, http.StatusBadRequest, ErrorTypeBadRequest, "Bad Request", detail)
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return newProblem(c, http.StatusNotFound, ErrorTypeNotFound, "Not Found", detail)
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return newProblem(c, http.StatusUnauthorized, ErrorTypeUnauthorized, "Unauthorized", detail)
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return newProblem(c, http.StatusForbidden, ErrorTypeForbidden, "Forbidden", detail)
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return newProblem(c, http.StatusServiceUnavailable, ErrorTypeUnavailable, "Service Unavailable", detail)
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return newProblem(c, http.StatusInternalServerError, ErrorTypeInternal, "Internal Server Error", detail)
}

// respondError maps a service error to its problem response. Unexpected
// errors are logged and answered with fallback.
func respondError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return NewBadRequestError(c, domain.Message(err))
	case errors.Is(err, domain.ErrUnauthorized):
		return NewUnauthorizedError(c, domain.Message(err))
	case errors.Is(err, domain.ErrForbidden):
		return NewForbiddenError(c, domain.Message(err))
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, domain.Message(err))
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg(fallback)
	return NewInternalError(c, fallback)
}
