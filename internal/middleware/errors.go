package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// problemDetails represents an RFC 7807 Problem Details response
type problemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Error types
const (
	errorTypeBadRequest   = "https://prolink.app/errors/bad-request"
	errorTypeUnauthorized = "https://prolink.app/errors/unauthorized"
	errorTypeForbidden    = "https://prolink.app/errors/forbidden"
	errorTypeRateLimit    = "https://prolink.app/errors/rate-limit"
	errorTypeInternal     = "https://prolink.app/errors/internal"
)

func problem(c echo.Context, status int, errType, title, detail string) error {
	return c.JSON(status, problemDetails{
		Type:     errType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

func badRequestError(c echo.Context, detail string) error {
	return problem(c, http.StatusBadRequest, errorTypeBadRequest, "Bad Request", detail)
}

func unauthorizedError(c echo.Context, detail string) error {
	return problem(c, http.StatusUnauthorized, errorTypeUnauthorized, "Unauthorized", detail)
}

func forbiddenError(c echo.Context, detail string) error {
	return problem(c, http.StatusForbidden, errorTypeForbidden, "Forbidden", detail)
}

func tooManyRequestsError(c echo.Context, detail string) error {
	return problem(c, http.StatusTooManyRequests, errorTypeRateLimit, "Rate Limit Exceeded", detail)
}

func internalError(c echo.Context) error {
	return problem(c, http.StatusInternalServerError, errorTypeInternal, "Internal Server Error", "An unexpected error occurred")
}
