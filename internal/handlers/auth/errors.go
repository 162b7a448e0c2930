package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/voting_auth/internal/domain"
	"github.com/Skotchmaster/voting_auth/internal/tokens"
)

// toHTTPError maps service errors onto responses. Every token rejection reads
// the same to the client.
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, domain.ErrPasswordTooLong):
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at most 72 bytes")
	case errors.Is(err, domain.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	case errors.Is(err, domain.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	case errors.Is(err, domain.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "admin privileges required")
	case tokens.IsRejected(err):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
}
