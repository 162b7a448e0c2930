package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/voting_auth/internal/logging"
	"github.com/Skotchmaster/voting_auth/internal/tokens"
)

func (g *Guard) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := g.authenticate(c, tokens.KindAccess); err != nil {
			return err
		}
		claims := ClaimsFrom(c)
		if !claims.IsAdmin {
			logging.FromContext(c.Request().Context()).Warn("admin_denied",
				"status", 403, "user_id", claims.Subject, "path", c.Path())
			return echo.NewHTTPError(http.StatusForbidden, "admin privileges required")
		}
		return next(c)
	}
}
