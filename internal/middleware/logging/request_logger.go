// Package loggingmw writes one structured record per request. Records for
// guarded routes carry the caller's user id and token kind, and auth
// rejections are tagged so failed logins and bad tokens can be filtered.
package loggingmw

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/voting_auth/internal/logging"
	authmw "github.com/Skotchmaster/voting_auth/internal/middleware/auth"
)

func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Request().Header.Get(echo.HeaderXRequestID)
			}

			l := base.With(
				"method", c.Request().Method,
				"path", c.Path(),
				"remote_ip", c.RealIP(),
				"user_agent", c.Request().UserAgent(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
			}
			c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			attrs := []any{
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if claims := authmw.ClaimsFrom(c); claims != nil {
				attrs = append(attrs,
					"user_id", claims.Subject,
					"is_admin", claims.IsAdmin,
					"token_kind", string(claims.Kind),
				)
			}

			status := c.Response().Status
			switch {
			case status >= 500:
				l.Error("request_completed", append(attrs, "error", errString(err))...)
			case status == http.StatusUnauthorized || status == http.StatusForbidden:
				l.Warn("request_completed", append(attrs, "auth_outcome", authOutcome(status))...)
			case status >= 400:
				l.Warn("request_completed", attrs...)
			default:
				l.Info("request_completed", append(attrs, "bytes", c.Response().Size)...)
			}
			return nil
		}
	}
}

func authOutcome(status int) string {
	if status == http.StatusForbidden {
		return "forbidden"
	}
	return "unauthenticated"
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
