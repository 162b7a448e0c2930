package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/voting_auth/internal/db"
	authhdl "github.com/Skotchmaster/voting_auth/internal/handlers/auth"
	authmw "github.com/Skotchmaster/voting_auth/internal/middleware/auth"
	"github.com/Skotchmaster/voting_auth/internal/middleware/csrf"
	"github.com/Skotchmaster/voting_auth/internal/session"
)

type Deps struct {
	DB          *gorm.DB
	AuthHandler *authhdl.AuthHandler
	Guard       *authmw.Guard
	// CSRF is nil when the check is disabled.
	CSRF *csrf.Config
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "database unavailable"})
		}
		return c.NoContent(http.StatusOK)
	})

	var mws []echo.MiddlewareFunc
	if d.CSRF != nil {
		mws = append(mws, csrf.Middleware(*d.CSRF))
	}

	api := e.Group("/api", mws...)

	api.POST("/register", d.AuthHandler.Register, d.Guard.Require(authmw.Public))
	api.POST("/login", d.AuthHandler.Login, d.Guard.Require(authmw.Public))
	api.POST("/logout", d.AuthHandler.LogOut, d.Guard.Require(authmw.Authenticated))
	api.GET("/me", d.AuthHandler.Me, d.Guard.Require(authmw.Authenticated))

	token := e.Group("/token", mws...)
	token.POST("/refresh", d.AuthHandler.Refresh, d.Guard.RequireRefresh)

	admin := e.Group("/admin", append(mws, d.Guard.Require(authmw.AdminOnly))...)
	admin.GET("", d.AuthHandler.Admin)
	admin.GET("/users/:id", d.AuthHandler.AdminGetUser)
}

// CSRFConfig returns the double-submit settings for the auth routes. Register
// and login create the session and are exempt. Requests without a session
// cookie carry no credential to forge and reach the guard unchecked.
func CSRFConfig(secure bool) *csrf.Config {
	cfg := csrf.DefaultConfig()
	cfg.Secure = secure
	cfg.SkipPaths = []string{"/api/register", "/api/login"}
	cfg.SessionCookies = []string{session.AccessCookie, session.RefreshCookie}
	return &cfg
}
