package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/voting_auth/internal/logging"
	authmw "github.com/Skotchmaster/voting_auth/internal/middleware/auth"
	"github.com/Skotchmaster/voting_auth/internal/service"
	"github.com/Skotchmaster/voting_auth/internal/session"
)

type AuthHandler struct {
	Service   *service.AuthService
	Transport *session.Transport
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req credentials
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Service.Register(ctx, req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	l.Info("register_success", "status", 201, "user_id", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "user created",
		"id":       user.ID,
		"username": user.Username,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req credentials
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Service.Login(ctx, req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	h.Transport.Attach(c, res.Tokens)
	l.Info("login_successful", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "logged in",
		"is_admin": res.IsAdmin,
	})
}

// Refresh runs behind Guard.RequireRefresh.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "token_refresh")

	access, err := h.Service.Refresh(ctx, authmw.ClaimsFrom(c))
	if err != nil {
		return toHTTPError(err)
	}

	h.Transport.AttachAccess(c, access)
	l.Info("refresh_successful", "user_id", access.Claims.Subject)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "token refreshed",
	})
}

func (h *AuthHandler) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	claims := authmw.ClaimsFrom(c)
	if err := h.Service.LogOut(ctx, claims); err != nil {
		return toHTTPError(err)
	}

	h.Transport.Detach(c)
	l.Info("successful_logout", "user_id", claims.Subject)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged out",
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	claims := authmw.ClaimsFrom(c)
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	user, err := h.Service.Lookup(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Admin(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "welcome, admin",
	})
}

func (h *AuthHandler) AdminGetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	user, err := h.Service.Lookup(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}
