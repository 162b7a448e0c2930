// Package session binds tokens to the request/response cycle through cookies.
// The access cookie is scoped to the whole application, the refresh cookie
// only to the refresh endpoint, so browsers send the long-lived credential
// nowhere else.
package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/voting_auth/internal/tokens"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"

	AccessPath  = "/"
	RefreshPath = "/token/refresh"
)

type Transport struct {
	Secure bool
}

func New(secure bool) *Transport {
	return &Transport{Secure: secure}
}

func (t *Transport) CreateCookie(name, value, path string, expTime time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (t *Transport) DeleteCookie(name, path string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (t *Transport) Attach(c echo.Context, pair *tokens.Pair) {
	t.AttachAccess(c, pair.Access)
	c.SetCookie(t.CreateCookie(RefreshCookie, pair.Refresh.Value, RefreshPath, pair.Refresh.ExpiresAt()))
}

func (t *Transport) AttachAccess(c echo.Context, access *tokens.Token) {
	c.SetCookie(t.CreateCookie(AccessCookie, access.Value, AccessPath, access.ExpiresAt()))
}

func (t *Transport) Detach(c echo.Context) {
	c.SetCookie(t.DeleteCookie(AccessCookie, AccessPath))
	c.SetCookie(t.DeleteCookie(RefreshCookie, RefreshPath))
}

// Extract returns the raw token for kind, or "" when the cookie is absent.
func (t *Transport) Extract(c echo.Context, kind tokens.Kind) string {
	name := AccessCookie
	if kind == tokens.KindRefresh {
		name = RefreshCookie
	}
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
