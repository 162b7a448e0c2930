// Package auth guards echo routes with the session's token cookies. A route is
// either public, open to any holder of a valid access token, or restricted to
// administrators; the refresh endpoint alone accepts refresh tokens.
package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/voting_auth/internal/logging"
	"github.com/Skotchmaster/voting_auth/internal/session"
	"github.com/Skotchmaster/voting_auth/internal/tokens"
)

type Policy int

const (
	Public Policy = iota
	Authenticated
	AdminOnly
)

func (p Policy) String() string {
	switch p {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin_only"
	default:
		return "unknown"
	}
}

const claimsKey = "token_claims"

type TokenVerifier interface {
	Verify(ctx context.Context, raw string, want tokens.Kind) (*tokens.Claims, error)
}

type Guard struct {
	Verifier  TokenVerifier
	Transport *session.Transport
}

func NewGuard(v TokenVerifier, t *session.Transport) *Guard {
	return &Guard{Verifier: v, Transport: t}
}

// Require returns the middleware enforcing p.
func (g *Guard) Require(p Policy) echo.MiddlewareFunc {
	switch p {
	case Public:
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	case Authenticated:
		return g.RequireLogin
	case AdminOnly:
		return g.AdminOnly
	default:
		panic("auth: unknown policy " + p.String())
	}
}

// RequireRefresh admits requests carrying a valid refresh token.
func (g *Guard) RequireRefresh(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := g.authenticate(c, tokens.KindRefresh); err != nil {
			return err
		}
		return next(c)
	}
}

func (g *Guard) authenticate(c echo.Context, kind tokens.Kind) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("middleware", "auth", "kind", string(kind))

	claims, err := g.Verifier.Verify(ctx, g.Transport.Extract(c, kind), kind)
	if err != nil {
		if tokens.IsRejected(err) {
			l.Warn("token_rejected", "status", 401, "reason", err.Error())
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		l.Error("token_verify_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}

	SetClaims(c, claims)
	return nil
}

// SetClaims stores verified claims on c and tags the request logger with the
// token's owner.
func SetClaims(c echo.Context, claims *tokens.Claims) {
	c.Set(claimsKey, claims)
	ctx := logging.WithUser(c.Request().Context(), claims.Subject, claims.IsAdmin)
	c.SetRequest(c.Request().WithContext(ctx))
}

// ClaimsFrom returns the claims stored by a guard, or nil on a public route.
func ClaimsFrom(c echo.Context) *tokens.Claims {
	claims, _ := c.Get(claimsKey).(*tokens.Claims)
	return claims
}
