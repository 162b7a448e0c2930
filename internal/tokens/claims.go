// Package tokens mints and verifies the signed access and refresh credentials.
//
// Both kinds are HS256 JWTs, each signed with its own secret and carrying a
// "kind" claim, so a refresh token is never accepted where an access token is
// required and vice versa. Every token gets a fresh jti, which is the key the
// revocation registry works with.
package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

type Claims struct {
	Kind    Kind `json:"kind"`
	IsAdmin bool `json:"is_admin"`
	// RefreshID is set on access tokens only: the jti of the refresh token
	// issued alongside (or used to obtain) this access token.
	RefreshID string `json:"rid,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

func (c *Claims) Issued() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

type Token struct {
	Value  string
	Claims *Claims
}

func (t *Token) ExpiresAt() time.Time { return t.Claims.Expiry() }

type Pair struct {
	Access  *Token
	Refresh *Token
}

type Keys struct {
	Access  []byte
	Refresh []byte
}

func (k Keys) For(kind Kind) ([]byte, bool) {
	switch kind {
	case KindAccess:
		return k.Access, len(k.Access) > 0
	case KindRefresh:
		return k.Refresh, len(k.Refresh) > 0
	default:
		return nil, false
	}
}
