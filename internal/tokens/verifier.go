package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Verifier struct {
	Keys        Keys
	Revocations RevocationChecker
	Now         func() time.Time
}

func NewVerifier(keys Keys, revocations RevocationChecker) *Verifier {
	return &Verifier{Keys: keys, Revocations: revocations, Now: time.Now}
}

// Verify checks, in order: structure, signature (with the secret of the kind the
// token claims), expiry (now > exp), revocation and finally that the kind equals want.
// Failures are reported with the package's Err*Token sentinels; an error from
// the revocation store is returned wrapped and is not a rejection.
func (v *Verifier) Verify(ctx context.Context, raw string, want Kind) (*Claims, error) {
	if raw == "" {
		return nil, ErrMalformedToken
	}

	claims := &Claims{}
	// expiry is checked below: a token is still valid at the exp instant itself
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		c, ok := t.Claims.(*Claims)
		if !ok {
			return nil, ErrMalformedToken
		}
		key, ok := v.Keys.For(c.Kind)
		if !ok {
			return nil, ErrMalformedToken
		}
		return key, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if claims.ID == "" || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrMalformedToken
	}
	if v.Now().After(claims.ExpiresAt.Time) {
		return nil, ErrExpiredToken
	}

	revoked, err := v.Revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if revoked {
		return nil, ErrRevokedToken
	}

	if claims.Kind != want {
		return nil, ErrWrongTokenKind
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrMalformedToken), errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpiredToken, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}
