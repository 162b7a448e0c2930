// Package revocation records invalidated token identifiers (jti). A jti present
// in the registry is rejected until the token it belonged to would have expired
// anyway, after which the entry is pruned.
package revocation

import (
	"context"
	"time"
)

type Registry interface {
	// Revoke records jti. Revoking the same jti twice is not an error.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// PurgeExpired removes entries whose token has naturally expired and
	// reports how many were removed.
	PurgeExpired(ctx context.Context) (int64, error)
}
