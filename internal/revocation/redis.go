package revocation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "revoked:"

// RedisRegistry stores one key per jti with a TTL equal to the token's
// remaining lifetime, so expired entries disappear without a sweep.
type RedisRegistry struct {
	Client *redis.Client
	Now    func() time.Time
}

func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{Client: client, Now: time.Now}
}

func (r *RedisRegistry) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	now := r.Now()
	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		// already expired; the expiry check rejects it
		return nil
	}
	// SETNX keeps the first revocation time on repeated calls
	err := r.Client.SetNX(ctx, redisKeyPrefix+jti, strconv.FormatInt(now.Unix(), 10), ttl).Err()
	if err != nil {
		return fmt.Errorf("revoke %s: %w", jti, err)
	}
	return nil
}

func (r *RedisRegistry) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.Client.Exists(ctx, redisKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation %s: %w", jti, err)
	}
	return n > 0, nil
}

func (r *RedisRegistry) PurgeExpired(context.Context) (int64, error) {
	return 0, nil
}
