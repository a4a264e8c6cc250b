package cache

import (
	"context"
	"time"
)

const (
	// identityKeyPrefix is the Redis key prefix for resolved identities.
	identityKeyPrefix = "identity:token:"
	// identityTTL is the time-to-live for cached identities.
	identityTTL = 5 * time.Minute
)

// GetIdentity retrieves a cached user ID by token hash.
// Returns ErrCacheMiss when the token has not been resolved recently.
func (c *Cache) GetIdentity(ctx context.Context, tokenHash string) (string, error) {
	userID, err := c.client.Get(ctx, identityKeyPrefix+tokenHash).Result()
	if err != nil {
		return "", ErrCacheMiss
	}
	return userID, nil
}

// SetIdentity caches a resolved token-hash to user-ID mapping.
func (c *Cache) SetIdentity(ctx context.Context, tokenHash, userID string) error {
	return c.client.Set(ctx, identityKeyPrefix+tokenHash, userID, identityTTL).Err()
}

// DeleteIdentity drops a cached identity, forcing a store lookup on the
// next request with that token.
func (c *Cache) DeleteIdentity(ctx context.Context, tokenHash string) error {
	return c.client.Del(ctx, identityKeyPrefix+tokenHash).Err()
}
