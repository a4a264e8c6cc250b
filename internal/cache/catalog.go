package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/repocat/repocat/internal/model"
)

const (
	// listingKeyPrefix is the Redis key prefix for repository listings.
	listingKeyPrefix = "catalog:repos:"
	// listingCatalogKey addresses the full-catalog listing.
	listingCatalogKey = "all"
	// listingTTL bounds staleness when an invalidation is lost.
	listingTTL = 30 * time.Second
)

// listingKey builds the Redis key for a listing. An empty ownerID
// addresses the full-catalog listing.
func listingKey(ownerID string) string {
	if ownerID == "" {
		return listingKeyPrefix + listingCatalogKey
	}
	return listingKeyPrefix + "owner:" + ownerID
}

// GetRepositoryList retrieves a cached repository listing.
// Returns (nil, nil) on a miss; a corrupted entry is treated as a miss.
func (c *Cache) GetRepositoryList(ctx context.Context, ownerID string) ([]*model.Repository, error) {
	data, err := c.client.Get(ctx, listingKey(ownerID)).Bytes()
	if err != nil {
		return nil, nil //nolint:nilerr
	}

	var repos []*model.Repository
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, nil //nolint:nilerr
	}

	return repos, nil
}

// SetRepositoryList caches a repository listing with a short TTL.
func (c *Cache) SetRepositoryList(ctx context.Context, ownerID string, repos []*model.Repository) error {
	data, err := json.Marshal(repos)
	if err != nil {
		return fmt.Errorf("failed to marshal repository listing: %w", err)
	}

	if err := c.client.Set(ctx, listingKey(ownerID), data, listingTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache repository listing: %w", err)
	}

	return nil
}

// InvalidateRepositoryLists drops the full-catalog listing and the
// given owner's listing after a mutation.
func (c *Cache) InvalidateRepositoryLists(ctx context.Context, ownerID string) error {
	keys := []string{listingKey("")}
	if ownerID != "" {
		keys = append(keys, listingKey(ownerID))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate repository listings: %w", err)
	}

	return nil
}
