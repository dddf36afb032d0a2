package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/velora/shipping-engine/internal/core/domain"
)

const cacheTTL = time.Hour

// DistanceCache is the dedicated-fast-store variant of the distance cache,
// used instead of record-backed lookups when CACHE_BACKEND=redis.
// Key format: distance:<vendor_id>:<lat>:<lng>
type DistanceCache struct {
	client *redis.Client
}

// NewDistanceCache creates a DistanceCache wrapping the given Redis client.
func NewDistanceCache(client *redis.Client) *DistanceCache {
	return &DistanceCache{client: client}
}

// FindRecentDistance returns the cached distance for the pair, or (nil, nil)
// when none is cached or the entry predates since.
func (c *DistanceCache) FindRecentDistance(ctx context.Context, vendorID string, lat, lng float64, since time.Time) (*domain.DistanceResult, error) {
	raw, err := c.client.Get(ctx, c.key(vendorID, lat, lng)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("distance cache get: %w", err)
	}

	var res domain.DistanceResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, fmt.Errorf("distance cache decode: %w", err)
	}
	if res.FetchedAt.Before(since) {
		return nil, nil
	}
	return &res, nil
}

// StoreDistance caches a freshly fetched distance (expires after cacheTTL).
func (c *DistanceCache) StoreDistance(ctx context.Context, vendorID string, lat, lng float64, res domain.DistanceResult) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("distance cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(vendorID, lat, lng), raw, cacheTTL).Err()
}

func (c *DistanceCache) key(vendorID string, lat, lng float64) string {
	return fmt.Sprintf("distance:%s:%f:%f", vendorID, lat, lng)
}
