package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"realtyflow/property"
)

const listingVersionKey = "listings:version"

// ListingCache caches property search results in Redis. Cache entries are
// keyed by a version counter plus the serialized filters; invalidation bumps
// the counter so stale entries expire on their own instead of being scanned
// and deleted.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewListingCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *ListingCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ListingCache{client: client, ttl: ttl, log: log}
}

func (c *ListingCache) Get(ctx context.Context, filters property.Filters) ([]property.Property, bool) {
	key, err := c.key(ctx, filters)
	if err != nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("listing cache read failed")
		}
		return nil, false
	}
	var properties []property.Property
	if err := json.Unmarshal(raw, &properties); err != nil {
		c.log.Warn().Err(err).Msg("listing cache entry corrupt")
		return nil, false
	}
	return properties, true
}

func (c *ListingCache) Set(ctx context.Context, filters property.Filters, properties []property.Property) {
	key, err := c.key(ctx, filters)
	if err != nil {
		return
	}
	raw, err := json.Marshal(properties)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("listing cache write failed")
	}
}

func (c *ListingCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, listingVersionKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("listing cache invalidation failed")
	}
}

func (c *ListingCache) key(ctx context.Context, filters property.Filters) (string, error) {
	version, err := c.client.Get(ctx, listingVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	raw, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("listings:%d:%s", version, raw), nil
}
