package tenant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "tenant:number:"

// Cache is a read-through Redis cache for number -> tenant lookups.
// The webhook path hits this on every delivery, so misses and redis errors
// must both be silent; the repository remains the source of truth.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, number string) (Tenant, bool) {
	if c == nil || c.rdb == nil || number == "" {
		return Tenant{}, false
	}
	raw, err := c.rdb.Get(ctx, cacheKeyPrefix+number).Bytes()
	if err != nil {
		return Tenant{}, false
	}
	var t Tenant
	if err := json.Unmarshal(raw, &t); err != nil {
		return Tenant{}, false
	}
	return t, true
}

func (c *Cache) Set(ctx context.Context, number string, t Tenant) {
	if c == nil || c.rdb == nil || number == "" {
		return
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, cacheKeyPrefix+number, raw, c.ttl).Err()
}
