package store

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResultCache is a cross-request cache for serialized search responses.
// It is strictly best-effort: a nil client or any Redis error behaves as
// a miss, so the pipeline works unchanged without Redis.
type ResultCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewResultCache(rdb *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResultCache{rdb: rdb, ttl: ttl}
}

// Key derives a stable cache key from the request parameters.
func Key(query, fileType string, useReranker bool) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%t", query, fileType, useReranker)))
	return fmt.Sprintf("search:result:%x", sum[:16])
}

// Get unmarshals a cached response into dest. Returns false on miss or
// any error.
func (c *ResultCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores a response. Errors are dropped; the cache is auxiliary.
func (c *ResultCache) Set(ctx context.Context, key string, val interface{}) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, raw, c.ttl)
}
