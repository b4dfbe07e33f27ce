package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SchemaCache caches fully loaded calendar definitions so conversion
// endpoints don't hit MariaDB on every request. Mutations must call
// Invalidate; stale schemas would silently shift every computed date.
type SchemaCache interface {
	Get(ctx context.Context, calendarID string) (*Calendar, error)
	Set(ctx context.Context, cal *Calendar) error
	Invalidate(ctx context.Context, calendarID string) error
}

// redisSchemaCache is the Redis-backed SchemaCache implementation.
// Calendars are stored as JSON under a namespaced key with a TTL so a
// missed invalidation heals itself.
type redisSchemaCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSchemaCache creates a Redis-backed schema cache with the given TTL.
func NewSchemaCache(rdb *redis.Client, ttl time.Duration) SchemaCache {
	return &redisSchemaCache{rdb: rdb, ttl: ttl}
}

func cacheKey(calendarID string) string {
	return "almanac:calendar:" + calendarID
}

// Get returns the cached calendar, or nil on a cache miss.
func (c *redisSchemaCache) Get(ctx context.Context, calendarID string) (*Calendar, error) {
	data, err := c.rdb.Get(ctx, cacheKey(calendarID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var cal Calendar
	if err := json.Unmarshal(data, &cal); err != nil {
		// A corrupt entry is treated as a miss; the caller reloads from
		// the database and overwrites it.
		return nil, nil
	}
	return &cal, nil
}

// Set stores the fully loaded calendar.
func (c *redisSchemaCache) Set(ctx context.Context, cal *Calendar) error {
	data, err := json.Marshal(cal)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.rdb.Set(ctx, cacheKey(cal.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached calendar.
func (c *redisSchemaCache) Invalidate(ctx context.Context, calendarID string) error {
	if err := c.rdb.Del(ctx, cacheKey(calendarID)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
