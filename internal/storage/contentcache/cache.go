package contentcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "diagram:content:" // diagram:content:{diagram_id}

// Cache is a read-through Redis cache for diagram content, keyed by
// diagram id and invalidated on every write or delete.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache with the given TTL.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached content and whether it was present.
func (c *Cache) Get(ctx context.Context, id string) (string, bool, error) {
	content, err := c.client.Get(ctx, c.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get: %w", err)
	}
	return content, true, nil
}

// Set stores the content for a diagram id.
func (c *Cache) Set(ctx context.Context, id, content string) error {
	if err := c.client.Set(ctx, c.key(id), content, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached content for a diagram id.
func (c *Cache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *Cache) key(id string) string {
	return keyPrefix + id
}
