package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCache stores serialized report payloads with a TTL. Reports are
// expensive aggregate queries, so results are cached and invalidated
// whenever sale or period data changes.
type ReportCache interface {
	// Get returns the cached payload for key, or found=false on a miss
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores a payload under key with the given TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// InvalidateAll drops every cached report
	InvalidateAll(ctx context.Context) error
}

// RedisReportCache implements ReportCache on Redis. Suitable for
// distributed deployments where multiple instances share cache state.
type RedisReportCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisReportCache creates a report cache backed by an existing Redis client
func NewRedisReportCache(client *redis.Client) *RedisReportCache {
	return &RedisReportCache{
		client:    client,
		keyPrefix: "report:cache:",
	}
}

// Get returns the cached payload for key
func (c *RedisReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read report cache: %w", err)
	}
	return val, true, nil
}

// Set stores a payload under key with the given TTL
func (c *RedisReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write report cache: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached report using a prefix scan
func (c *RedisReportCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to invalidate report cache: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan report cache keys: %w", err)
	}
	return nil
}

var _ ReportCache = (*RedisReportCache)(nil)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryReportCache implements ReportCache with a mutex-protected map.
// Used in development and tests where Redis is not available.
type InMemoryReportCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewInMemoryReportCache creates an in-memory report cache
func NewInMemoryReportCache() *InMemoryReportCache {
	return &InMemoryReportCache{
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the cached payload for key. Expired entries are removed lazily.
func (c *InMemoryReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set stores a payload under key with the given TTL
func (c *InMemoryReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// InvalidateAll drops every cached report
func (c *InMemoryReportCache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	return nil
}

var _ ReportCache = (*InMemoryReportCache)(nil)
