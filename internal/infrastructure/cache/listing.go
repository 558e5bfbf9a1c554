package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ListingCache caches serialized catalog listing pages.
// Purge invalidates every page at once, e.g. after a shop changes state or an import.
type ListingCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Purge(ctx context.Context) error
}

// DefaultListingPrefix namespaces listing keys in Redis
const DefaultListingPrefix = "shop:listing:"

// RedisListingCache stores pages under a generation number.
// Purge bumps the generation so stale pages are never read again and expire on their own.
type RedisListingCache struct {
	client *redis.Client
	prefix string
}

// NewRedisListingCache creates a listing cache on top of client
func NewRedisListingCache(client *redis.Client, prefix string) *RedisListingCache {
	if prefix == "" {
		prefix = DefaultListingPrefix
	}
	return &RedisListingCache{client: client, prefix: prefix}
}

func (c *RedisListingCache) generationKey() string {
	return c.prefix + "gen"
}

func (c *RedisListingCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read listing generation: %w", err)
	}
	return gen, nil
}

func (c *RedisListingCache) pageKey(gen int64, key string) string {
	return c.prefix + strconv.FormatInt(gen, 10) + ":" + key
}

// Get returns the cached page for key in the current generation
func (c *RedisListingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, false, err
	}
	data, err := c.client.Get(ctx, c.pageKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read listing page: %w", err)
	}
	return data, true, nil
}

// Set stores a page for key in the current generation
func (c *RedisListingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.pageKey(gen, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write listing page: %w", err)
	}
	return nil
}

// Purge starts a new generation
func (c *RedisListingCache) Purge(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.generationKey()).Err(); err != nil {
		return fmt.Errorf("failed to purge listing cache: %w", err)
	}
	return nil
}

// InMemoryListingCache is the single-instance ListingCache
type InMemoryListingCache struct {
	store *memoryStore
}

// NewInMemoryListingCache creates an empty in-memory listing cache
func NewInMemoryListingCache() *InMemoryListingCache {
	return &InMemoryListingCache{store: newMemoryStore()}
}

func (c *InMemoryListingCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, ok := c.store.get(key)
	return data, ok, nil
}

func (c *InMemoryListingCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.store.set(key, value, ttl)
	return nil
}

func (c *InMemoryListingCache) Purge(_ context.Context) error {
	c.store.clear()
	return nil
}

// Close stops the janitor
func (c *InMemoryListingCache) Close() error {
	c.store.close()
	return nil
}

// NopListingCache never stores anything
type NopListingCache struct{}

func (NopListingCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NopListingCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NopListingCache) Purge(context.Context) error { return nil }

var (
	_ ListingCache = (*RedisListingCache)(nil)
	_ ListingCache = (*InMemoryListingCache)(nil)
	_ ListingCache = NopListingCache{}
)
