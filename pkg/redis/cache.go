package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// CacheOptions represents options for cache operations
type CacheOptions struct {
	// TTL is the time to live for cached values
	TTL time.Duration
	// Serializer is a custom serializer function
	Serializer func(any) ([]byte, error)
	// Deserializer is a custom deserializer function
	Deserializer func([]byte, any) error
	// KeyPrefix namespaces all keys of this cache
	KeyPrefix string
}

// NewCacheOptions creates a new cache options with default values
func NewCacheOptions() *CacheOptions {
	return &CacheOptions{
		TTL:          1 * time.Hour,
		Serializer:   json.Marshal,
		Deserializer: json.Unmarshal,
		KeyPrefix:    "",
	}
}

// WithTTL sets the TTL for cache operations
func (co *CacheOptions) WithTTL(ttl time.Duration) *CacheOptions {
	if ttl < 0 {
		panic(fmt.Sprintf("invalid TTL: %v, must be non-negative", ttl))
	}
	co.TTL = ttl
	return co
}

// WithKeyPrefix sets the key namespace for the cache
func (co *CacheOptions) WithKeyPrefix(prefix string) *CacheOptions {
	co.KeyPrefix = prefix
	return co
}

// Cache provides high-level typed caching operations on top of the client
type Cache struct {
	client *Client
	opts   *CacheOptions
}

// NewCache creates a new cache instance
func NewCache(client *Client, opts *CacheOptions) *Cache {
	if opts == nil {
		opts = NewCacheOptions()
	}
	if opts.TTL == 0 && client.config != nil {
		opts.TTL = client.config.DefaultCacheTTL
	}
	return &Cache{client: client, opts: opts}
}

func (c *Cache) buildKey(key string) string {
	if c.opts.KeyPrefix != "" {
		return c.opts.KeyPrefix + "::" + key
	}
	return key
}

// Set serializes and stores a value under the given key
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	payload, err := c.opts.Serializer(value)
	if err != nil {
		return fmt.Errorf("failed to serialize cache value: %w", err)
	}
	return c.client.Set(ctx, c.buildKey(key), payload, c.opts.TTL)
}

// Get loads and deserializes a value into dest. It returns false when the
// key is absent or expired.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	payload, found, err := c.client.Get(ctx, c.buildKey(key))
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if err := c.opts.Deserializer(payload, dest); err != nil {
		return false, fmt.Errorf("failed to deserialize cache value: %w", err)
	}
	return true, nil
}

// Delete removes a value from the cache
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Delete(ctx, c.buildKey(key))
}
