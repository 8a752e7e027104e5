// Package cache is a Redis keyspace for the preferences backend.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces keys when no prefix is configured.
const DefaultPrefix = "pai-tracker:"

// Cache reads and writes string values under one key prefix, so several
// clients can share a server.
type Cache struct {
	client *redis.Client
	prefix string
}

// ParseURL validates a Redis connection URL.
func ParseURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("cache URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}
	return opts, nil
}

// NormalizePrefix returns the prefix keys are stored under. An empty prefix
// becomes DefaultPrefix and a missing trailing colon is added.
func NormalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return DefaultPrefix
	}
	if !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return prefix
}

// New connects to Redis, verifies the connection and scopes keys to prefix.
func New(ctx context.Context, url, prefix string) (*Cache, error) {
	opts, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	opts.DialTimeout = 3 * time.Second
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging cache: %w", err)
	}

	return &Cache{client: client, prefix: NormalizePrefix(prefix)}, nil
}

// Prefix is the namespace every key is stored under.
func (c *Cache) Prefix() string { return c.prefix }

// Key returns the stored key for name.
func (c *Cache) Key(name string) string { return c.prefix + name }

// Get reports whether name is set and its value.
func (c *Cache) Get(ctx context.Context, name string) (string, bool, error) {
	v, err := c.client.Get(ctx, c.Key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set stores value under name with no expiry.
func (c *Cache) Set(ctx context.Context, name, value string) error {
	return c.client.Set(ctx, c.Key(name), value, 0).Err()
}

// Del removes the given names; absent names are not an error.
func (c *Cache) Del(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = c.Key(n)
	}
	return c.client.Del(ctx, keys...).Err()
}

// Close shuts down the client.
func (c *Cache) Close() error {
	return c.client.Close()
}
