// Package cache is a thin redis wrapper for listing/detail query results.
// It is a non-authoritative performance layer: entries expire on a fixed
// TTL and are dropped wholesale on any content write. When no redis
// address is configured every call is a no-op miss.
package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrMiss = errors.New("cache miss")

type Cache struct {
	client *redis.Client
}

// New connects to redis at addr; an empty addr disables the cache.
func New(addr string) *Cache {
	if addr == "" {
		return &Cache{}
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("[cache] redis unreachable at %s, caching disabled: %v", addr, err)
		return &Cache{}
	}
	return &Cache{client: client}
}

func (c *Cache) Enabled() bool {
	return c.client != nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.client == nil {
		return nil, ErrMiss
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	return data, err
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("[cache] set %s failed: %v", key, err)
	}
}

// DeletePrefix drops every key under prefix using SCAN, so invalidation
// never blocks redis the way KEYS would.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) {
	if c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("[cache] scan %s failed: %v", prefix, err)
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			log.Printf("[cache] invalidate %s failed: %v", prefix, err)
		}
	}
}

func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
