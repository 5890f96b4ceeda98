package utils

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Cache key names mirror the storefront's query keys: list and detail
// reads are cached under fixed names, and every mutation invalidates the
// affected set so the views refetch.
const (
	CacheKeyProducts       = "products"
	CacheKeyProduct        = "product:"  // + product id
	CacheKeyBlogPosts      = "blogPosts"
	CacheKeyBlogPost       = "blogPost:" // + post id
	CacheKeyAdminBlogPosts = "adminBlogPosts"
)

// Cache is a response cache backed by Redis. When no REDIS_ADDR is
// configured every operation is a no-op and reads always miss.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache connects to Redis using REDIS_ADDR, or returns a disabled
// cache when the address is unset.
func NewCache() *Cache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		logrus.Info("REDIS_ADDR not set, response cache disabled")
		return &Cache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Warn("Redis unreachable, response cache disabled")
		return &Cache{}
	}

	logrus.Info("connected to Redis")
	return &Cache{client: client, ttl: 5 * time.Minute}
}

// Enabled reports whether a Redis backend is attached.
func (c *Cache) Enabled() bool { return c.client != nil }

// Get unmarshals the cached value for key into dest. Returns false on a
// miss or any cache error; cache errors never fail the request.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).WithField("key", key).Warn("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache entry corrupt, dropping")
		c.client.Del(ctx, key)
		return false
	}
	return true
}

// Set stores value under key, best-effort.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

// Invalidate removes the named keys. Keys ending in ":" are treated as
// prefixes and every key under them is removed.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c.client == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if key[len(key)-1] == ':' {
			matches, err := c.client.Keys(ctx, key+"*").Result()
			if err != nil || len(matches) == 0 {
				continue
			}
			c.client.Del(ctx, matches...)
			continue
		}
		c.client.Del(ctx, key)
	}
}
