package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a small JSON read-through cache over redis. A nil *Cache (or one
// without a client) is valid and always misses.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
	Prefix string
}

// NewRedisClient parses a redis:// URL. Empty url means caching is off.
func NewRedisClient(url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

func (c *Cache) enabled() bool {
	return c != nil && c.Client != nil
}

func (c *Cache) key(k string) string {
	return c.Prefix + k
}

// GetJSON loads key into dst. It reports false on a miss, when caching is
// off, or when the stored value cannot be decoded.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	raw, err := c.Client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, nil
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if !c.enabled() {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.key(key), raw, c.TTL).Err()
}

// Delete drops keys, used when partners change the catalog.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.enabled() || len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, c.key(k))
	}
	return c.Client.Del(ctx, full...).Err()
}
