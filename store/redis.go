package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-redis/redis/v8"

	"gointervals/trees/interval"
)

const keyPrefix = "interval:"

// RedisCache keeps the JSON segment encoding of resolved sets.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache caches entries for ttl; zero keeps them without expiry.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

func cacheKey(id string) string {
	return keyPrefix + id
}

// Get returns the cached set, ok is false on a cache miss.
func (c *RedisCache) Get(ctx context.Context, id string) (*interval.Set[float64], bool, error) {
	val, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "redis get %s", id)
	}

	set := new(interval.Set[float64])
	if err := json.Unmarshal(val, set); err != nil {
		return nil, false, errors.Wrapf(err, "decode cached set %s", id)
	}
	return set, true, nil
}

// Put caches set under id.
func (c *RedisCache) Put(ctx context.Context, id string, set *interval.Set[float64]) error {
	val, err := json.Marshal(set)
	if err != nil {
		return errors.Wrapf(err, "encode set %s", id)
	}

	if err := c.client.Set(ctx, cacheKey(id), val, c.ttl).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", id)
	}
	return nil
}
