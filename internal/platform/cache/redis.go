package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCmds is the slice of redis.Cmdable the backend needs
type redisCmds interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Redis is a Backend over a go-redis client
// values come back as strings; the gateway codecs decode them
type Redis struct {
	client redisCmds
	prefix string
}

// NewRedis wraps a go-redis client; prefix is prepended to every key (may be empty)
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Has implements Backend
func (r *Redis) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Get implements Backend
func (r *Redis) Get(ctx context.Context, key string) (any, error) {
	s, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Set implements Backend
func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	status, err := r.client.Set(ctx, r.prefix+key, value, ttl).Result()
	if err != nil {
		return false, err
	}
	return status == "OK", nil
}
