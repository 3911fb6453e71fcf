// Package cache defines the key/value backend contract used by the cache
// gateway and ships memory, redis and leveldb backends
package cache

import (
	"context"
	"time"
)

// Backend is a key/value store with per-entry TTL
// Get returns a nil value with a nil error when the key is missing or expired
// Set reports false when the backend declined the write
type Backend interface {
	Has(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
}

// Driver names a backend implementation
type Driver string

// Known drivers
const (
	DriverNone    Driver = "none"
	DriverMemory  Driver = "memory"
	DriverRedis   Driver = "redis"
	DriverLevelDB Driver = "leveldb"
)

// Drivers lists every accepted driver name
func Drivers() []string {
	return []string{string(DriverNone), string(DriverMemory), string(DriverRedis), string(DriverLevelDB)}
}

// Func adapts three functions into a Backend; nil funcs behave as an empty cache
type Func struct {
	HasFn func(ctx context.Context, key string) (bool, error)
	GetFn func(ctx context.Context, key string) (any, error)
	SetFn func(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
}

// Has implements Backend
func (f Func) Has(ctx context.Context, key string) (bool, error) {
	if f.HasFn == nil {
		return false, nil
	}
	return f.HasFn(ctx, key)
}

// Get implements Backend
func (f Func) Get(ctx context.Context, key string) (any, error) {
	if f.GetFn == nil {
		return nil, nil
	}
	return f.GetFn(ctx, key)
}

// Set implements Backend
func (f Func) Set(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if f.SetFn == nil {
		return false, nil
	}
	return f.SetFn(ctx, key, value, ttl)
}
