// Package cachegw puts typed get/set on top of an untyped cache backend
// backend failures and panics surface as CacheFailure; undecodable values are misses
package cachegw

import (
	"context"
	"fmt"
	"time"

	"bgg/internal/platform/cache"
	perr "bgg/internal/platform/errors"
)

// Codec converts between T and the value stored in a backend
// Decode reports false for anything it does not accept, which the gateway treats as a miss
type Codec[T any] interface {
	Encode(v T) (any, error)
	Decode(raw any) (T, bool)
}

// Gateway reads and writes T values through a backend
type Gateway[T any] struct {
	backend cache.Backend
	codec   Codec[T]
	ttl     time.Duration
}

// New returns a gateway; ttl is handed to the backend on every write
func New[T any](backend cache.Backend, codec Codec[T], ttl time.Duration) *Gateway[T] {
	return &Gateway[T]{backend: backend, codec: codec, ttl: ttl}
}

// TryGet returns (value, true, nil) on a hit and (zero, false, nil) on a miss
func (g *Gateway[T]) TryGet(ctx context.Context, key string) (v T, hit bool, err error) {
	defer recoverCache(key, &err)

	has, err := g.backend.Has(ctx, key)
	if err != nil {
		return v, false, perr.WrapCache(err, key)
	}
	if !has {
		return v, false, nil
	}
	raw, err := g.backend.Get(ctx, key)
	if err != nil {
		return v, false, perr.WrapCache(err, key)
	}
	if raw == nil {
		return v, false, nil
	}
	out, ok := g.codec.Decode(raw)
	if !ok {
		return v, false, nil
	}
	return out, true, nil
}

// TrySet encodes v and writes it with the gateway ttl
// a declined write is a CacheFailure like any backend error
func (g *Gateway[T]) TrySet(ctx context.Context, key string, v T) (err error) {
	defer recoverCache(key, &err)

	raw, err := g.codec.Encode(v)
	if err != nil {
		return perr.WrapCache(err, key)
	}
	ok, err := g.backend.Set(ctx, key, raw, g.ttl)
	if err != nil {
		return perr.WrapCache(err, key)
	}
	if !ok {
		return perr.WithField(perr.CacheFailuref("cache backend refused to store key [%s]", key), key)
	}
	return nil
}

// recoverCache turns a backend panic into a CacheFailure on *err
func recoverCache(key string, err *error) {
	if r := recover(); r != nil {
		*err = perr.WrapCache(fmt.Errorf("panic: %v", r), key)
	}
}
