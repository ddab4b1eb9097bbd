package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache stores values of a single type under string keys.
//
// A zero ttl passed to Set means the cache default; a negative ttl means
// the entry never expires.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// Codec turns values into bytes for remote backends.
type Codec[V any] interface {
	Encode(v V) ([]byte, error)
	Decode(data []byte) (V, error)
}

// JSON is the default Codec.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrCodec, err)
	}
	return data, nil
}

func (JSON[V]) Decode(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrCodec, err)
	}
	return v, nil
}

var flights singleflight.Group

// LoadTimeout bounds a shared load started by GetOrSet. The load is
// detached from the caller that started it, so it needs its own limit.
var LoadTimeout = 30 * time.Second

// Loader computes a value on a cache miss.
// A zero ttl caches with the cache default.
type Loader[V any] func(ctx context.Context) (V, time.Duration, error)

// GetOrSet returns the cached value for key or loads it with fn.
//
// Concurrent misses for the same key on the same cache share one call to fn.
// The shared call keeps the values of the first caller's context but not its
// cancellation: a caller that goes away gets its own ctx.Err() while the
// load carries on for everyone else, bounded by LoadTimeout.
//
// Loader errors are returned as-is and nothing is cached. Failing to store a
// loaded value is not an error.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, fn Loader[V]) (V, error) {
	var zero V
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	// Keys are scoped to the cache instance so that caches of different
	// value types never share a flight.
	ch := flights.DoChan(fmt.Sprintf("%p|%s", c, key), func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
		defer cancel()

		v, ttl, err := fn(lctx)
		if err != nil {
			return nil, err
		}
		_ = c.Set(lctx, key, v, ttl)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}
