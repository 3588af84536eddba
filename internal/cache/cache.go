package cache

import (
	"context"
	"time"
)

// Cache is a small JSON blob cache. The chat path uses it to keep the
// profile filter view warm between turns.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
