package service

import (
	"context"
	"time"
)

// Cache is the read-side cache the services invalidate on every mutation.
// Satisfied by *cache.Client.
type Cache interface {
	Get(ctx context.Context, key string) []byte
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}
