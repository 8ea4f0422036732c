// Package cache stores computed response payloads with a time-to-live.
package cache

import (
	"context"
	"time"
)

// Cache defines the interface for caching services. Get reports ok=false for
// a missing or expired key.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}
