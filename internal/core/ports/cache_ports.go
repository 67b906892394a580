package ports

import (
	"context"
	"time"
)

// Cache stores serialized payloads. Get returns domain.ErrCacheMiss when the
// key is absent or expired.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}
