package repository

import (
	"context"
	"time"
)

// CacheRepository stores advice text by fingerprint. A zero ttl means the
// entry does not expire.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
