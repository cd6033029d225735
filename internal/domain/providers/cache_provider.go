package providers

import "context"

// CacheProvider abstracts the byte-level cache used for raw snapshots and
// HTTP response caching.
type CacheProvider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error
	Delete(ctx context.Context, key string) error
}
