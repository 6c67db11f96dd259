// Package cache stores upstream payloads keyed by game for a bounded time.
package cache

import "context"

// Cache is a byte payload cache. Implementations are safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Delete(ctx context.Context, key string)
	Len(ctx context.Context) int
}
