package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which requests have already been processed.
// Mutation endpoints use it to make client retries safe: a duplicated
// request key is detected and the mutation is not applied twice.
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL. Returns true if the
	// key was newly marked, false if it had already been processed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases any resources held by the store
	Close() error
}
