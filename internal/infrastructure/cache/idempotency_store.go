// Package cache provides idempotency tracking for write endpoints. The
// intake wizard submits its whole document in one request; a retry after a
// network timeout must not mint a second supply.
package cache

import (
	"context"
	"time"
)

// IdempotencyStore tracks request keys that have already been accepted.
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL. Returns true if the
	// key was newly marked, false if it was already processed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases the store's resources
	Close() error
}
