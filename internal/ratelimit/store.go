package ratelimit

import (
	"context"
	"time"
)

// Store persists throttle entries. Implementations must treat entries whose
// ttl has passed as absent.
type Store interface {
	// Get returns the entry for (userID, action) or common.ErrNotFound.
	Get(ctx context.Context, userID int64, action string) (*Entry, error)

	// Put inserts or replaces the entry. ttl is the garbage-collection
	// deadline: the point after which the entry can no longer influence a
	// verdict (window and trailing cooldown both elapsed).
	Put(ctx context.Context, entry *Entry, ttl time.Duration) error

	// Delete removes the entry if present.
	Delete(ctx context.Context, userID int64, action string) error

	// Purge drops expired entries. Backends with native expiry may treat
	// this as a no-op.
	Purge(ctx context.Context) error
}
