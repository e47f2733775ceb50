package passlock

import (
	"context"
)

type Repository interface {
	// Get returns the record for userID or common.ErrNotFound.
	Get(ctx context.Context, userID int64) (*Record, error)

	// Save inserts or replaces the record for record.UserID. An existing
	// record keeps its CreatedAt.
	Save(ctx context.Context, record *Record) error

	// Delete removes the record for userID. Returns common.ErrNotFound if
	// there was nothing to delete.
	Delete(ctx context.Context, userID int64) error
}
