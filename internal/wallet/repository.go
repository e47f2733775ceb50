package wallet

import (
	"context"
)

type Repository interface {
	// Get returns the record for userID or common.ErrNotFound.
	Get(ctx context.Context, userID int64) (*Record, error)

	// Create stores a new record. Returns common.ErrAlreadyExists when the
	// user already has one; the check and insert are atomic.
	Create(ctx context.Context, record *Record) error

	// Replace swaps the stored record for record.UserID wholesale. Returns
	// common.ErrNotFound when there is nothing to replace.
	Replace(ctx context.Context, record *Record) error

	// Delete removes the record for userID. Returns common.ErrNotFound if
	// there was nothing to delete.
	Delete(ctx context.Context, userID int64) error
}
