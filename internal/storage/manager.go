// Package storage vends repository implementations behind a single Manager
// interface, so the rest of the application never knows which backend it is
// running on. The in-memory manager is the default; Postgres is selected by
// configuring a DSN.
package storage

import (
	"context"
	"database/sql"

	"github.com/keywarden-io/keywarden/internal/passlock"
	"github.com/keywarden-io/keywarden/internal/wallet"
)

type Manager interface {
	Wallets() wallet.Repository
	Passphrases() passlock.Repository
	RunMigrations(ctx context.Context) error
	Conn() *sql.DB
	Close() error
}
