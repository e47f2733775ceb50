package storage

import (
	"context"
	"database/sql"

	"github.com/keywarden-io/keywarden/internal/passlock"
	"github.com/keywarden-io/keywarden/internal/wallet"
)

// InMemoryManager keeps all records in process-local maps. State does not
// survive a restart; that is the documented trade-off of the default setup,
// not a defect.
type InMemoryManager struct {
	wallets     *wallet.InMemoryRepository
	passphrases *passlock.InMemoryRepository
}

func NewInMemoryManager() *InMemoryManager {
	return &InMemoryManager{
		wallets:     wallet.NewInMemoryRepository(),
		passphrases: passlock.NewInMemoryRepository(),
	}
}

func (m *InMemoryManager) Wallets() wallet.Repository {
	return m.wallets
}

func (m *InMemoryManager) Passphrases() passlock.Repository {
	return m.passphrases
}

func (m *InMemoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryManager) Conn() *sql.DB {
	return nil
}

func (m *InMemoryManager) Close() error {
	return nil
}
