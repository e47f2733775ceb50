package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/keywarden-io/keywarden/internal/passlock"
	"github.com/keywarden-io/keywarden/internal/storage/migrations"
	"github.com/keywarden-io/keywarden/internal/wallet"
)

// PostgresManager backs the repositories with PostgreSQL through the pgx
// stdlib driver. The schema is applied with embedded goose migrations.
type PostgresManager struct {
	db          *sql.DB
	wallets     *wallet.PostgresRepository
	passphrases *passlock.PostgresRepository
}

// gooseUpContext is a seam for testing RunMigrations.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// NewPostgresManager opens the database, applies migrations and wires the
// repositories.
func NewPostgresManager(ctx context.Context, dsn string) (*PostgresManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresManager{
		db:          db,
		wallets:     wallet.NewPostgresRepository(db),
		passphrases: passlock.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}

func (m *PostgresManager) Wallets() wallet.Repository {
	return m.wallets
}

func (m *PostgresManager) Passphrases() passlock.Repository {
	return m.passphrases
}

// RunMigrations sets up goose with the embedded migrations and applies any
// that are still pending.
func (m *PostgresManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	return gooseUpContext(ctx, m.db, ".")
}

func (m *PostgresManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresManager) Close() error {
	return m.db.Close()
}
