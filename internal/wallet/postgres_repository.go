package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keywarden-io/keywarden/internal/common"
	"github.com/keywarden-io/keywarden/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*Record, error) {
	query :=
		`SELECT id, user_id, address,
		        private_key_ciphertext, private_key_nonce, private_key_tag,
		        mnemonic_ciphertext, mnemonic_nonce, mnemonic_tag,
		        salt, kdf_algorithm, kdf_time, kdf_memory_kib, kdf_threads, kdf_key_len,
		        has_passphrase, created_at
		 FROM wallets
		 WHERE user_id = $1
		 `

	record := &Record{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&record.ID, &record.UserID, &record.Address,
		&record.PrivateKey.Ciphertext, &record.PrivateKey.Nonce, &record.PrivateKey.Tag,
		&record.Mnemonic.Ciphertext, &record.Mnemonic.Nonce, &record.Mnemonic.Tag,
		&record.Salt, &record.Params.Algorithm, &record.Params.Time,
		&record.Params.MemoryKiB, &record.Params.Threads, &record.Params.KeyLen,
		&record.HasPassphrase, &record.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return record, nil
}

func (r *PostgresRepository) Create(ctx context.Context, record *Record) error {
	query :=
		`INSERT INTO wallets (id, user_id, address,
		   private_key_ciphertext, private_key_nonce, private_key_tag,
		   mnemonic_ciphertext, mnemonic_nonce, mnemonic_tag,
		   salt, kdf_algorithm, kdf_time, kdf_memory_kib, kdf_threads, kdf_key_len,
		   has_passphrase, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 ON CONFLICT (user_id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		record.ID, record.UserID, record.Address,
		record.PrivateKey.Ciphertext, record.PrivateKey.Nonce, record.PrivateKey.Tag,
		record.Mnemonic.Ciphertext, record.Mnemonic.Nonce, record.Mnemonic.Tag,
		record.Salt, record.Params.Algorithm, record.Params.Time,
		record.Params.MemoryKiB, record.Params.Threads, record.Params.KeyLen,
		record.HasPassphrase, record.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrAlreadyExists
	}

	return nil
}

func (r *PostgresRepository) Replace(ctx context.Context, record *Record) error {
	query :=
		`UPDATE wallets SET
		   address = $2,
		   private_key_ciphertext = $3, private_key_nonce = $4, private_key_tag = $5,
		   mnemonic_ciphertext = $6, mnemonic_nonce = $7, mnemonic_tag = $8,
		   salt = $9, kdf_algorithm = $10, kdf_time = $11, kdf_memory_kib = $12,
		   kdf_threads = $13, kdf_key_len = $14, has_passphrase = $15
		 WHERE user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		record.UserID, record.Address,
		record.PrivateKey.Ciphertext, record.PrivateKey.Nonce, record.PrivateKey.Tag,
		record.Mnemonic.Ciphertext, record.Mnemonic.Nonce, record.Mnemonic.Tag,
		record.Salt, record.Params.Algorithm, record.Params.Time,
		record.Params.MemoryKiB, record.Params.Threads, record.Params.KeyLen,
		record.HasPassphrase)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID int64) error {
	query :=
		`DELETE FROM wallets
		 WHERE user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}
