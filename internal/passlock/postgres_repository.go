package passlock

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
		`SELECT user_id, hash, salt, kdf_algorithm, kdf_time, kdf_memory_kib, kdf_threads, kdf_key_len, created_at, updated_at
		 FROM passphrases
		 WHERE user_id = $1
		 `

	record := &Record{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&record.UserID, &record.Hash, &record.Salt,
		&record.Params.Algorithm, &record.Params.Time, &record.Params.MemoryKiB,
		&record.Params.Threads, &record.Params.KeyLen,
		&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return record, nil
}

func (r *PostgresRepository) Save(ctx context.Context, record *Record) error {
	query :=
		`INSERT INTO passphrases (user_id, hash, salt, kdf_algorithm, kdf_time, kdf_memory_kib, kdf_threads, kdf_key_len, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (user_id) DO UPDATE SET
		   hash = EXCLUDED.hash,
		   salt = EXCLUDED.salt,
		   kdf_algorithm = EXCLUDED.kdf_algorithm,
		   kdf_time = EXCLUDED.kdf_time,
		   kdf_memory_kib = EXCLUDED.kdf_memory_kib,
		   kdf_threads = EXCLUDED.kdf_threads,
		   kdf_key_len = EXCLUDED.kdf_key_len,
		   updated_at = EXCLUDED.updated_at
		 `

	_, err := r.db.ExecContext(ctx, query,
		record.UserID, record.Hash, record.Salt,
		record.Params.Algorithm, record.Params.Time, record.Params.MemoryKiB,
		record.Params.Threads, record.Params.KeyLen,
		record.CreatedAt, record.UpdatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID int64) error {
	query :=
		`DELETE FROM passphrases
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
