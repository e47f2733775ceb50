package passlock

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/keywarden-io/keywarden/internal/common"
	"github.com/keywarden-io/keywarden/internal/cryptox"
)

// DefaultMinLength is the passphrase policy applied when the configured
// minimum is zero or negative.
const DefaultMinLength = 8

// Service manages per-user passphrases: establishing them, replacing them,
// and verifying candidates in constant time.
type Service struct {
	repo      Repository
	minLength int
}

func NewService(repo Repository, minLength int) *Service {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return &Service{repo: repo, minLength: minLength}
}

// Set establishes or replaces the passphrase for userID. A fresh salt and
// the current default KDF parameters are used for the new hash, so rotating
// a passphrase also upgrades its hashing cost.
func (s *Service) Set(ctx context.Context, userID int64, passphrase string) error {
	if err := s.CheckPolicy(passphrase); err != nil {
		return err
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	params := cryptox.DefaultKDFParams()

	hash, err := cryptox.DeriveKey([]byte(passphrase), salt, params)
	if err != nil {
		return fmt.Errorf("deriving verification hash: %w", err)
	}

	now := time.Now()
	record := &Record{
		UserID:    userID,
		Hash:      hash,
		Salt:      salt,
		Params:    params,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return fmt.Errorf("saving passphrase record: %w", err)
	}

	return nil
}

// Verify reports whether candidate matches the stored passphrase. It fails
// closed: no stored record means false. The candidate hash is derived with
// the record's stored salt and KDF snapshot and compared in constant time.
func (s *Service) Verify(ctx context.Context, userID int64, candidate string) (bool, error) {
	record, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("loading passphrase record: %w", err)
	}

	hash, err := cryptox.DeriveKey([]byte(candidate), record.Salt, record.Params)
	if err != nil {
		return false, fmt.Errorf("deriving candidate hash: %w", err)
	}

	return subtle.ConstantTimeCompare(record.Hash, hash) == 1, nil
}

// Has reports whether a passphrase is established for userID.
func (s *Service) Has(ctx context.Context, userID int64) (bool, error) {
	_, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("loading passphrase record: %w", err)
	}
	return true, nil
}

// Clear removes the stored passphrase for userID. Returns false when no
// record existed, so callers can treat it as idempotent.
func (s *Service) Clear(ctx context.Context, userID int64) (bool, error) {
	err := s.repo.Delete(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("deleting passphrase record: %w", err)
	}
	return true, nil
}

// CheckPolicy validates a candidate passphrase against the length policy
// without storing anything. Callers that re-encrypt data under a new
// passphrase use it to reject the passphrase before any work is done.
func (s *Service) CheckPolicy(passphrase string) error {
	if utf8.RuneCountInString(passphrase) < s.minLength {
		return fmt.Errorf("%w: shorter than %d characters", common.ErrInvalidPassphrase, s.minLength)
	}
	return nil
}
