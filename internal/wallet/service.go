package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/keywarden-io/keywarden/internal/common"
	"github.com/keywarden-io/keywarden/internal/cryptox"
)

// generateKeypair is a seam for tests that need deterministic key material.
var generateKeypair = Generate

// Service owns wallet records: creation, decrypt-on-demand disclosure,
// re-wrapping under new credentials, and removal. The secret passed in is
// either the user's passphrase bytes or the per-user fallback secret; which
// one applies is the caller's decision.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create generates a keypair and stores it sealed under secret. The
// returned CreatedWallet carries the only plaintext copy of the key and
// mnemonic the vault ever volunteers; afterwards they are available solely
// through PrivateKey and Mnemonic.
//
// Returns common.ErrAlreadyExists when the user already holds a wallet.
func (s *Service) Create(ctx context.Context, userID int64, secret []byte, hasPassphrase bool) (*CreatedWallet, error) {
	// cheap pre-check; the repository enforces uniqueness atomically
	_, err := s.repo.Get(ctx, userID)
	if err == nil {
		return nil, common.ErrAlreadyExists
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("loading wallet record: %w", err)
	}

	keypair, err := generateKeypair()
	if err != nil {
		return nil, fmt.Errorf("generating keypair: %w", err)
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	params := cryptox.DefaultKDFParams()

	key, err := cryptox.DeriveKey(secret, salt, params)
	if err != nil {
		return nil, fmt.Errorf("deriving encryption key: %w", err)
	}
	defer common.WipeByteArray(key)

	privateKey, err := cryptox.Seal([]byte(keypair.PrivateKey), key, salt)
	if err != nil {
		return nil, fmt.Errorf("sealing private key: %w", err)
	}
	mnemonic, err := cryptox.Seal([]byte(keypair.Mnemonic), key, salt)
	if err != nil {
		return nil, fmt.Errorf("sealing mnemonic: %w", err)
	}

	record := &Record{
		ID:            uuid.NewString(),
		UserID:        userID,
		Address:       keypair.Address,
		PrivateKey:    *privateKey,
		Mnemonic:      *mnemonic,
		Salt:          salt,
		Params:        params,
		HasPassphrase: hasPassphrase,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("storing wallet record: %w", err)
	}

	return &CreatedWallet{
		Address:       keypair.Address,
		PrivateKey:    keypair.PrivateKey,
		Mnemonic:      keypair.Mnemonic,
		HasPassphrase: hasPassphrase,
	}, nil
}

// PrivateKey decrypts and returns the stored private key.
//
// Fails with common.ErrNotFound when the user has no wallet and with
// common.ErrDecryptionFailed when the blob does not authenticate under the
// derived key (wrong secret, or a corrupted record).
func (s *Service) PrivateKey(ctx context.Context, userID int64, secret []byte) (string, error) {
	return s.open(ctx, userID, secret, func(r *Record) *cryptox.Envelope { return &r.PrivateKey })
}

// Mnemonic decrypts and returns the stored recovery phrase. Same error
// contract as PrivateKey; both blobs sit under the same salt and key.
func (s *Service) Mnemonic(ctx context.Context, userID int64, secret []byte) (string, error) {
	return s.open(ctx, userID, secret, func(r *Record) *cryptox.Envelope { return &r.Mnemonic })
}

func (s *Service) open(ctx context.Context, userID int64, secret []byte, pick func(*Record) *cryptox.Envelope) (string, error) {
	record, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("loading wallet record: %w", err)
	}

	// always the record's stored snapshot, never the live defaults
	key, err := cryptox.DeriveKey(secret, record.Salt, record.Params)
	if err != nil {
		return "", fmt.Errorf("deriving encryption key: %w", err)
	}
	defer common.WipeByteArray(key)

	plaintext, err := cryptox.Open(pick(record), key, record.Salt)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// Rewrap decrypts both blobs under oldSecret and re-seals them under
// newSecret with a fresh salt and the current default KDF parameters. The
// record is replaced wholesale so rotation never orphans old ciphertext.
func (s *Service) Rewrap(ctx context.Context, userID int64, oldSecret, newSecret []byte, hasPassphrase bool) error {
	record, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("loading wallet record: %w", err)
	}

	oldKey, err := cryptox.DeriveKey(oldSecret, record.Salt, record.Params)
	if err != nil {
		return fmt.Errorf("deriving current key: %w", err)
	}
	defer common.WipeByteArray(oldKey)

	privateKey, err := cryptox.Open(&record.PrivateKey, oldKey, record.Salt)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(privateKey)

	mnemonic, err := cryptox.Open(&record.Mnemonic, oldKey, record.Salt)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(mnemonic)

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	params := cryptox.DefaultKDFParams()

	newKey, err := cryptox.DeriveKey(newSecret, salt, params)
	if err != nil {
		return fmt.Errorf("deriving replacement key: %w", err)
	}
	defer common.WipeByteArray(newKey)

	sealedKey, err := cryptox.Seal(privateKey, newKey, salt)
	if err != nil {
		return fmt.Errorf("re-sealing private key: %w", err)
	}
	sealedMnemonic, err := cryptox.Seal(mnemonic, newKey, salt)
	if err != nil {
		return fmt.Errorf("re-sealing mnemonic: %w", err)
	}

	record.PrivateKey = *sealedKey
	record.Mnemonic = *sealedMnemonic
	record.Salt = salt
	record.Params = params
	record.HasPassphrase = hasPassphrase

	if err := s.repo.Replace(ctx, record); err != nil {
		return fmt.Errorf("replacing wallet record: %w", err)
	}

	return nil
}

// View returns the public projection of the user's wallet, or
// common.ErrNotFound.
func (s *Service) View(ctx context.Context, userID int64) (*View, error) {
	record, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("loading wallet record: %w", err)
	}

	return &View{
		Address:       record.Address,
		HasPassphrase: record.HasPassphrase,
		CreatedAt:     record.CreatedAt,
	}, nil
}

// Remove deletes the user's wallet record. Returns false when there was
// nothing to delete.
func (s *Service) Remove(ctx context.Context, userID int64) (bool, error) {
	err := s.repo.Delete(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("deleting wallet record: %w", err)
	}
	return true, nil
}
