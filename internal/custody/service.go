// Package custody is the in-process API of the wallet subsystem. It
// composes the vault, the passphrase store and the disclosure limiter, and
// owns the per-user serialization the lower layers do not provide: all
// methods are safe for concurrent use, with same-user operations queued on
// striped locks so rate-limiter updates and record rewrites never race.
package custody

import (
	"context"
	"errors"
	"fmt"

	"github.com/keywarden-io/keywarden/internal/common"
	"github.com/keywarden-io/keywarden/internal/cryptox"
	"github.com/keywarden-io/keywarden/internal/logging"
	"github.com/keywarden-io/keywarden/internal/passlock"
	"github.com/keywarden-io/keywarden/internal/ratelimit"
	"github.com/keywarden-io/keywarden/internal/wallet"
)

type Service struct {
	wallets     *wallet.Service
	passphrases *passlock.Service
	limiter     *ratelimit.Limiter
	pepper      []byte
	log         logging.Logger
	locks       userLocks
}

// NewService wires the facade. The pepper feeds the deterministic fallback
// secret that protects wallets whose owner declined a passphrase.
func NewService(wallets *wallet.Service, passphrases *passlock.Service, limiter *ratelimit.Limiter, pepper []byte, log logging.Logger) *Service {
	return &Service{
		wallets:     wallets,
		passphrases: passphrases,
		limiter:     limiter,
		pepper:      pepper,
		log:         log,
	}
}

// CreateWallet generates and stores a wallet for userID. When the user has
// a passphrase established it must match; when none is established, a
// non-empty passphrase is adopted as the user's passphrase and an empty one
// selects the basic protection tier. The returned plaintext secrets are
// volunteered exactly once, here.
func (s *Service) CreateWallet(ctx context.Context, userID int64, passphrase string) (*wallet.CreatedWallet, error) {
	mu := s.locks.forUser(userID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.gate(ctx, userID, ActionCreateWallet); err != nil {
		return nil, err
	}

	if _, err := s.wallets.View(ctx, userID); err == nil {
		return nil, common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	established, err := s.passphrases.Has(ctx, userID)
	if err != nil {
		return nil, err
	}

	var secret []byte
	hasPassphrase := false
	switch {
	case established:
		ok, err := s.passphrases.Verify(ctx, userID, passphrase)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.charge(ctx, userID, ActionCreateWallet)
			s.log.Warn(ctx, "wallet creation rejected, passphrase mismatch", "user_id", userID)
			return nil, common.ErrInvalidPassphrase
		}
		secret, hasPassphrase = []byte(passphrase), true
	case passphrase != "":
		if err := s.passphrases.Set(ctx, userID, passphrase); err != nil {
			return nil, err
		}
		secret, hasPassphrase = []byte(passphrase), true
	default:
		secret = cryptox.DeriveFallbackSecret(s.pepper, userID)
	}

	created, err := s.wallets.Create(ctx, userID, secret, hasPassphrase)
	if err != nil {
		return nil, err
	}

	s.charge(ctx, userID, ActionCreateWallet)
	s.log.Info(ctx, "wallet created",
		"user_id", userID, "address", created.Address, "passphrase_protected", hasPassphrase)

	return created, nil
}

// ExportKey discloses the decrypted private key. The limiter gate runs
// before the not-found / wrong-passphrase distinction is revealed, so a
// throttled caller learns nothing about the record.
func (s *Service) ExportKey(ctx context.Context, userID int64, passphrase string) (string, error) {
	return s.export(ctx, userID, passphrase, ActionExportKey, s.wallets.PrivateKey)
}

// ExportMnemonic discloses the decrypted recovery phrase under the same
// gating as ExportKey.
func (s *Service) ExportMnemonic(ctx context.Context, userID int64, passphrase string) (string, error) {
	return s.export(ctx, userID, passphrase, ActionExportMnemonic, s.wallets.Mnemonic)
}

func (s *Service) export(ctx context.Context, userID int64, passphrase, action string, disclose func(context.Context, int64, []byte) (string, error)) (string, error) {
	mu := s.locks.forUser(userID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.gate(ctx, userID, action); err != nil {
		return "", err
	}

	view, err := s.wallets.View(ctx, userID)
	if err != nil {
		return "", err
	}

	secret, err := s.resolveSecret(ctx, userID, view.HasPassphrase, passphrase, action)
	if err != nil {
		return "", err
	}

	value, err := disclose(ctx, userID, secret)
	if err != nil {
		if errors.Is(err, common.ErrDecryptionFailed) {
			// credentials verified, so this is corruption or a parameter
			// mismatch, not user error
			s.log.Error(ctx, "stored blob failed authentication", "user_id", userID, "action", action)
		}
		return "", err
	}

	s.charge(ctx, userID, action)
	s.log.Info(ctx, "secret disclosed", "user_id", userID, "action", action)

	return value, nil
}

// SetPassphrase establishes, replaces or clears the user's passphrase; an
// empty next passphrase selects the basic tier. When a wallet exists its
// blobs are re-sealed under the new credentials in the same call, so no
// ciphertext is ever left behind under retired ones.
func (s *Service) SetPassphrase(ctx context.Context, userID int64, current, next string) error {
	mu := s.locks.forUser(userID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.gate(ctx, userID, ActionSetPassphrase); err != nil {
		return err
	}

	view, err := s.wallets.View(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		return s.setPassphraseNoWallet(ctx, userID, current, next)
	}
	if err != nil {
		return err
	}

	hasNext := next != ""
	if !view.HasPassphrase && !hasNext {
		// already on the basic tier, nothing to rotate
		return nil
	}

	oldSecret, err := s.resolveSecret(ctx, userID, view.HasPassphrase, current, ActionSetPassphrase)
	if err != nil {
		return err
	}

	var newSecret []byte
	if hasNext {
		if err := s.passphrases.CheckPolicy(next); err != nil {
			return err
		}
		newSecret = []byte(next)
	} else {
		newSecret = cryptox.DeriveFallbackSecret(s.pepper, userID)
	}

	if err := s.wallets.Rewrap(ctx, userID, oldSecret, newSecret, hasNext); err != nil {
		if errors.Is(err, common.ErrDecryptionFailed) {
			s.log.Error(ctx, "stored blob failed authentication during rotation", "user_id", userID)
		}
		return err
	}

	if hasNext {
		if err := s.passphrases.Set(ctx, userID, next); err != nil {
			return err
		}
	} else if _, err := s.passphrases.Clear(ctx, userID); err != nil {
		return err
	}

	s.charge(ctx, userID, ActionSetPassphrase)
	s.log.Info(ctx, "passphrase rotated", "user_id", userID, "passphrase_protected", hasNext)

	return nil
}

// setPassphraseNoWallet manages the passphrase record on its own, for users
// who establish one before creating a wallet.
func (s *Service) setPassphraseNoWallet(ctx context.Context, userID int64, current, next string) error {
	established, err := s.passphrases.Has(ctx, userID)
	if err != nil {
		return err
	}

	if established {
		ok, err := s.passphrases.Verify(ctx, userID, current)
		if err != nil {
			return err
		}
		if !ok {
			s.charge(ctx, userID, ActionSetPassphrase)
			s.log.Warn(ctx, "passphrase verification failed", "user_id", userID, "action", ActionSetPassphrase)
			return common.ErrInvalidPassphrase
		}
	}

	if next == "" {
		if !established {
			return nil
		}
		if _, err := s.passphrases.Clear(ctx, userID); err != nil {
			return err
		}
	} else if err := s.passphrases.Set(ctx, userID, next); err != nil {
		return err
	}

	s.charge(ctx, userID, ActionSetPassphrase)
	s.log.Info(ctx, "passphrase set", "user_id", userID, "passphrase_protected", next != "")

	return nil
}

// VerifyPassphrase reports whether candidate matches the user's stored
// passphrase. A pure read; it never charges the limiter.
func (s *Service) VerifyPassphrase(ctx context.Context, userID int64, candidate string) (bool, error) {
	return s.passphrases.Verify(ctx, userID, candidate)
}

// HasPassphrase reports whether the user has a passphrase established.
func (s *Service) HasPassphrase(ctx context.Context, userID int64) (bool, error) {
	return s.passphrases.Has(ctx, userID)
}

// RemoveWallet deletes the user's wallet and passphrase records. Idempotent:
// removing an absent wallet reports false without error. Limiter state is
// kept, so removing and recreating a wallet does not reset export budgets.
func (s *Service) RemoveWallet(ctx context.Context, userID int64) (bool, error) {
	mu := s.locks.forUser(userID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.gate(ctx, userID, ActionRemoveWallet); err != nil {
		return false, err
	}

	removedWallet, err := s.wallets.Remove(ctx, userID)
	if err != nil {
		return false, err
	}
	clearedPass, err := s.passphrases.Clear(ctx, userID)
	if err != nil {
		return false, err
	}

	removed := removedWallet || clearedPass
	if removed {
		s.charge(ctx, userID, ActionRemoveWallet)
		s.log.Info(ctx, "wallet removed", "user_id", userID)
	}

	return removed, nil
}

// View returns the public, non-secret projection of the user's wallet, or
// common.ErrNotFound.
func (s *Service) View(ctx context.Context, userID int64) (*wallet.View, error) {
	return s.wallets.View(ctx, userID)
}

// CheckLimit previews the limiter verdict for an action without charging it.
func (s *Service) CheckLimit(ctx context.Context, userID int64, action string) (*ratelimit.Verdict, error) {
	return s.limiter.Check(ctx, userID, action)
}

// RecordAttempt charges one attempt of an action. Exposed for actions the
// bot layer gates itself, such as relayed transactions.
func (s *Service) RecordAttempt(ctx context.Context, userID int64, action string) error {
	mu := s.locks.forUser(userID)
	mu.Lock()
	defer mu.Unlock()

	return s.limiter.Record(ctx, userID, action)
}

// Cleanup drops expired limiter entries. Advisory housekeeping, safe to run
// on any cadence.
func (s *Service) Cleanup(ctx context.Context) error {
	return s.limiter.Cleanup(ctx)
}

// gate refuses the operation while the limiter denies the action. Limiter
// infrastructure errors also refuse: the gate fails closed.
func (s *Service) gate(ctx context.Context, userID int64, action string) error {
	verdict, err := s.limiter.Check(ctx, userID, action)
	if err != nil {
		return fmt.Errorf("rate limit check: %w", err)
	}
	if !verdict.Allowed {
		s.log.Warn(ctx, "action denied by limiter",
			"user_id", userID, "action", action, "reason", verdict.Reason, "retry_after", verdict.RetryAfter)
		return &LimitError{Action: action, Reason: verdict.Reason, RetryAfter: verdict.RetryAfter}
	}
	return nil
}

// charge records an attempt after the fact. The action already happened, so
// a failing store is logged rather than surfaced.
func (s *Service) charge(ctx context.Context, userID int64, action string) {
	if err := s.limiter.Record(ctx, userID, action); err != nil {
		s.log.Error(ctx, "recording rate limit attempt", "user_id", userID, "action", action, "error", err)
	}
}

// resolveSecret turns the caller-supplied passphrase into the encryption
// secret for a stored wallet. Failed verification charges the action: wrong
// guesses are exactly what the limiter meters.
func (s *Service) resolveSecret(ctx context.Context, userID int64, required bool, passphrase, action string) ([]byte, error) {
	if !required {
		return cryptox.DeriveFallbackSecret(s.pepper, userID), nil
	}

	ok, err := s.passphrases.Verify(ctx, userID, passphrase)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.charge(ctx, userID, action)
		s.log.Warn(ctx, "passphrase verification failed", "user_id", userID, "action", action)
		return nil, common.ErrInvalidPassphrase
	}

	return []byte(passphrase), nil
}
