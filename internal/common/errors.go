// Package common defines shared helpers and sentinel errors used across
// KeyWarden components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Passphrase errors (failed verification and policy violations).
	ErrInvalidPassphrase = errors.New("invalid passphrase")

	// Crypto errors. ErrDecryptionFailed covers both a wrong key and a
	// tampered envelope; AES-GCM cannot tell the two apart.
	ErrDecryptionFailed = errors.New("decryption failed")

	// Rate-limit errors. ErrRateLimited means the per-window budget is
	// spent, ErrCooldown means a penalty period is still running.
	ErrRateLimited = errors.New("rate limited")
	ErrCooldown    = errors.New("cooldown active")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")
)
