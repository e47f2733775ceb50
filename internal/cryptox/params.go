// Package cryptox implements the cryptographic core: Argon2id key
// derivation with persisted parameters, AES-256-GCM sealing with detached
// tags, and the deterministic fallback secret for records that have no
// passphrase.
package cryptox

import "fmt"

// Algorithm identifiers accepted in KDFParams.
const AlgorithmArgon2id = "argon2id"

// SaltSize is the length in bytes of per-record KDF salts.
const SaltSize = 16

// KDFParams records the key-derivation settings a record was written with.
// They are persisted next to the ciphertext, and decryption always uses the
// stored copy, so records written under older defaults keep decrypting after
// the defaults change.
type KDFParams struct {
	Algorithm string `json:"algorithm"`
	Time      uint32 `json:"time"`
	MemoryKiB uint32 `json:"memory_kib"`
	Threads   uint8  `json:"threads"`
	KeyLen    uint32 `json:"key_len"`
}

// DefaultKDFParams returns the parameters applied to newly written records.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Algorithm: AlgorithmArgon2id,
		Time:      1,
		MemoryKiB: 64 * 1024,
		Threads:   4,
		KeyLen:    32,
	}
}

// Validate reports whether the parameters can be passed to the KDF. Argon2
// panics on zero rounds or zero parallelism, so corrupt stored parameters
// must be rejected before derivation.
func (p KDFParams) Validate() error {
	if p.Algorithm != AlgorithmArgon2id {
		return fmt.Errorf("unsupported kdf algorithm %q", p.Algorithm)
	}
	if p.Time < 1 || p.Threads < 1 || p.KeyLen < 1 {
		return fmt.Errorf("invalid kdf parameters: time=%d threads=%d key_len=%d",
			p.Time, p.Threads, p.KeyLen)
	}
	return nil
}
