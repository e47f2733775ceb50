package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"strconv"

	"golang.org/x/crypto/argon2"
)

// DeriveKey stretches secret into a p.KeyLen-byte key using the algorithm
// recorded in p. Callers decrypting a stored record must pass the record's
// own parameter snapshot, not the current defaults.
func DeriveKey(secret, salt []byte, p KDFParams) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return argon2.IDKey(secret, salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen), nil
}

// DeriveFallbackSecret produces the deterministic per-user secret that
// protects wallets without a passphrase. It is an HMAC-SHA256 of the user id
// under the service pepper: stable across restarts, but useless to an
// attacker holding only the database.
func DeriveFallbackSecret(pepper []byte, userID int64) []byte {
	mac := hmac.New(sha256.New, pepper)
	mac.Write([]byte(strconv.FormatInt(userID, 10)))
	return mac.Sum(nil)
}
