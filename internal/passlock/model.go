package passlock

import (
	"time"

	"github.com/keywarden-io/keywarden/internal/cryptox"
)

// Record holds the verification material for one user's passphrase. The
// passphrase itself is never stored, only an Argon2id hash of it under a
// dedicated salt. Params is the KDF snapshot the hash was derived with.
type Record struct {
	UserID    int64
	Hash      []byte
	Salt      []byte
	Params    cryptox.KDFParams
	CreatedAt time.Time
	UpdatedAt time.Time
}
