package wallet

import (
	"time"

	"github.com/keywarden-io/keywarden/internal/cryptox"
)

// Record is one user's stored wallet. Both blobs are sealed under the same
// derived key and Salt; Params is the KDF snapshot frozen at encryption
// time. Records are never mutated in place: passphrase rotation builds a
// replacement with a fresh salt and re-sealed blobs.
type Record struct {
	ID            string
	UserID        int64
	Address       string
	PrivateKey    cryptox.Envelope
	Mnemonic      cryptox.Envelope
	Salt          []byte
	Params        cryptox.KDFParams
	HasPassphrase bool
	CreatedAt     time.Time
}

// Keypair is freshly generated key material before it is sealed.
type Keypair struct {
	Address    string
	PrivateKey string
	Mnemonic   string
}

// CreatedWallet is returned exactly once, from Create. It is the only time
// the vault hands out plaintext key material without a disclosure request.
type CreatedWallet struct {
	Address       string
	PrivateKey    string
	Mnemonic      string
	HasPassphrase bool
}

// View is the public projection of a stored wallet.
type View struct {
	Address       string
	HasPassphrase bool
	CreatedAt     time.Time
}
