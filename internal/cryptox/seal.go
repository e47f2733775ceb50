package cryptox

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/keywarden-io/keywarden/internal/common"
)

// Envelope carries one AES-GCM encryption result. The authentication tag is
// split off the ciphertext so storage can persist the three parts as
// separate fields.
type Envelope struct {
	Ciphertext []byte
	Nonce      []byte
	Tag        []byte
}

// Seal encrypts plaintext with AES-GCM under key. The key must be a valid
// AES key length (32 bytes for AES-256). A fresh random nonce is generated
// for every call.
//
// aad is authenticated without being encrypted. Pass the record's KDF salt
// here, so an attacker who swaps salts between records breaks the tag.
//
// Example:
//
//	key, _ := DeriveKey(secret, salt, DefaultKDFParams())
//	env, err := Seal([]byte("mnemonic words"), key, salt)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Seal(plaintext, key, aad []byte) (*Envelope, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	sealed := aesgcm.Seal(nil, nonce, plaintext, aad)

	// gcm appends the tag to the ciphertext
	split := len(sealed) - aesgcm.Overhead()
	return &Envelope{
		Ciphertext: sealed[:split],
		Nonce:      nonce,
		Tag:        sealed[split:],
	}, nil
}

// Open decrypts an envelope produced by Seal. Every authentication failure,
// whether from a wrong key, different aad, or modified bytes, is reported as
// common.ErrDecryptionFailed without further detail.
func Open(env *Envelope, key, aad []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	// gcm panics on a wrong-size nonce; a corrupt record must not take the
	// process down
	if len(env.Nonce) != aesgcm.NonceSize() {
		return nil, common.ErrDecryptionFailed
	}

	sealed := make([]byte, 0, len(env.Ciphertext)+len(env.Tag))
	sealed = append(sealed, env.Ciphertext...)
	sealed = append(sealed, env.Tag...)

	plaintext, err := aesgcm.Open(nil, env.Nonce, sealed, aad)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}

	return plaintext, nil
}
