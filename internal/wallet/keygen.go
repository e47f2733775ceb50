package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

// entropyBits sizes the mnemonic: 128 bits make a 12-word phrase.
const entropyBits = 128

const maxKeygenAttempts = 5

// Generate produces a fresh keypair: a BIP-39 mnemonic, the secp256k1
// private key taken from the first 32 bytes of its seed, and the matching
// 0x address. The private key is returned hex-encoded without a 0x prefix.
//
// A seed slice can in principle fall outside the curve order; the loop
// retries with fresh entropy in that case.
func Generate() (*Keypair, error) {
	for attempt := 0; attempt < maxKeygenAttempts; attempt++ {
		entropy, err := bip39.NewEntropy(entropyBits)
		if err != nil {
			return nil, fmt.Errorf("generating entropy: %w", err)
		}

		mnemonic, err := bip39.NewMnemonic(entropy)
		if err != nil {
			return nil, fmt.Errorf("building mnemonic: %w", err)
		}

		seed := bip39.NewSeed(mnemonic, "")

		privateKey, err := crypto.ToECDSA(seed[:32])
		if err != nil {
			continue
		}

		return &Keypair{
			Address:    crypto.PubkeyToAddress(privateKey.PublicKey).Hex(),
			PrivateKey: hex.EncodeToString(crypto.FromECDSA(privateKey)),
			Mnemonic:   mnemonic,
		}, nil
	}

	return nil, errors.New("no valid key material after retries")
}
