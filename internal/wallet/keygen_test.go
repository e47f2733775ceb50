package wallet

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

func TestGenerate_WellFormed(t *testing.T) {
	keypair, err := Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(keypair.Address, "0x") || len(keypair.Address) != 42 {
		t.Fatalf("malformed address: %q", keypair.Address)
	}

	raw, err := hex.DecodeString(keypair.PrivateKey)
	if err != nil {
		t.Fatalf("private key is not hex: %v", err)
	}
	if len(raw) != 32 {
		t.Fatalf("expected 32-byte private key, got %d", len(raw))
	}

	if !bip39.IsMnemonicValid(keypair.Mnemonic) {
		t.Fatalf("invalid mnemonic: %q", keypair.Mnemonic)
	}
	if words := strings.Fields(keypair.Mnemonic); len(words) != 12 {
		t.Fatalf("expected 12-word mnemonic, got %d words", len(words))
	}
}

func TestGenerate_UniquePerCall(t *testing.T) {
	a, err := Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.PrivateKey == b.PrivateKey {
		t.Fatalf("two generations produced the same private key")
	}
	if a.Address == b.Address {
		t.Fatalf("two generations produced the same address")
	}
	if a.Mnemonic == b.Mnemonic {
		t.Fatalf("two generations produced the same mnemonic")
	}
}

func TestGenerate_MnemonicRecoversKey(t *testing.T) {
	keypair, err := Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seed := bip39.NewSeed(keypair.Mnemonic, "")
	recovered, err := crypto.ToECDSA(seed[:32])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hex.EncodeToString(crypto.FromECDSA(recovered)) != keypair.PrivateKey {
		t.Fatalf("mnemonic does not re-derive the private key")
	}
	if crypto.PubkeyToAddress(recovered.PublicKey).Hex() != keypair.Address {
		t.Fatalf("mnemonic does not re-derive the address")
	}
}
