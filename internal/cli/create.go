package cli

import (
	"context"
	"os"

	"github.com/keywarden-io/keywarden/internal/common"
)

// getSimpleText and getPassphrase are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var getSimpleText = GetSimpleText
var getPassphrase = GetPassphrase

// CreateWallet generates a wallet for the selected user and prints the
// one-time plaintext disclosure of its address, private key and mnemonic.
//
// An empty passphrase selects basic protection. If the user already
// established a passphrase earlier, that passphrase must be entered here.
func (a *App) CreateWallet(ctx context.Context) error {
	if !a.hasUser() {
		printlnFn("No user selected. Run: use <user-id>")
		return errNoUser
	}

	passphrase, err := getPassphrase("Enter passphrase (leave empty for basic protection): ", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	created, err := a.custody.CreateWallet(ctx, a.userID, string(passphrase))
	if err != nil {
		a.reportError(err)
		return err
	}

	printlnFn("Wallet created with " + tierName(created.HasPassphrase) + " protection")
	printlnFn("Address:     " + created.Address)
	printlnFn("Private key: " + created.PrivateKey)
	printlnFn("Mnemonic:    " + created.Mnemonic)
	printlnFn("Store the key and mnemonic now; further disclosures are rate limited.")
	return nil
}
