package cli

import (
	"context"
	"os"

	"github.com/keywarden-io/keywarden/internal/common"
)

// ExportKey discloses the selected user's private key.
func (a *App) ExportKey(ctx context.Context) error {
	return a.disclose(ctx, "Private key", a.custody.ExportKey)
}

// ExportMnemonic discloses the selected user's recovery mnemonic.
func (a *App) ExportMnemonic(ctx context.Context) error {
	return a.disclose(ctx, "Mnemonic", a.custody.ExportMnemonic)
}

func (a *App) disclose(ctx context.Context, label string, fn func(context.Context, int64, string) (string, error)) error {
	if !a.hasUser() {
		printlnFn("No user selected. Run: use <user-id>")
		return errNoUser
	}

	passphrase, err := a.promptIfProtected(ctx)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	secret, err := fn(ctx, a.userID, string(passphrase))
	if err != nil {
		a.reportError(err)
		return err
	}

	printlnFn(label + ": " + secret)
	return nil
}

// promptIfProtected asks for the passphrase only when the selected user's
// wallet is passphrase protected. Basic tier wallets need no input.
func (a *App) promptIfProtected(ctx context.Context) ([]byte, error) {
	protected, err := a.custody.HasPassphrase(ctx, a.userID)
	if err != nil {
		a.reportError(err)
		return nil, err
	}
	if !protected {
		return nil, nil
	}
	return getPassphrase("Enter passphrase: ", os.Stdout)
}
