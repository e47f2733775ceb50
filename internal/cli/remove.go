package cli

import (
	"context"
	"fmt"
	"os"
)

// RemoveWallet deletes the selected user's wallet and passphrase after an
// explicit confirmation. The deletion is irreversible; without a saved key
// or mnemonic the funds are gone.
func (a *App) RemoveWallet(ctx context.Context) error {
	if !a.hasUser() {
		printlnFn("No user selected. Run: use <user-id>")
		return errNoUser
	}

	prompt := fmt.Sprintf("Remove the wallet of user %d? This cannot be undone. Type 'yes' to confirm", a.userID)
	answer, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Aborted")
		return nil
	}

	removed, err := a.custody.RemoveWallet(ctx, a.userID)
	if err != nil {
		a.reportError(err)
		return err
	}

	if removed {
		printlnFn("Wallet removed")
	} else {
		printlnFn("Nothing to remove")
	}
	return nil
}
