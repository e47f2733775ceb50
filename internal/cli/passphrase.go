package cli

import (
	"context"
	"os"

	"github.com/keywarden-io/keywarden/internal/common"
)

// SetPassphrase sets, rotates or removes the selected user's passphrase.
// When a wallet exists it is re-encrypted under the new protection tier in
// the same step. An empty new passphrase downgrades to basic protection.
func (a *App) SetPassphrase(ctx context.Context) error {
	if !a.hasUser() {
		printlnFn("No user selected. Run: use <user-id>")
		return errNoUser
	}

	established, err := a.custody.HasPassphrase(ctx, a.userID)
	if err != nil {
		a.reportError(err)
		return err
	}

	var current []byte
	if established {
		current, err = getPassphrase("Enter current passphrase: ", os.Stdout)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(current)
	}

	next, err := getPassphrase("Enter new passphrase (leave empty to remove): ", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	if err := a.custody.SetPassphrase(ctx, a.userID, string(current), string(next)); err != nil {
		a.reportError(err)
		return err
	}

	if len(next) == 0 {
		printlnFn("Passphrase removed, protection downgraded to basic")
	} else {
		printlnFn("Passphrase updated")
	}
	return nil
}

// VerifyPassphrase checks a candidate passphrase without disclosing
// anything. Useful for confirming what a user remembers before an export.
func (a *App) VerifyPassphrase(ctx context.Context) error {
	if !a.hasUser() {
		printlnFn("No user selected. Run: use <user-id>")
		return errNoUser
	}

	established, err := a.custody.HasPassphrase(ctx, a.userID)
	if err != nil {
		a.reportError(err)
		return err
	}
	if !established {
		printlnFn("No passphrase is set for this user")
		return nil
	}

	candidate, err := getPassphrase("Enter passphrase: ", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(candidate)

	ok, err := a.custody.VerifyPassphrase(ctx, a.userID, string(candidate))
	if err != nil {
		a.reportError(err)
		return err
	}

	if ok {
		printlnFn("Passphrase matches")
	} else {
		printlnFn("Passphrase does not match")
	}
	return nil
}
