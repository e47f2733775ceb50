package cli

import (
	"context"

	"github.com/keywarden-io/keywarden/internal/custody"
)

// gatedActions is the set of actions the limits command reports on.
var gatedActions = []string{
	custody.ActionCreateWallet,
	custody.ActionExportKey,
	custody.ActionExportMnemonic,
	custody.ActionSetPassphrase,
	custody.ActionRemoveWallet,
}

// Limits prints the limiter verdict for every gated action of the selected
// user. The check is a pure read and consumes no budget.
func (a *App) Limits(ctx context.Context) error {
	if !a.hasUser() {
		printlnFn("No user selected. Run: use <user-id>")
		return errNoUser
	}

	for _, action := range gatedActions {
		verdict, err := a.custody.CheckLimit(ctx, a.userID, action)
		if err != nil {
			a.reportError(err)
			return err
		}
		printlnFn(formatVerdict(action, verdict))
	}
	return nil
}
