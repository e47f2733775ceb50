package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/keywarden-io/keywarden/internal/common"
)

// errNoUser is returned by commands invoked before a user was selected.
var errNoUser = errors.New("no user selected")

// Use selects the user whose wallet subsequent commands operate on and
// prints a short status of that user's wallet.
func (a *App) Use(ctx context.Context, arg string) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		printlnFn("User id must be a positive integer")
		return fmt.Errorf("bad user id %q", arg)
	}
	a.userID = id

	view, err := a.custody.View(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn(fmt.Sprintf("Acting as user %d, no wallet yet (run 'create')", id))
			return nil
		}
		a.reportError(err)
		return err
	}

	printlnFn(fmt.Sprintf("Acting as user %d", id))
	printlnFn(fmt.Sprintf("Wallet %s, %s protection, created %s",
		view.Address, tierName(view.HasPassphrase), view.CreatedAt.Format(time.RFC3339)))
	return nil
}
