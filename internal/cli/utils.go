package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/keywarden-io/keywarden/internal/common"
	"github.com/keywarden-io/keywarden/internal/custody"
	"github.com/keywarden-io/keywarden/internal/ratelimit"
)

// reportError translates custody errors into operator friendly messages.
// Anything unrecognized is printed verbatim.
func (a *App) reportError(err error) {
	var limitErr *custody.LimitError
	switch {
	case errors.As(err, &limitErr):
		if limitErr.Reason == ratelimit.ReasonCooldown {
			printlnFn(fmt.Sprintf("Slow down: wait %s between %s attempts",
				limitErr.RetryAfter.Round(time.Second), limitErr.Action))
		} else {
			printlnFn(fmt.Sprintf("Denied: %s budget exhausted, retry after %s",
				limitErr.Action, limitErr.RetryAfter.Round(time.Second)))
		}
	case errors.Is(err, common.ErrInvalidPassphrase):
		printlnFn("Invalid passphrase")
	case errors.Is(err, common.ErrAlreadyExists):
		printlnFn("This user already has a wallet")
	case errors.Is(err, common.ErrNotFound):
		printlnFn("No wallet found for this user (run 'create')")
	case errors.Is(err, common.ErrDecryptionFailed):
		printlnFn("Stored wallet data failed to decrypt, see the service log")
	default:
		printlnFn("Error: " + err.Error())
	}
}

func tierName(hasPassphrase bool) string {
	if hasPassphrase {
		return "passphrase"
	}
	return "basic"
}

func formatVerdict(action string, v *ratelimit.Verdict) string {
	if !v.Allowed {
		return fmt.Sprintf("%-16s denied (%s), retry after %s", action, v.Reason, v.RetryAfter.Round(time.Second))
	}
	if v.Remaining < 0 {
		return fmt.Sprintf("%-16s not limited", action)
	}
	return fmt.Sprintf("%-16s %d attempts left", action, v.Remaining)
}
