package custody

import (
	"fmt"
	"time"

	"github.com/keywarden-io/keywarden/internal/common"
	"github.com/keywarden-io/keywarden/internal/ratelimit"
)

// Actions gated by the disclosure limiter. The bot layer may gate further
// actions of its own through CheckLimit and RecordAttempt; actions without
// a configured rule are never limited.
const (
	ActionCreateWallet   = "create_wallet"
	ActionExportKey      = "export_key"
	ActionExportMnemonic = "export_mnemonic"
	ActionSetPassphrase  = "set_passphrase"
	ActionRemoveWallet   = "remove_wallet"
)

// LimitError is returned when the limiter denies an operation. It carries
// the retry-after hint for user-facing messages and unwraps to
// common.ErrRateLimited or common.ErrCooldown for errors.Is matching.
type LimitError struct {
	Action     string
	Reason     string
	RetryAfter time.Duration
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s denied (%s), retry after %s", e.Action, e.Reason, e.RetryAfter)
}

func (e *LimitError) Unwrap() error {
	if e.Reason == ratelimit.ReasonCooldown {
		return common.ErrCooldown
	}
	return common.ErrRateLimited
}
