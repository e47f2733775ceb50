// Package ratelimit throttles sensitive actions per (user, action) pair
// with a fixed window plus an optional cooldown between attempts. Key and
// mnemonic disclosure are the primary guarded actions.
package ratelimit

import "time"

// Entry is the persisted throttle state for one (user, action) pair.
// Count resets lazily: a record observing the window elapsed starts a new
// one instead of relying on a background sweeper.
type Entry struct {
	UserID      int64
	Action      string
	Count       int
	WindowStart time.Time
	LastAttempt time.Time
}

// Rule configures the throttle for one action. A zero Cooldown disables the
// spacing requirement between attempts.
type Rule struct {
	Window      time.Duration
	MaxAttempts int
	Cooldown    time.Duration
}

// Denial reasons reported in Verdict.Reason.
const (
	ReasonRateLimited = "rate_limited"
	ReasonCooldown    = "cooldown"
)

// Verdict is the outcome of a rate-limit check.
type Verdict struct {
	Allowed bool

	// Reason is ReasonRateLimited or ReasonCooldown when denied.
	Reason string

	// Remaining is the number of attempts left in the current window.
	// -1 means the action is not rate limited at all.
	Remaining int

	// RetryAfter says how long until the action can succeed, when denied.
	RetryAfter time.Duration

	// ResetAt is when the current window ends; zero if no window is open.
	ResetAt time.Time
}
