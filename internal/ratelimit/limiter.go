package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/keywarden-io/keywarden/internal/common"
)

// Limiter applies per-action Rules to attempts keyed by (user, action).
// Check never mutates state; Record charges an attempt. Actions without a
// configured rule are always allowed.
type Limiter struct {
	store Store
	rules map[string]Rule
	now   func() time.Time
}

func New(store Store, rules map[string]Rule) *Limiter {
	return &Limiter{store: store, rules: rules, now: time.Now}
}

// WithClock overrides the limiter's time source. Tests use it to advance
// windows without sleeping.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Rule returns the configured rule for action, if any.
func (l *Limiter) Rule(action string) (Rule, bool) {
	rule, ok := l.rules[action]
	return rule, ok
}

// Check reports whether an attempt at action would currently be allowed.
// It is a pure read: a denied caller can poll Check without making the
// denial worse. Cooldown is evaluated before window budget, so a recent
// attempt blocks even when budget remains.
func (l *Limiter) Check(ctx context.Context, userID int64, action string) (*Verdict, error) {
	rule, ok := l.rules[action]
	if !ok {
		return &Verdict{Allowed: true, Remaining: -1}, nil
	}

	entry, err := l.store.Get(ctx, userID, action)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &Verdict{Allowed: true, Remaining: rule.MaxAttempts}, nil
		}
		return nil, fmt.Errorf("loading rate limit entry: %w", err)
	}

	now := l.now()

	if rule.Cooldown > 0 {
		cooldownEnd := entry.LastAttempt.Add(rule.Cooldown)
		if now.Before(cooldownEnd) {
			return &Verdict{
				Reason:     ReasonCooldown,
				RetryAfter: cooldownEnd.Sub(now),
				Remaining:  remaining(rule, entry, now),
			}, nil
		}
	}

	windowEnd := entry.WindowStart.Add(rule.Window)
	if !now.Before(windowEnd) {
		// window elapsed, full budget again
		return &Verdict{Allowed: true, Remaining: rule.MaxAttempts}, nil
	}

	if entry.Count >= rule.MaxAttempts {
		return &Verdict{
			Reason:     ReasonRateLimited,
			RetryAfter: windowEnd.Sub(now),
			ResetAt:    windowEnd,
		}, nil
	}

	return &Verdict{
		Allowed:   true,
		Remaining: rule.MaxAttempts - entry.Count,
		ResetAt:   windowEnd,
	}, nil
}

// Record charges one attempt at action. A record observing its window
// elapsed starts a fresh one with count 1 (lazy reset). Recording an
// unconfigured action is a no-op.
func (l *Limiter) Record(ctx context.Context, userID int64, action string) error {
	rule, ok := l.rules[action]
	if !ok {
		return nil
	}

	now := l.now()

	entry, err := l.store.Get(ctx, userID, action)
	switch {
	case errors.Is(err, common.ErrNotFound):
		entry = &Entry{UserID: userID, Action: action, Count: 1, WindowStart: now}
	case err != nil:
		return fmt.Errorf("loading rate limit entry: %w", err)
	case now.Sub(entry.WindowStart) >= rule.Window:
		entry.Count = 1
		entry.WindowStart = now
	default:
		entry.Count++
	}
	entry.LastAttempt = now

	// the entry stops mattering once both window and cooldown have passed
	deadline := entry.WindowStart.Add(rule.Window)
	if cooldownEnd := entry.LastAttempt.Add(rule.Cooldown); cooldownEnd.After(deadline) {
		deadline = cooldownEnd
	}

	if err := l.store.Put(ctx, entry, deadline.Sub(now)); err != nil {
		return fmt.Errorf("storing rate limit entry: %w", err)
	}

	return nil
}

// Reset drops the throttle state for (userID, action).
func (l *Limiter) Reset(ctx context.Context, userID int64, action string) error {
	return l.store.Delete(ctx, userID, action)
}

// Cleanup asks the store to drop expired entries. Safe to call on any
// cadence; verdicts do not depend on it.
func (l *Limiter) Cleanup(ctx context.Context) error {
	return l.store.Purge(ctx)
}

func remaining(rule Rule, entry *Entry, now time.Time) int {
	if !now.Before(entry.WindowStart.Add(rule.Window)) {
		return rule.MaxAttempts
	}
	if left := rule.MaxAttempts - entry.Count; left > 0 {
		return left
	}
	return 0
}
