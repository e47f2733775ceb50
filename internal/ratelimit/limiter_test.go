package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

const actionExport = "export_key"

func newTestLimiter(rule Rule) (*Limiter, *InMemoryStore, *fakeClock) {
	clock := newFakeClock()
	store := NewInMemoryStore().WithClock(clock.Now)
	limiter := New(store, map[string]Rule{actionExport: rule}).WithClock(clock.Now)
	return limiter, store, clock
}

func TestLimiter_WindowExhaustion(t *testing.T) {
	limiter, _, clock := newTestLimiter(Rule{Window: time.Minute, MaxAttempts: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		verdict, err := limiter.Check(ctx, 1001, actionExport)
		require.NoError(t, err)
		require.True(t, verdict.Allowed, "attempt %d should be allowed", i+1)
		require.Equal(t, 3-i, verdict.Remaining)

		require.NoError(t, limiter.Record(ctx, 1001, actionExport))
	}

	verdict, err := limiter.Check(ctx, 1001, actionExport)
	require.NoError(t, err)
	require.False(t, verdict.Allowed, "4th attempt must be denied")
	require.Equal(t, ReasonRateLimited, verdict.Reason)
	require.Equal(t, time.Minute, verdict.RetryAfter, "full window left: attempts came at the same instant")

	// past the window everything resets
	clock.Advance(time.Minute + time.Millisecond)

	verdict, err = limiter.Check(ctx, 1001, actionExport)
	require.NoError(t, err)
	require.True(t, verdict.Allowed)
	require.Equal(t, 3, verdict.Remaining)
}

func TestLimiter_CooldownBeatsRemainingBudget(t *testing.T) {
	limiter, _, clock := newTestLimiter(Rule{
		Window:      time.Minute,
		MaxAttempts: 3,
		Cooldown:    30 * time.Second,
	})
	ctx := context.Background()

	require.NoError(t, limiter.Record(ctx, 1001, actionExport))

	// budget remains (1 of 3 used) but the cooldown blocks regardless
	verdict, err := limiter.Check(ctx, 1001, actionExport)
	require.NoError(t, err)
	require.False(t, verdict.Allowed)
	require.Equal(t, ReasonCooldown, verdict.Reason)
	require.Equal(t, 30*time.Second, verdict.RetryAfter)

	clock.Advance(29 * time.Second)
	verdict, err = limiter.Check(ctx, 1001, actionExport)
	require.NoError(t, err)
	require.False(t, verdict.Allowed)
	require.Equal(t, ReasonCooldown, verdict.Reason)
	require.Equal(t, time.Second, verdict.RetryAfter)

	clock.Advance(time.Second)
	verdict, err = limiter.Check(ctx, 1001, actionExport)
	require.NoError(t, err)
	require.True(t, verdict.Allowed)
	require.Equal(t, 2, verdict.Remaining)
}

func TestLimiter_CheckIsPureRead(t *testing.T) {
	limiter, _, _ := newTestLimiter(Rule{Window: time.Minute, MaxAttempts: 1})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		verdict, err := limiter.Check(ctx, 1001, actionExport)
		require.NoError(t, err)
		require.True(t, verdict.Allowed, "check must not consume budget")
	}

	require.NoError(t, limiter.Record(ctx, 1001, actionExport))

	verdict, err := limiter.Check(ctx, 1001, actionExport)
	require.NoError(t, err)
	require.False(t, verdict.Allowed)

	// polling a denial must not extend it
	for i := 0; i < 10; i++ {
		_, err := limiter.Check(ctx, 1001, actionExport)
		require.NoError(t, err)
	}
	verdict, err = limiter.Check(ctx, 1001, actionExport)
	require.NoError(t, err)
	require.Equal(t, time.Minute, verdict.RetryAfter)
}

func TestLimiter_LazyWindowReset(t *testing.T) {
	limiter, store, clock := newTestLimiter(Rule{Window: time.Minute, MaxAttempts: 2})
	ctx := context.Background()

	// a stale exhausted entry that the store has not evicted yet
	old := clock.Now().Add(-2 * time.Minute)
	err := store.Put(ctx, &Entry{
		UserID:      1001,
		Action:      actionExport,
		Count:       2,
		WindowStart: old,
		LastAttempt: old,
	}, time.Hour)
	require.NoError(t, err)

	verdict, err := limiter.Check(ctx, 1001, actionExport)
	require.NoError(t, err)
	require.True(t, verdict.Allowed, "elapsed window must not count against the budget")
	require.Equal(t, 2, verdict.Remaining)

	require.NoError(t, limiter.Record(ctx, 1001, actionExport))

	verdict, err = limiter.Check(ctx, 1001, actionExport)
	require.NoError(t, err)
	require.True(t, verdict.Allowed)
	require.Equal(t, 1, verdict.Remaining, "fresh window must count from 1")
}

func TestLimiter_UsersAndActionsIndependent(t *testing.T) {
	clock := newFakeClock()
	store := NewInMemoryStore().WithClock(clock.Now)
	limiter := New(store, map[string]Rule{
		"export_key":      {Window: time.Minute, MaxAttempts: 1},
		"export_mnemonic": {Window: time.Minute, MaxAttempts: 1},
	}).WithClock(clock.Now)
	ctx := context.Background()

	require.NoError(t, limiter.Record(ctx, 1001, "export_key"))

	verdict, err := limiter.Check(ctx, 1001, "export_key")
	require.NoError(t, err)
	require.False(t, verdict.Allowed)

	// same user, different action
	verdict, err = limiter.Check(ctx, 1001, "export_mnemonic")
	require.NoError(t, err)
	require.True(t, verdict.Allowed)

	// different user, same action
	verdict, err = limiter.Check(ctx, 2002, "export_key")
	require.NoError(t, err)
	require.True(t, verdict.Allowed)
}

func TestLimiter_UnconfiguredActionAlwaysAllowed(t *testing.T) {
	limiter, store, _ := newTestLimiter(Rule{Window: time.Minute, MaxAttempts: 1})
	ctx := context.Background()

	verdict, err := limiter.Check(ctx, 1001, "balance_view")
	require.NoError(t, err)
	require.True(t, verdict.Allowed)
	require.Equal(t, -1, verdict.Remaining)

	require.NoError(t, limiter.Record(ctx, 1001, "balance_view"))
	require.Equal(t, 0, store.Len(), "recording an unconfigured action must not store anything")
}

func TestLimiter_Reset(t *testing.T) {
	limiter, _, _ := newTestLimiter(Rule{Window: time.Minute, MaxAttempts: 1})
	ctx := context.Background()

	require.NoError(t, limiter.Record(ctx, 1001, actionExport))

	verdict, err := limiter.Check(ctx, 1001, actionExport)
	require.NoError(t, err)
	require.False(t, verdict.Allowed)

	require.NoError(t, limiter.Reset(ctx, 1001, actionExport))

	verdict, err = limiter.Check(ctx, 1001, actionExport)
	require.NoError(t, err)
	require.True(t, verdict.Allowed)
}

func TestLimiter_CleanupPurgesExpired(t *testing.T) {
	limiter, store, clock := newTestLimiter(Rule{
		Window:      time.Minute,
		MaxAttempts: 3,
		Cooldown:    30 * time.Second,
	})
	ctx := context.Background()

	require.NoError(t, limiter.Record(ctx, 1001, actionExport))
	require.Equal(t, 1, store.Len())

	// window is the later deadline here (60s vs 30s cooldown)
	clock.Advance(time.Minute - time.Second)
	require.NoError(t, limiter.Cleanup(ctx))
	require.Equal(t, 1, store.Len(), "entry still inside its window must survive")

	clock.Advance(2 * time.Second)
	require.NoError(t, limiter.Cleanup(ctx))
	require.Equal(t, 0, store.Len())
}

type brokenStore struct{}

func (brokenStore) Get(ctx context.Context, userID int64, action string) (*Entry, error) {
	return nil, errors.New("store down")
}
func (brokenStore) Put(ctx context.Context, entry *Entry, ttl time.Duration) error {
	return errors.New("store down")
}
func (brokenStore) Delete(ctx context.Context, userID int64, action string) error {
	return errors.New("store down")
}
func (brokenStore) Purge(ctx context.Context) error { return errors.New("store down") }

func TestLimiter_StoreErrorsPropagate(t *testing.T) {
	limiter := New(brokenStore{}, map[string]Rule{actionExport: {Window: time.Minute, MaxAttempts: 1}})
	ctx := context.Background()

	_, err := limiter.Check(ctx, 1001, actionExport)
	require.Error(t, err)

	require.Error(t, limiter.Record(ctx, 1001, actionExport))
}
