package cli

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/keywarden-io/keywarden/internal/common"
	"github.com/keywarden-io/keywarden/internal/custody"
	"github.com/keywarden-io/keywarden/internal/ratelimit"
)

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(args...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestReportError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "rate limited",
			err: &custody.LimitError{
				Action:     custody.ActionExportKey,
				Reason:     ratelimit.ReasonRateLimited,
				RetryAfter: time.Minute,
			},
			want: "budget exhausted",
		},
		{
			name: "cooldown",
			err: &custody.LimitError{
				Action:     custody.ActionExportKey,
				Reason:     ratelimit.ReasonCooldown,
				RetryAfter: 30 * time.Second,
			},
			want: "Slow down",
		},
		{
			name: "invalid passphrase",
			err:  fmt.Errorf("%w: shorter than 8 characters", common.ErrInvalidPassphrase),
			want: "Invalid passphrase",
		},
		{
			name: "already exists",
			err:  common.ErrAlreadyExists,
			want: "already has a wallet",
		},
		{
			name: "not found",
			err:  common.ErrNotFound,
			want: "No wallet found",
		},
		{
			name: "decryption failed",
			err:  common.ErrDecryptionFailed,
			want: "failed to decrypt",
		},
		{
			name: "unknown error",
			err:  errors.New("boom"),
			want: "Error: boom",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			lines := capturePrintln(t)

			a := &App{}
			a.reportError(tc.err)

			if len(*lines) != 1 || !strings.Contains((*lines)[0], tc.want) {
				t.Fatalf("want message containing %q, got %v", tc.want, *lines)
			}
		})
	}
}

func TestFormatVerdict(t *testing.T) {
	tests := []struct {
		name    string
		verdict *ratelimit.Verdict
		want    string
	}{
		{
			name:    "attempts left",
			verdict: &ratelimit.Verdict{Allowed: true, Remaining: 2},
			want:    "2 attempts left",
		},
		{
			name:    "not limited",
			verdict: &ratelimit.Verdict{Allowed: true, Remaining: -1},
			want:    "not limited",
		},
		{
			name:    "denied",
			verdict: &ratelimit.Verdict{Reason: ratelimit.ReasonCooldown, RetryAfter: 10 * time.Second},
			want:    "denied (cooldown), retry after 10s",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := formatVerdict("export_key", tc.verdict)
			if !strings.Contains(got, tc.want) {
				t.Fatalf("want %q in %q", tc.want, got)
			}
		})
	}
}

func TestTierName(t *testing.T) {
	if got := tierName(true); got != "passphrase" {
		t.Fatalf("got %q", got)
	}
	if got := tierName(false); got != "basic" {
		t.Fatalf("got %q", got)
	}
}
