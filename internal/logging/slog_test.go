package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newBufferedLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newBufferedLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "attempts", 1)
	log.Info(ctx, "inf", "user_id", "42")
	log.Warn(ctx, "wrn", "action", "export")
	log.Error(ctx, "err", "reason", "boom")

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		attr  string
	}{
		{"DEBUG", "dbg", "attempts=1"},
		{"INFO", "inf", "user_id=42"},
		{"WARN", "wrn", "action=export"},
		{"ERROR", "err", "reason=boom"},
	}

	for _, tc := range tests {
		if !strings.Contains(out, "level="+tc.level) {
			t.Fatalf("expected line with level=%s in output:\n%s", tc.level, out)
		}
		if !strings.Contains(out, "msg="+tc.msg) {
			t.Fatalf("expected line with msg=%q in output:\n%s", tc.msg, out)
		}
		if !strings.Contains(out, tc.attr) {
			t.Fatalf("expected attribute %s in output:\n%s", tc.attr, out)
		}
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newBufferedLogger(t)

	child := log.With("component", "vault", "user_id", "7")
	child.Info(context.Background(), "created", "address", "0xabc")

	out := buf.String()
	for _, s := range []string{"component=vault", "user_id=7", "address=0xabc", "msg=created"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := parseSlogLevel(tc.in); got != tc.want {
			t.Errorf("parseSlogLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
