package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-d", "postgres://keywarden@db:5432/keywarden", "-r", "redis:6379", "-p", "pepper",
			"-l", "debug", "-f", "zap", "-w", "120", "-m", "5", "-o", "15", "-i", "60",
		}, expectPanic: false,
			expected: &Config{
				DatabaseDSN:       "postgres://keywarden@db:5432/keywarden",
				RedisAddr:         "redis:6379",
				VaultPepper:       "pepper",
				LogLevel:          "debug",
				LogFormat:         "zap",
				ExportWindow:      120 * time.Second,
				ExportMaxAttempts: 5,
				ExportCooldown:    15 * time.Second,
				CleanupInterval:   60 * time.Second,
			}},
		{name: "Test2 unrelated flags ignored", args: []string{"cmd",
			"-x", "ignored", "-d", "vault.db",
		}, expectPanic: false,
			expected: &Config{
				DatabaseDSN: "vault.db",
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
