package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keywarden-io/keywarden/internal/custody"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, c.DatabaseDSN, "")
	assert.Equal(t, c.RedisAddr, "")
	assert.Equal(t, c.VaultPepper, "keywarden-dev-pepper")
	assert.Equal(t, c.LogLevel, "info")
	assert.Equal(t, c.LogFormat, "slog")
	assert.Equal(t, c.ExportWindow, 1*time.Minute)
	assert.Equal(t, c.ExportMaxAttempts, 3)
	assert.Equal(t, c.ExportCooldown, 30*time.Second)
	assert.Equal(t, c.CleanupInterval, 5*time.Minute)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, c.VaultPepper, "keywarden-dev-pepper")
	assert.Equal(t, c.LogLevel, "info")
	assert.Equal(t, c.ExportWindow, 1*time.Minute)
	assert.Equal(t, c.ExportMaxAttempts, 3)
	assert.Equal(t, c.ExportCooldown, 30*time.Second)
}

func TestRules_CoversAllGatedActions(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()
	c.ExportWindow = 2 * time.Minute
	c.ExportMaxAttempts = 7
	c.ExportCooldown = 45 * time.Second

	rules := c.Rules()

	for _, action := range []string{
		custody.ActionCreateWallet,
		custody.ActionExportKey,
		custody.ActionExportMnemonic,
		custody.ActionSetPassphrase,
		custody.ActionRemoveWallet,
	} {
		rule, ok := rules[action]
		require.True(t, ok, "missing rule for %s", action)
		assert.Positive(t, rule.MaxAttempts, "%s rule must carry a budget", action)
		assert.Positive(t, rule.Window, "%s rule must carry a window", action)
	}

	assert.Equal(t, 2*time.Minute, rules[custody.ActionExportKey].Window)
	assert.Equal(t, 7, rules[custody.ActionExportKey].MaxAttempts)
	assert.Equal(t, 45*time.Second, rules[custody.ActionExportKey].Cooldown)
	assert.Equal(t, rules[custody.ActionExportKey], rules[custody.ActionExportMnemonic])
}
