// Package config handles configuration for the keywarden service, layering
// defaults, environment variables (with optional .env file), a JSON overlay
// and command-line flags.
package config

import (
	"time"

	"github.com/keywarden-io/keywarden/internal/custody"
	"github.com/keywarden-io/keywarden/internal/ratelimit"
)

// Config holds the runtime settings of the custody service.
//
// Fields:
//   - DatabaseDSN: PostgreSQL DSN (pgx); empty selects the in-memory storage backend.
//   - RedisAddr: Redis address for limiter state; empty selects the in-memory store.
//   - VaultPepper: secret feeding the fallback encryption tier. Do not ship the default.
//   - LogLevel: debug | info | warn | error.
//   - LogFormat: slog (JSON) | text (development) | zap (production JSON).
//   - ExportWindow / ExportMaxAttempts / ExportCooldown: disclosure limiter overrides.
//   - CleanupInterval: cadence of the limiter housekeeping ticker.
type Config struct {
	DatabaseDSN       string
	RedisAddr         string
	VaultPepper       string
	LogLevel          string
	LogFormat         string
	ExportWindow      time.Duration
	ExportMaxAttempts int
	ExportCooldown    time.Duration
	CleanupInterval   time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: The pepper below is insecure for production and must be overridden.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = ""
	c.RedisAddr = ""
	c.VaultPepper = "keywarden-dev-pepper"
	c.LogLevel = "info"
	c.LogFormat = "slog"
	c.ExportWindow = 1 * time.Minute
	c.ExportMaxAttempts = 3
	c.ExportCooldown = 30 * time.Second
	c.CleanupInterval = 5 * time.Minute
}

// Rules assembles the limiter's per-action table. The export actions take
// the configured overrides; the mutating actions run on fixed budgets that
// are generous for humans and hostile to scripts.
func (c *Config) Rules() map[string]ratelimit.Rule {
	export := ratelimit.Rule{
		Window:      c.ExportWindow,
		MaxAttempts: c.ExportMaxAttempts,
		Cooldown:    c.ExportCooldown,
	}

	return map[string]ratelimit.Rule{
		custody.ActionExportKey:      export,
		custody.ActionExportMnemonic: export,
		custody.ActionCreateWallet:   {Window: 5 * time.Minute, MaxAttempts: 5},
		custody.ActionSetPassphrase:  {Window: 5 * time.Minute, MaxAttempts: 5},
		custody.ActionRemoveWallet:   {Window: time.Hour, MaxAttempts: 3},
	}
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file and command-line flags, in
// that order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
