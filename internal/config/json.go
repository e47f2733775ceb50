package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/keywarden-io/keywarden/internal/flagx"
	"github.com/keywarden-io/keywarden/internal/timex"
)

// JsonConfig is the DTO for the JSON overlay file. It uses timex.Duration
// for interval fields, which accepts both string values such as "30s" and
// integer nanoseconds. After unmarshalling, non-zero fields are copied into
// the runtime Config, so a partial file overrides only what it names.
type JsonConfig struct {
	DatabaseDSN       string         `json:"database_dsn"`
	RedisAddr         string         `json:"redis_addr"`
	VaultPepper       string         `json:"vault_pepper"`
	LogLevel          string         `json:"log_level"`
	LogFormat         string         `json:"log_format"`
	ExportWindow      timex.Duration `json:"export_window"`
	ExportMaxAttempts int            `json:"export_max_attempts"`
	ExportCooldown    timex.Duration `json:"export_cooldown"`
	CleanupInterval   timex.Duration `json:"cleanup_interval"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config command-line flags. Without either flag nothing is loaded. An
// unreadable or invalid file panics: a config file that was asked for but
// cannot be honored should stop startup.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.VaultPepper != "" {
		config.VaultPepper = c.VaultPepper
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.LogFormat != "" {
		config.LogFormat = c.LogFormat
	}
	if c.ExportWindow.Duration != 0 {
		config.ExportWindow = time.Duration(c.ExportWindow.Duration)
	}
	if c.ExportMaxAttempts != 0 {
		config.ExportMaxAttempts = c.ExportMaxAttempts
	}
	if c.ExportCooldown.Duration != 0 {
		config.ExportCooldown = time.Duration(c.ExportCooldown.Duration)
	}
	if c.CleanupInterval.Duration != 0 {
		config.CleanupInterval = time.Duration(c.CleanupInterval.Duration)
	}
}
