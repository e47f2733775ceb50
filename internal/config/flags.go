package config

import (
	"flag"
	"os"
	"time"

	"github.com/keywarden-io/keywarden/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN (empty: in-memory storage)
//	-r string   Redis address (empty: in-memory limiter store)
//	-p string   vault pepper
//	-l string   log level
//	-f string   log format (slog | text | zap)
//	-w int      export window, seconds
//	-m int      export max attempts per window
//	-o int      export cooldown, seconds
//	-i int      limiter cleanup interval, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers in seconds and then converted.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-r", "-p", "-l", "-f", "-w", "-m", "-o", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.VaultPepper, "p", config.VaultPepper, "vault pepper")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")

	exportWindow := fs.Int("w", int(config.ExportWindow.Seconds()), "export window (in seconds)")
	exportMaxAttempts := fs.Int("m", config.ExportMaxAttempts, "export max attempts per window")
	exportCooldown := fs.Int("o", int(config.ExportCooldown.Seconds()), "export cooldown (in seconds)")
	cleanupInterval := fs.Int("i", int(config.CleanupInterval.Seconds()), "cleanup interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ExportWindow = time.Duration(*exportWindow) * time.Second
	config.ExportMaxAttempts = *exportMaxAttempts
	config.ExportCooldown = time.Duration(*exportCooldown) * time.Second
	config.CleanupInterval = time.Duration(*cleanupInterval) * time.Second
}
