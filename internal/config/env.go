package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from environment variables. A .env file
// in the working directory is loaded first when present, so local setups
// need no exported variables. Unset variables leave the config untouched;
// malformed duration or integer values panic, matching the JSON layer.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	config.DatabaseDSN = getEnv("DATABASE_DSN", config.DatabaseDSN)
	config.RedisAddr = getEnv("REDIS_ADDR", config.RedisAddr)
	config.VaultPepper = getEnv("VAULT_PEPPER", config.VaultPepper)
	config.LogLevel = getEnv("LOG_LEVEL", config.LogLevel)
	config.LogFormat = getEnv("LOG_FORMAT", config.LogFormat)

	config.ExportWindow = getEnvDuration("EXPORT_WINDOW", config.ExportWindow)
	config.ExportCooldown = getEnvDuration("EXPORT_COOLDOWN", config.ExportCooldown)
	config.CleanupInterval = getEnvDuration("CLEANUP_INTERVAL", config.CleanupInterval)

	if v := os.Getenv("EXPORT_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.ExportMaxAttempts = n
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		panic(err)
	}
	return d
}
