package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	// SnapshotPath is where the ledger snapshot file lives when no database
	// is configured.
	SnapshotPath string
	// SnapshotOnShutdown persists the ledger during graceful shutdown.
	SnapshotOnShutdown bool
	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string
}

// LoadConfig loads configuration from the environment. A .env file is read
// first when present so local runs don't need exported variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration overrides from .env")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("SNAPSHOT_PATH", "data/ledger_snapshot.json")
	v.SetDefault("SNAPSHOT_ON_SHUTDOWN", true)
	v.SetDefault("RATE_LIMIT", "300-M")

	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		SnapshotPath:       v.GetString("SNAPSHOT_PATH"),
		SnapshotOnShutdown: v.GetBool("SNAPSHOT_ON_SHUTDOWN"),
		RateLimit:          v.GetString("RATE_LIMIT"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("PGSQL_URL not set; snapshots will be kept on the local filesystem")
	}

	return cfg, nil
}
