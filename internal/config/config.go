package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName   string
	AppEnv    string
	Port      string
	StaticDir string

	// Day bucketing: the one canonical timezone used to decide which
	// calendar date an entry belongs to.
	LogTimezone string

	// Sync
	DebounceWindow time.Duration

	// Store backend: "sql" (default), "script" or "memory"
	StoreBackend string

	// SQL backend (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Script backend (spreadsheet script endpoint)
	ScriptURL   string
	ScriptToken string

	// Observability (optional)
	SentryDSN string

	// Backup (S3-compatible, optional; backups disabled when unset)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services (MinIO, R2, etc.)
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:   envString("APP_NAME", "Macrolog"),
		AppEnv:    envString("APP_ENV", "development"),
		Port:      envString("PORT", "8090"),
		StaticDir: envString("STATIC_DIR", "web"),

		LogTimezone:    envString("LOG_TIMEZONE", "UTC"),
		DebounceWindow: envDuration("SYNC_DEBOUNCE", 750*time.Millisecond),

		StoreBackend: envString("STORE_BACKEND", "sql"),
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/macrolog.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		ScriptURL:   envString("SCRIPT_URL", ""),
		ScriptToken: envString("SCRIPT_TOKEN", ""),

		SentryDSN: envString("SENTRY_DSN", ""),

		S3Region:    envString("S3_REGION", ""),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
	}

	if cfg.StoreBackend == "script" {
		if cfg.ScriptURL == "" || cfg.ScriptToken == "" {
			slog.Error("script backend requires SCRIPT_URL and SCRIPT_TOKEN")
			os.Exit(1)
		}
	}

	return cfg
}

// Location resolves the canonical timezone, falling back to UTC on an
// unknown name so day bucketing is always deterministic.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.LogTimezone)
	if err != nil {
		slog.Warn("unknown LOG_TIMEZONE, falling back to UTC", "value", c.LogTimezone)
		return time.UTC
	}
	return loc
}

// BackupEnabled reports whether the S3 backup target is configured.
func (c *Config) BackupEnabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
