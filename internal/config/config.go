package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/workerhealth/hid/internal/platform/locale"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config is the process configuration read from the environment and .env.
type Config struct {
	Port              string        `mapstructure:"PORT"`
	Env               string        `mapstructure:"ENV"`
	StorageBackend    string        `mapstructure:"STORAGE_BACKEND"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DBMaxConns        int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns        int32         `mapstructure:"DB_MIN_CONNS"`
	SessionSigningKey string        `mapstructure:"SESSION_SIGNING_KEY"`
	SessionTTL        time.Duration `mapstructure:"SESSION_TTL"`
	DefaultLanguage   string        `mapstructure:"DEFAULT_LANGUAGE"`
	HistoryLimit      int           `mapstructure:"HISTORY_LIMIT"`
	Timezone          string        `mapstructure:"TIMEZONE"`
	CORSOrigins       []string      `mapstructure:"CORS_ORIGINS"`
}

// devSigningKey is only accepted when ENV=development.
const devSigningKey = "dev-session-key-change-in-production"

// Load reads configuration from the environment, falling back to .env and
// defaults. It does not validate; call Validate before use.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("STORAGE_BACKEND", "") // auto-detect: "" -> inferred from ENV
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("DEFAULT_LANGUAGE", "en")
	v.SetDefault("HISTORY_LIMIT", 10)
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "STORAGE_BACKEND", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"SESSION_SIGNING_KEY", "SESSION_TTL", "DEFAULT_LANGUAGE", "HISTORY_LIMIT",
		"TIMEZONE", "CORS_ORIGINS",
	} {
		v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	cfg.DefaultLanguage = strings.ToLower(strings.TrimSpace(cfg.DefaultLanguage))

	if cfg.StorageBackend == "" {
		cfg.StorageBackend = BackendPostgres
		if cfg.IsDev() && cfg.DatabaseURL == "" {
			cfg.StorageBackend = BackendMemory
		}
	}

	if cfg.SessionSigningKey == "" && cfg.IsDev() {
		cfg.SessionSigningKey = devSigningKey
	}

	if cfg.IsDev() {
		log.Println("WARNING: server is running in DEVELOPMENT mode (ENV=development).")
		if cfg.SessionSigningKey == devSigningKey {
			log.Println("WARNING: using the built-in development session signing key.")
		}
		if cfg.StorageBackend == BackendMemory {
			log.Println("WARNING: in-memory storage is active; all data is lost on restart.")
		}
	}

	return cfg, nil
}

// IsDev returns true when the server is configured for development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location resolves TIMEZONE. Follow-up dates are compared against "today"
// in this zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks that the configuration is safe to run. Postgres storage
// needs DATABASE_URL; outside development the session signing key must be
// set explicitly and be at least 32 bytes.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND is %q", BackendPostgres)
		}
	case BackendMemory:
		if c.IsProduction() {
			return fmt.Errorf("STORAGE_BACKEND %q is not allowed in production", BackendMemory)
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMemory, c.StorageBackend)
	}

	if c.SessionSigningKey == "" {
		return fmt.Errorf("SESSION_SIGNING_KEY is required when ENV=%q", c.Env)
	}
	if !c.IsDev() && len(c.SessionSigningKey) < 32 {
		return fmt.Errorf("SESSION_SIGNING_KEY must be at least 32 bytes, got %d", len(c.SessionSigningKey))
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if !locale.IsBuiltIn(c.DefaultLanguage) {
		return fmt.Errorf("DEFAULT_LANGUAGE %q has no message templates", c.DefaultLanguage)
	}
	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}
