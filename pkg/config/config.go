package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional: 파이프라인은 파일 기반, DB는 적재용)
	Database DatabaseConfig

	// Redis (optional: 원천 데이터 캐시 + 레이트 리밋)
	Redis RedisConfig

	// External data provider
	Provider ProviderConfig

	// Pipeline settings file (YAML)
	SettingsPath string

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database URL was configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ProviderConfig holds the nflverse provider configuration
type ProviderConfig struct {
	BaseURL    string
	ReleaseTag string
	Timeout    time.Duration
	MaxRetries int     // 0 = 재시도 없음 (실패는 그대로 전파)
	RatePerSec float64 // 로컬 요청 속도 제한
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: env("PORT", "8089"),
		Env:  env("ENV", "development"),

		Database: DatabaseConfig{
			URL:             env("DATABASE_URL", ""),
			MaxConns:        envParsed("DB_MAX_CONNS", 10, strconv.Atoi),
			MinConns:        envParsed("DB_MIN_CONNS", 1, strconv.Atoi),
			MaxConnLifetime: envParsed("DB_MAX_CONN_LIFETIME", time.Hour, time.ParseDuration),
			MaxConnIdleTime: envParsed("DB_MAX_CONN_IDLE_TIME", 30*time.Minute, time.ParseDuration),
		},

		Redis: RedisConfig{
			Host:     env("REDIS_HOST", "localhost"),
			Port:     env("REDIS_PORT", "6379"),
			Password: env("REDIS_PASSWORD", ""),
			DB:       envParsed("REDIS_DB", 0, strconv.Atoi),
			Enabled:  envParsed("REDIS_ENABLED", false, strconv.ParseBool),
		},

		Provider: ProviderConfig{
			BaseURL:    env("PROVIDER_BASE_URL", "https://github.com/nflverse/nflverse-data/releases"),
			ReleaseTag: env("PROVIDER_RELEASE_TAG", "player_stats"),
			Timeout:    envParsed("PROVIDER_TIMEOUT", time.Minute, time.ParseDuration),
			MaxRetries: envParsed("PROVIDER_MAX_RETRIES", 0, strconv.Atoi),
			RatePerSec: envParsed("PROVIDER_RATE_PER_SEC", 2.0, parseFloat),
		},

		SettingsPath: env("PIPELINE_SETTINGS", ""),

		LogLevel:  env("LOG_LEVEL", "info"),
		LogFormat: env("LOG_FORMAT", "console"),

		MetricsEnabled: envParsed("METRICS_ENABLED", true, strconv.ParseBool),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether logs should drop colour and debug noise
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// validate reports every inconsistent value at once
func (c *Config) validate() error {
	var errs []error

	switch c.Env {
	case "development", "staging", "production":
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production (got %q)", c.Env))
	}
	if c.Provider.BaseURL == "" {
		errs = append(errs, errors.New("PROVIDER_BASE_URL is required"))
	}
	if c.Provider.MaxRetries < 0 {
		errs = append(errs, errors.New("PROVIDER_MAX_RETRIES must be >= 0"))
	}
	if c.Provider.RatePerSec <= 0 {
		errs = append(errs, errors.New("PROVIDER_RATE_PER_SEC must be > 0"))
	}
	if c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, errors.New("DB_MIN_CONNS must not exceed DB_MAX_CONNS"))
	}

	return errors.Join(errs...)
}

// loadEnvFile loads the first .env found in the working dir or next to the binary
func loadEnvFile() {
	candidates := []string{".env"}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates, filepath.Join(dir, ".env"), filepath.Join(dir, "..", ".env"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// envParsed returns fallback when key is unset or does not parse
func envParsed[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw := env(key, "")
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
