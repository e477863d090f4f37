// Package config loads service configuration: struct defaults, then .env
// files, then the process environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gamehub/internal/httpx"
	"gamehub/internal/logging"
	"gamehub/internal/store"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Server   ServerConfig     `koanf:"server"`
	Driver   string           `koanf:"driver"`
	DB       store.Config     `koanf:"db"`
	Auth     AuthConfig       `koanf:"auth"`
	Security SecurityConfig   `koanf:"security"`
	Paging   httpx.PageLimits `koanf:"paging"`
	Logging  logging.Config   `koanf:"logging"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type AuthConfig struct {
	JWTSecret  string `koanf:"jwt_secret"`
	CookieName string `koanf:"cookie_name"`
}

type SecurityConfig struct {
	CORSOrigins    []string `koanf:"cors_origins"`
	EnableHSTS     bool     `koanf:"enable_hsts"`
	RateLimitRPS   float64  `koanf:"rate_limit_rps"`
	RateLimitBurst int      `koanf:"rate_limit_burst"`
	MaxBodyBytes   int64    `koanf:"max_body_bytes"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Driver: DriverPostgres,
		DB:     store.DefaultConfig(),
		Auth: AuthConfig{
			CookieName: "token",
		},
		Security: SecurityConfig{
			CORSOrigins:    []string{"*"},
			RateLimitRPS:   10,
			RateLimitBurst: 20,
			MaxBodyBytes:   1 << 20,
		},
		Paging:  httpx.DefaultPageLimits(),
		Logging: logging.DefaultConfig(),
	}
}

// envKeys maps environment variables onto config paths. Anything not listed
// is ignored.
var envKeys = map[string]string{
	"APP_ADDR":            "server.addr",
	"HTTP_READ_TIMEOUT":   "server.read_timeout",
	"HTTP_WRITE_TIMEOUT":  "server.write_timeout",
	"HTTP_IDLE_TIMEOUT":   "server.idle_timeout",
	"SHUTDOWN_TIMEOUT":    "server.shutdown_timeout",
	"DB_DRIVER":           "driver",
	"DB_DSN":              "db.dsn",
	"DB_MAX_CONNS":        "db.max_conns",
	"DB_QUERY_TIMEOUT":    "db.query_timeout",
	"DB_CONNECT_TIMEOUT":  "db.connect_timeout",
	"DB_CONNECT_ATTEMPTS": "db.connect_attempts",
	"DB_CONNECT_BACKOFF":  "db.connect_backoff",
	"JWT_SECRET":          "auth.jwt_secret",
	"AUTH_COOKIE_NAME":    "auth.cookie_name",
	"CORS_ORIGINS":        "security.cors_origins",
	"ENABLE_HSTS":         "security.enable_hsts",
	"RATE_LIMIT_RPS":      "security.rate_limit_rps",
	"RATE_LIMIT_BURST":    "security.rate_limit_burst",
	"MAX_BODY_BYTES":      "security.max_body_bytes",
	"PAGE_DEFAULT_LIMIT":  "paging.default_limit",
	"PAGE_MAX_LIMIT":      "paging.max_limit",
	"LOG_LEVEL":           "logging.level",
	"LOG_FORMAT":          "logging.format",
	"LOG_CALLER":          "logging.caller",
}

var sliceKeys = []string{"security.cors_origins"}

// Load reads .env.local then .env and builds the config. Values already in the
// environment are never overridden, so earlier sources win.
func Load() (*Config, error) {
	return LoadFiles(".env.local", ".env")
}

// LoadFiles is Load with explicit env files. Missing files are skipped.
func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Load(env.Provider("", ".", func(key string) string { return envKeys[key] }), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if err := splitLists(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// splitLists turns comma-separated env values into string slices.
func splitLists(k *koanf.Koanf) error {
	for _, path := range sliceKeys {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := []string{}
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Driver {
	case DriverPostgres:
		if c.DB.DSN == "" {
			errs = append(errs, errors.New("DB_DSN is required when DB_DRIVER=postgres"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.Driver))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Paging.Default < 1 {
		errs = append(errs, errors.New("PAGE_DEFAULT_LIMIT must be positive"))
	}
	if c.Paging.Max < c.Paging.Default {
		errs = append(errs, errors.New("PAGE_MAX_LIMIT must be at least PAGE_DEFAULT_LIMIT"))
	}
	if c.Security.RateLimitRPS < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must not be negative"))
	}
	if c.Security.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}

	return errors.Join(errs...)
}
