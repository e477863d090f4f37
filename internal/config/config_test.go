package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFiles_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadFiles()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, 3*time.Second, cfg.DB.QueryTimeout)
	assert.Equal(t, 3, cfg.DB.ConnectAttempts)
	assert.Equal(t, "token", cfg.Auth.CookieName)
	assert.Equal(t, []string{"*"}, cfg.Security.CORSOrigins)
	assert.Equal(t, 10, cfg.Paging.Default)
	assert.Equal(t, 100, cfg.Paging.Max)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFiles_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("DB_QUERY_TIMEOUT", "250ms")
	t.Setenv("DB_MAX_CONNS", "12")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("ENABLE_HSTS", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("PAGE_MAX_LIMIT", "50")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadFiles()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, DriverMemory, cfg.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.DB.QueryTimeout)
	assert.Equal(t, int32(12), cfg.DB.MaxConns)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORSOrigins)
	assert.True(t, cfg.Security.EnableHSTS)
	assert.Equal(t, 2.5, cfg.Security.RateLimitRPS)
	assert.Equal(t, 50, cfg.Paging.Max)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFiles_EnvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-process")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nAUTH_COOKIE_NAME=gh_session\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("AUTH_COOKIE_NAME") })

	cfg, err := LoadFiles(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "from-process", cfg.Auth.JWTSecret, "process environment wins over files")
	assert.Equal(t, "gh_session", cfg.Auth.CookieName)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Auth.JWTSecret = "s"
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, "JWT_SECRET is required"},
		{"unknown driver", func(c *Config) { c.Driver = "mongo" }, "DB_DRIVER must be"},
		{"postgres without dsn", func(c *Config) { c.DB.DSN = "" }, "DB_DSN is required"},
		{"zero default page", func(c *Config) { c.Paging.Default = 0 }, "PAGE_DEFAULT_LIMIT"},
		{"max below default", func(c *Config) { c.Paging.Max = 5 }, "PAGE_MAX_LIMIT"},
		{"negative rate", func(c *Config) { c.Security.RateLimitRPS = -1 }, "RATE_LIMIT_RPS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("memory driver needs no dsn", func(t *testing.T) {
		cfg := valid()
		cfg.Driver = DriverMemory
		cfg.DB.DSN = ""
		assert.NoError(t, cfg.Validate())
	})
}
