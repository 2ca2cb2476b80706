package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		DatabaseURL:        "postgres://localhost/hr",
		JWTSecret:          "secret",
		TokenTTL:           time.Hour,
		Environment:        "development",
		MaxBodyBytes:       4096,
		RateLimitPerMinute: 60,
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("APP_ADDR", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("RUN_MIGRATIONS", "")
	t.Setenv("MAX_BODY_BYTES", "")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 8*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, int64(1048576), cfg.MaxBodyBytes)
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := map[string]func(*Config){
		"missing database": func(c *Config) { c.DatabaseURL = "" },
		"missing secret":   func(c *Config) { c.JWTSecret = " " },
		"zero ttl":         func(c *Config) { c.TokenTTL = 0 },
		"tiny body":        func(c *Config) { c.MaxBodyBytes = 10 },
		"zero rate":        func(c *Config) { c.RateLimitPerMinute = 0 },
		"short prod secret": func(c *Config) {
			c.Environment = "production"
			c.DataEncryptionKey = "k"
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
