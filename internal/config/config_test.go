package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AuthAddr)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.CookieSecure)
	assert.False(t, cfg.CSRFEnabled)
	assert.Equal(t, BackendSQL, cfg.RevocationBackend)
	assert.Equal(t, "user_events", cfg.KafkaTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "access-secret", cfg.JWTSecret)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TTL", "5m")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("REVOCATION_BACKEND", "redis")
	t.Setenv("COOKIE_SECURE", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.AccessTTL)
	assert.Len(t, cfg.KafkaBrokers, 2)
	assert.Equal(t, BackendRedis, cfg.RevocationBackend)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadConfig_RejectsZeroSweepInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("REVOCATION_SWEEP_INTERVAL", "0s")

	cfg, err := LoadConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "REVOCATION_SWEEP_INTERVAL")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			JWTSecret:         "a",
			RefreshSecret:     "b",
			AccessTTL:         time.Minute,
			RefreshTTL:        time.Hour,
			BcryptCost:        10,
			HashConcurrency:   1,
			SweepInterval:     time.Minute,
			RevocationBackend: BackendSQL,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "missing access secret", mutate: func(c *Config) { c.JWTSecret = "" }},
		{name: "missing refresh secret", mutate: func(c *Config) { c.RefreshSecret = "" }},
		{name: "shared secret", mutate: func(c *Config) { c.RefreshSecret = "a" }},
		{name: "refresh shorter than access", mutate: func(c *Config) { c.RefreshTTL = time.Second }},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.BcryptCost = 3 }},
		{name: "bcrypt cost too high", mutate: func(c *Config) { c.BcryptCost = 32 }},
		{name: "zero hash concurrency", mutate: func(c *Config) { c.HashConcurrency = 0 }},
		{name: "zero sweep interval", mutate: func(c *Config) { c.SweepInterval = 0 }},
		{name: "negative sweep interval", mutate: func(c *Config) { c.SweepInterval = -time.Second }},
		{name: "unknown backend", mutate: func(c *Config) { c.RevocationBackend = "memcached" }},
		{name: "admin without password", mutate: func(c *Config) { c.AdminUsername = "root" }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
