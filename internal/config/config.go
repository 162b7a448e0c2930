package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	BackendSQL   = "sql"
	BackendRedis = "redis"
)

type Config struct {
	AuthAddr    string `env:"AUTH_ADDR"    envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"voting.db"`
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`

	JWTSecret     string        `env:"JWT_SECRET"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	AccessTTL     time.Duration `env:"ACCESS_TTL"  envDefault:"15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TTL" envDefault:"168h"`

	BcryptCost      int `env:"BCRYPT_COST"      envDefault:"12"`
	HashConcurrency int `env:"HASH_CONCURRENCY" envDefault:"4"`

	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"true"`
	CSRFEnabled  bool `env:"CSRF_ENABLED"  envDefault:"false"`

	RevocationBackend string        `env:"REVOCATION_BACKEND"        envDefault:"sql"`
	SweepInterval     time.Duration `env:"REVOCATION_SWEEP_INTERVAL" envDefault:"10m"`
	RedisAddr         string        `env:"REDIS_ADDR"                envDefault:"localhost:6379"`
	RedisPassword     string        `env:"REDIS_PASSWORD"`
	RedisDB           int           `env:"REDIS_DB"                  envDefault:"0"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC"   envDefault:"user_events"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("missing required env JWT_SECRET")
	}
	if c.RefreshSecret == "" {
		return fmt.Errorf("missing required env JWT_REFRESH_SECRET")
	}
	if c.JWTSecret == c.RefreshSecret {
		return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	if c.RefreshTTL < c.AccessTTL {
		return fmt.Errorf("REFRESH_TTL must not be shorter than ACCESS_TTL")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.HashConcurrency < 1 {
		return fmt.Errorf("HASH_CONCURRENCY must be at least 1")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("REVOCATION_SWEEP_INTERVAL must be positive")
	}
	switch c.RevocationBackend {
	case BackendSQL, BackendRedis:
	default:
		return fmt.Errorf("unknown REVOCATION_BACKEND %q", c.RevocationBackend)
	}
	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	return nil
}
