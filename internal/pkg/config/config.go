package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendFile  = "file"
	BackendRedis = "redis"

	devJWTSecret = "dev-secret-change-me"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=8h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Store     StoreConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	Mock      MockConfig
	Audit     AuditConfig
	RateLimit RateLimitConfig
}

type StoreConfig struct {
	// Backend is "file" or "redis".
	Backend    string        `env:"STORE_BACKEND, default=file"`
	Dir        string        `env:"STORE_DIR,     default=./data/sessions"`
	SessionTTL time.Duration `env:"SESSION_TTL,   default=2h"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// MongoConfig is optional; an empty URI keeps the audit log in memory.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=voting_wizard"`
}

type MockConfig struct {
	// LatencyScale multiplies every simulated delay. 0 disables them.
	LatencyScale float64 `env:"MOCK_LATENCY_SCALE, default=1"`
	BcryptCost   int     `env:"BCRYPT_COST,        default=10"`
}

type AuditConfig struct {
	Workers   int `env:"AUDIT_WORKERS,    default=4"`
	MemoryCap int `env:"AUDIT_MEMORY_CAP, default=10000"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS,   default=5"`
	Burst int     `env:"RATE_LIMIT_BURST, default=10"`
}

// IsDevelopment reports whether ENV selects local development defaults.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Store.Backend != BackendFile && c.Store.Backend != BackendRedis {
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendFile, BackendRedis, c.Store.Backend))
	}
	if c.JWTSecret == "" && !c.IsDevelopment() {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	if c.Mock.LatencyScale < 0 {
		errs = append(errs, errors.New("MOCK_LATENCY_SCALE must not be negative"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from l and validates it. Development runs
// without JWT_SECRET get a fixed secret.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = devJWTSecret
	}
	return &cfg, nil
}
