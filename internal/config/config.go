// Package config defines the service configuration and its loader.
package config

import (
	"time"

	"github.com/KirkDiggler/roster-api/internal/errors"
)

// Store drivers
const (
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config is the full process configuration
type Config struct {
	GRPCAddr string        `koanf:"grpc_addr"`
	HTTPAddr string        `koanf:"http_addr"`
	Log      LogConfig     `koanf:"log"`
	Store    StoreConfig   `koanf:"store"`
	Redis    RedisConfig   `koanf:"redis"`
	PokeAPI  PokeAPIConfig `koanf:"pokeapi"`
	Session  SessionConfig `koanf:"session"`
	Roster   RosterConfig  `koanf:"roster"`
	Auth     AuthConfig    `koanf:"auth"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

// StoreConfig selects the roster store
type StoreConfig struct {
	Driver     string `koanf:"driver"`
	SQLitePath string `koanf:"sqlite_path"`
}

// RedisConfig configures the Redis connection used by the redis store and
// the species cache
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	PoolSize int    `koanf:"pool_size"`
}

// PokeAPIConfig configures species lookups
type PokeAPIConfig struct {
	Timeout  time.Duration `koanf:"timeout"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// SessionConfig configures controller sessions
type SessionConfig struct {
	IdleTimeout   time.Duration `koanf:"idle_timeout"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// RosterConfig configures roster limits
type RosterConfig struct {
	Capacity int `koanf:"capacity"`
}

// AuthConfig maps bearer tokens to identities
type AuthConfig struct {
	Tokens map[string]TokenIdentity `koanf:"tokens"`
}

// TokenIdentity is the user a bearer token authenticates as
type TokenIdentity struct {
	UserID string `koanf:"user_id"`
	Email  string `koanf:"email"`
}

// New returns a Config populated with defaults
func New() *Config {
	return &Config{
		GRPCAddr: ":50051",
		HTTPAddr: ":8080",
		Log: LogConfig{
			Level: "info",
		},
		Store: StoreConfig{
			Driver:     DriverRedis,
			SQLitePath: "roster.db",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
		},
		PokeAPI: PokeAPIConfig{
			Timeout:  10 * time.Second,
			CacheTTL: 24 * time.Hour,
		},
		Session: SessionConfig{
			IdleTimeout:   30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Roster: RosterConfig{
			Capacity: 6,
		},
	}
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("grpc_addr", c.GRPCAddr, vb)
	errors.ValidateRequired("http_addr", c.HTTPAddr, vb)
	errors.ValidateEnum("log.level", c.Log.Level, []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("store.driver", c.Store.Driver, []string{DriverRedis, DriverSQLite, DriverMemory}, vb)

	if c.Store.Driver == DriverSQLite {
		errors.ValidateRequired("store.sqlite_path", c.Store.SQLitePath, vb)
	}
	if c.NeedsRedis() {
		errors.ValidateRequired("redis.addr", c.Redis.Addr, vb)
	}
	if c.Roster.Capacity < 1 {
		vb.Field("roster.capacity", "must be positive")
	}
	if c.Session.IdleTimeout <= 0 {
		vb.Field("session.idle_timeout", "must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		vb.Field("session.sweep_interval", "must be positive")
	}
	for token, id := range c.Auth.Tokens {
		if token == "" || id.UserID == "" {
			vb.Field("auth.tokens", "every token needs a user_id")
			break
		}
	}

	return vb.Build()
}

// NeedsRedis reports whether any component will dial Redis. The species
// cache is skipped for the memory driver so the server can run standalone.
func (c *Config) NeedsRedis() bool {
	return c.Store.Driver != DriverMemory
}
