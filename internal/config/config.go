// Package config loads server configuration from TRENCHTURN_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/trenchturn/internal/engine"
	"github.com/KirkDiggler/trenchturn/internal/errors"
)

// Config is the process configuration
type Config struct {
	GRPCPort int `env:"TRENCHTURN_GRPC_PORT" envDefault:"50051"`

	// RedisAddr selects the Redis event feed; empty keeps feeds in memory
	RedisAddr   string        `env:"TRENCHTURN_REDIS_ADDR"`
	RedisTLS    bool          `env:"TRENCHTURN_REDIS_TLS" envDefault:"false"`
	EventLogTTL time.Duration `env:"TRENCHTURN_EVENT_LOG_TTL" envDefault:"24h"`

	TurnBudget      time.Duration `env:"TRENCHTURN_TURN_BUDGET" envDefault:"12s"`
	OrderPolicy     string        `env:"TRENCHTURN_ORDER_POLICY" envDefault:"player_first"`
	MaxDebt         time.Duration `env:"TRENCHTURN_MAX_DEBT" envDefault:"0s"`
	ProgressPerPass time.Duration `env:"TRENCHTURN_PROGRESS_PER_PASS" envDefault:"1s"`
	CheckInvariants bool          `env:"TRENCHTURN_CHECK_INVARIANTS" envDefault:"false"`

	EventLogSize      int `env:"TRENCHTURN_EVENT_LOG_SIZE" envDefault:"100"`
	BattlefieldWidth  int `env:"TRENCHTURN_BATTLEFIELD_WIDTH" envDefault:"100"`
	BattlefieldHeight int `env:"TRENCHTURN_BATTLEFIELD_HEIGHT" envDefault:"100"`

	LogLevel string `env:"TRENCHTURN_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

// Validate checks ranges and enums
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRange("GRPCPort", c.GRPCPort, 1, 65535, vb)
	errors.ValidateDurationRange("TurnBudget", c.TurnBudget, engine.MinBaseDuration, engine.MaxBaseDuration, vb)
	if _, err := engine.ParseOrderPolicy(c.OrderPolicy); err != nil {
		vb.Fieldf("OrderPolicy", "must be one of: %s", strings.Join(engine.OrderPolicyNames(), ", "))
	}
	if c.MaxDebt < 0 {
		vb.InvalidField("MaxDebt", "must not be negative")
	}
	if c.ProgressPerPass <= 0 {
		vb.InvalidField("ProgressPerPass", "must be positive")
	}
	if c.EventLogTTL <= 0 {
		vb.InvalidField("EventLogTTL", "must be positive")
	}
	errors.ValidateRange("EventLogSize", c.EventLogSize, 1, 10000, vb)
	errors.ValidateRange("BattlefieldWidth", c.BattlefieldWidth, 1, 1000, vb)
	errors.ValidateRange("BattlefieldHeight", c.BattlefieldHeight, 1, 1000, vb)
	errors.ValidateEnum("LogLevel", strings.ToLower(c.LogLevel), []string{"debug", "info", "warn", "error"}, vb)

	return vb.Build()
}

// Policy returns the parsed order policy
func (c *Config) Policy() engine.OrderPolicy {
	p, err := engine.ParseOrderPolicy(c.OrderPolicy)
	if err != nil {
		return engine.OrderPlayerFirst
	}
	return p
}

// SlogLevel maps LogLevel onto slog
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
