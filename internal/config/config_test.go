package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/trenchturn/internal/config"
	"github.com/KirkDiggler/trenchturn/internal/engine"
	"github.com/KirkDiggler/trenchturn/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := config.Load()
	s.Require().NoError(err)

	s.Assert().Equal(50051, cfg.GRPCPort)
	s.Assert().Empty(cfg.RedisAddr)
	s.Assert().Equal(12*time.Second, cfg.TurnBudget)
	s.Assert().Equal(engine.OrderPlayerFirst, cfg.Policy())
	s.Assert().Zero(cfg.MaxDebt)
	s.Assert().Equal(time.Second, cfg.ProgressPerPass)
	s.Assert().Equal(100, cfg.EventLogSize)
	s.Assert().Equal(100, cfg.BattlefieldWidth)
	s.Assert().Equal(slog.LevelInfo, cfg.SlogLevel())
}

func (s *ConfigTestSuite) TestOverrides() {
	s.T().Setenv("TRENCHTURN_GRPC_PORT", "6000")
	s.T().Setenv("TRENCHTURN_TURN_BUDGET", "20s")
	s.T().Setenv("TRENCHTURN_ORDER_POLICY", "simultaneous")
	s.T().Setenv("TRENCHTURN_REDIS_ADDR", "localhost:6379")
	s.T().Setenv("TRENCHTURN_LOG_LEVEL", "DEBUG")

	cfg, err := config.Load()
	s.Require().NoError(err)

	s.Assert().Equal(6000, cfg.GRPCPort)
	s.Assert().Equal(20*time.Second, cfg.TurnBudget)
	s.Assert().Equal(engine.OrderSimultaneous, cfg.Policy())
	s.Assert().Equal("localhost:6379", cfg.RedisAddr)
	s.Assert().Equal(slog.LevelDebug, cfg.SlogLevel())
}

func (s *ConfigTestSuite) TestParseError() {
	s.T().Setenv("TRENCHTURN_GRPC_PORT", "trench")

	_, err := config.Load()
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "parse env:")
}

func (s *ConfigTestSuite) TestValidation() {
	testCases := []struct {
		name  string
		key   string
		value string
		field string
	}{
		{name: "budget below minimum", key: "TRENCHTURN_TURN_BUDGET", value: "2s", field: "TurnBudget"},
		{name: "budget above maximum", key: "TRENCHTURN_TURN_BUDGET", value: "1m", field: "TurnBudget"},
		{name: "unknown policy", key: "TRENCHTURN_ORDER_POLICY", value: "alphabetical", field: "OrderPolicy"},
		{name: "negative debt cap", key: "TRENCHTURN_MAX_DEBT", value: "-1s", field: "MaxDebt"},
		{name: "zero progress", key: "TRENCHTURN_PROGRESS_PER_PASS", value: "0s", field: "ProgressPerPass"},
		{name: "empty feed", key: "TRENCHTURN_EVENT_LOG_SIZE", value: "0", field: "EventLogSize"},
		{name: "bad log level", key: "TRENCHTURN_LOG_LEVEL", value: "loud", field: "LogLevel"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.T().Setenv(tc.key, tc.value)

			_, err := config.Load()
			s.Require().Error(err)
			s.Assert().True(errors.IsInvalidArgument(err))

			fields, ok := errors.GetMeta(err)["validation_errors"].(map[string][]string)
			s.Require().True(ok)
			s.Assert().Contains(fields, tc.field)
		})
	}
}
