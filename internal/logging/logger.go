// Package logging builds the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"

	"iolist/internal/config"
)

// New builds a logger from the log configuration. Unknown levels fall back
// to info; any format other than "console" logs JSON.
func New(cfg config.LogConfig, environment string) (*zap.Logger, error) {
	var zapConfig zap.Config
	if environment == "development" {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	if cfg.Format == "console" {
		zapConfig.Encoding = "console"
	} else {
		zapConfig.Encoding = "json"
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", "iolist")), nil
}

// Must is New for process entry points; it falls back to a production
// logger rather than running without one.
func Must(cfg config.LogConfig, environment string) *zap.Logger {
	logger, err := New(cfg, environment)
	if err != nil {
		logger, _ = zap.NewProduction()
		logger.Warn("invalid log configuration, using defaults", zap.Error(err))
	}
	return logger
}
