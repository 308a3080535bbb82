// Package logging builds the zap loggers shared by the dashboard processes.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Settings selects the logger encoding and threshold.
type Settings struct {
	// Debug switches to the human-readable development encoder at debug level.
	Debug bool
	// Level overrides the threshold ("debug", "info", "warn", "error").
	Level string `env:"PTAG_LOG_LEVEL"`
}

// New builds a logger for one service. Production output is JSON on stderr.
func New(service string, settings Settings) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if settings.Debug {
		cfg = zap.NewDevelopmentConfig()
	}
	if level := strings.TrimSpace(settings.Level); level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	if service = strings.TrimSpace(service); service != "" {
		logger = logger.With(zap.String("service", service))
	}
	return logger, nil
}
