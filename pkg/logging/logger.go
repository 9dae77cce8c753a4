package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/adfharrison1/go-arango/pkg/config"
)

// New builds a zap logger from the logging config. Debug level gets the
// development config. Both configs write to stderr.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	logger, err := buildConfig(cfg).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func buildConfig(cfg config.LoggingConfig) zap.Config {
	level := parseLevel(cfg.Level)

	var zc zap.Config
	if level == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if strings.EqualFold(cfg.Format, "json") {
		zc.Encoding = "json"
	} else {
		zc.Encoding = "console"
	}
	return zc
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
