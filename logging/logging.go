// logging/logging.go
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Levels accepted by BuildLogger, lower-case.
var Levels = []string{"debug", "info", "warn", "error", "dpanic", "panic", "fatal"}

// BootstrapLogger is used before configuration is known. It writes
// human-readable lines to stderr at info level and never fails.
func BootstrapLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// ParseLevel maps a case-insensitive level name to a zapcore.Level.
func ParseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q (want one of %s)", level, strings.Join(Levels, ", "))
	}
	return l, nil
}

// BuildLogger returns a JSON logger for env "prod" and a console logger
// otherwise. An unknown level falls back to info with a note on stderr.
func BuildLogger(level, env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := ParseLevel(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: %v; using info\n", err)
	}
	cfg.Level = zap.NewAtomicLevelAt(l)

	return cfg.Build()
}

// MustBuildLogger exits the process if the logger cannot be built.
func MustBuildLogger(level, env string) *zap.Logger {
	logger, err := BuildLogger(level, env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
