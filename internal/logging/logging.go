// Package logging builds the zap logger used for diagnostics.
//
// User-facing output (tree lines, per-file results) is written directly to the
// command's output streams. The logger only carries warnings and debug traces,
// and always writes to stderr unless a writer is supplied.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config defines logger configuration.
type Config struct {
	Level  string // "debug", "info", "warn", "error"
	JSON   bool
	Output io.Writer // defaults to os.Stderr
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{Level: "warn"}
}

// New creates a logger with the provided configuration.
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var enc zapcore.Encoder
	if cfg.JSON {
		enc = zapcore.NewJSONEncoder(encoderConfig(false))
	} else {
		enc = zapcore.NewConsoleEncoder(encoderConfig(true))
	}

	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(out)), zap.NewAtomicLevelAt(level))
	return zap.New(core), nil
}

// NewNop returns a logger that discards everything.
func NewNop() *zap.Logger {
	return zap.NewNop()
}

// ParseLevel converts a level name to zapcore.Level. An empty name means warn.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.WarnLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.WarnLevel, err
	}
	return l, nil
}

// ParseFormat reports whether format selects JSON output. An empty format means console.
func ParseFormat(format string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console":
		return false, nil
	case "json":
		return true, nil
	default:
		return false, fmt.Errorf("invalid log format %q: want console or json", format)
	}
}

func encoderConfig(console bool) zapcore.EncoderConfig {
	if console {
		return zapcore.EncoderConfig{
			LevelKey:       "L",
			NameKey:        "N",
			MessageKey:     "M",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		}
	}

	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
}
