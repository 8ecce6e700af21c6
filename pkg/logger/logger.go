// Package logger builds the zap loggers handed to the codecs.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the log encoding.
type Format string

// Log formats.
const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// ParseFormat parses a format name. The empty string means console.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatConsole:
		return FormatConsole, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown log format: %s (supported: console, json)", s)
	}
}

// ParseLevel parses a level name ("debug", "info", "warn", "error").
// The empty string means info; "none" disables logging.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "":
		return zapcore.InfoLevel, nil
	case "none", "off":
		return zapcore.FatalLevel + 1, nil
	}
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level: %s", s)
	}
	return level, nil
}

// New creates a logger writing to output at the given level and format.
func New(output io.Writer, level, format string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	if f == FormatJSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(output), zap.NewAtomicLevelAt(lvl))
	return zap.New(core).Named("rf2"), nil
}

var defaultLogger atomic.Pointer[zap.Logger]

func init() {
	l, _ := New(os.Stderr, "warn", "console")
	defaultLogger.Store(l)
}

// Default returns the default logger.
func Default() *zap.Logger {
	return defaultLogger.Load()
}

// SetDefault sets the default logger. A nil logger disables logging.
func SetDefault(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	defaultLogger.Store(l)
}
