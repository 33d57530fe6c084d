// Package logging builds the process logger. Logging is off unless a log file is configured: screendiff writes its results to stdout, so log records go to a file and never to the
// terminal.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLogFile names the environment variable that, if set, is the path of the log file.
const EnvLogFile = "SCREENDIFF_LOG_FILE"

// Options configures New.
type Options struct {
	// File is the path that log records are appended to. If empty, the EnvLogFile environment variable is used. If both are empty, New returns a no-op logger.
	File string

	// Level is one of "debug", "info", "warn", or "error". Empty means "info".
	Level string
}

// New returns a logger that appends JSON records to the configured file, and a function that flushes the logger and closes the file. The logger must not be used after close.
//
// If no file is configured, it returns zap.NewNop() and a no-op close. An error is returned for an unknown level or a file that cannot be opened.
func New(opts Options) (*zap.Logger, func(), error) {
	path := opts.File
	if path == "" {
		path = os.Getenv(EnvLogFile)
	}
	if path == "" {
		return zap.NewNop(), func() {}, nil
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	ws, closeFile, err := zap.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), ws, zap.NewAtomicLevelAt(level))
	logger := zap.New(core, zap.ErrorOutput(zapcore.AddSync(io.Discard)))
	return logger, func() {
		_ = logger.Sync()
		closeFile()
	}, nil
}

// ParseLevel parses a level name. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// OrNop returns l, or a no-op logger if l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
