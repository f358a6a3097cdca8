// Package logging provides the diagnostic sink used by the filesystem and
// command-runner packages.
//
// Diagnostics are severity-tagged lines only; nothing in this module uses the
// logger for control flow. Library code defaults to a no-op logger so that it
// is silent unless a caller wires one in.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents different logging levels
type LogLevel int

// LogLevelDebug represents debug logging level
const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the lower-case name of the level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return "unknown"
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogConfig holds configuration for a logger.
type LogConfig struct {
	// Level sets the minimum log level (debug, info, warn, error)
	Level LogLevel
	// Output receives the log lines; defaults to os.Stderr
	Output io.Writer
	// EnableCallerInfo includes file and line number in logs
	EnableCallerInfo bool
	// JSON switches from the text handler to the JSON handler
	JSON bool
}

// DefaultLogConfig returns a default logging configuration.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  LogLevelWarn,
		Output: os.Stderr,
	}
}

// Logger provides structured logging. A nil *Logger and the logger returned
// by NewNopLogger discard everything.
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a new structured logger with the given configuration.
func NewLogger(config LogConfig) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     config.Level.slogLevel(),
		AddSource: config.EnableCallerInfo,
	}

	var handler slog.Handler
	if config.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &Logger{logger: slog.New(handler)}
}

// NewNopLogger creates a no-op logger that discards all log messages.
func NewNopLogger() *Logger {
	return &Logger{}
}

// FromSlog wraps an existing slog.Logger.
func FromSlog(l *slog.Logger) *Logger {
	return &Logger{logger: l}
}

// Debug logs debug-level messages
func (l *Logger) Debug(msg string, args ...any) {
	if l != nil && l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}

// Info logs info-level messages
func (l *Logger) Info(msg string, args ...any) {
	if l != nil && l.logger != nil {
		l.logger.Info(msg, args...)
	}
}

// Warn logs warning-level messages
func (l *Logger) Warn(msg string, args ...any) {
	if l != nil && l.logger != nil {
		l.logger.Warn(msg, args...)
	}
}

// Error logs error-level messages
func (l *Logger) Error(msg string, args ...any) {
	if l != nil && l.logger != nil {
		l.logger.Error(msg, args...)
	}
}

// With returns a logger with additional context fields
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.logger == nil {
		return l
	}
	return &Logger{logger: l.logger.With(args...)}
}

// WithOperation returns a logger with operation context
func (l *Logger) WithOperation(op Operation) *Logger {
	return l.With("operation", string(op))
}

// WithPath returns a logger with path context
func (l *Logger) WithPath(path string) *Logger {
	return l.With("path", path)
}

// Operation names a filesystem or command operation for logging.
type Operation string

// Operation constants
const (
	OpStat     Operation = "stat"
	OpCreate   Operation = "create"
	OpMakePath Operation = "make_path"
	OpRealpath Operation = "realpath"
	OpMove     Operation = "move"
	OpCopy     Operation = "copy"
	OpRemove   Operation = "remove"
	OpSymlink  Operation = "symlink"
	OpUnlink   Operation = "unlink"
	OpChmod    Operation = "chmod"
	OpChown    Operation = "chown"
	OpList     Operation = "list"
	OpOpen     Operation = "open"
	OpExec     Operation = "exec"
)

// LogOperation logs the outcome of an operation. Failures are logged at
// error level with the error text, successes at debug level.
func LogOperation(logger *Logger, op Operation, path string, err error) {
	if logger == nil {
		return
	}

	if err != nil {
		logger.Error("operation failed",
			"operation", string(op),
			"path", path,
			"error", err.Error())
		return
	}

	logger.Debug("operation completed",
		"operation", string(op),
		"path", path)
}

// ParseLogLevel parses a string log level into a LogLevel.
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LogLevelDebug, nil
	case "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}
