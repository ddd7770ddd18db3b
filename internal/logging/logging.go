// Package logging provides structured logging functionality using Go's slog package.
// It supports both text and JSON output formats, configurable log levels,
// and run-aware logging for the sortbench application.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// File permissions for directories and log files.
	logDirPerm  = 0750
	logFilePerm = 0600
)

// LogLevel represents the available log levels.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// LogFormat represents the available log formats.
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// Config holds logging configuration.
type Config struct {
	Level     LogLevel  `yaml:"level" json:"level"`
	Format    LogFormat `yaml:"format" json:"format"`
	Output    string    `yaml:"output" json:"output"`
	AddSource bool      `yaml:"add_source" json:"add_source"`
}

// DefaultConfig returns a default logging configuration.
// Logs go to stderr so that stdout only carries benchmark rows.
func DefaultConfig() Config {
	return Config{
		Level:     LevelInfo,
		Format:    FormatText,
		Output:    "stderr",
		AddSource: false,
	}
}

// Logger wraps slog.Logger with additional functionality.
type Logger struct {
	*slog.Logger
	config Config
}

// New creates a new structured logger with the given configuration.
func New(cfg Config) (*Logger, error) {
	var level slog.Level
	switch strings.ToLower(string(cfg.Level)) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var writer io.Writer
	switch cfg.Output {
	case "stdout":
		writer = os.Stdout
	case "stderr", "":
		writer = os.Stderr
	default:
		// Assume it's a file path
		if err := os.MkdirAll(filepath.Dir(cfg.Output), logDirPerm); err != nil {
			return nil, err
		}
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
		if err != nil {
			return nil, err
		}
		writer = file
	}

	return NewWithWriter(cfg, writer, level), nil
}

// NewWithWriter creates a logger writing to w. Used by tests and by callers
// that already own an output stream.
func NewWithWriter(cfg Config, w io.Writer, level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
		config: cfg,
	}
}

// NewDefault creates a logger with default configuration.
func NewDefault() *Logger {
	logger, _ := New(DefaultConfig())
	return logger
}

// NewDiscard creates a logger that drops everything.
func NewDiscard() *Logger {
	return NewWithWriter(DefaultConfig(), io.Discard, slog.LevelError)
}

// WithContext adds context to the logger for structured logging.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return &Logger{
		Logger: l.With(),
		config: l.config,
	}
}

// WithFields adds structured fields to the logger.
func (l *Logger) WithFields(fields ...any) *Logger {
	return &Logger{
		Logger: l.With(fields...),
		config: l.config,
	}
}

// WithComponent adds a component field to the logger.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithFields("component", component)
}

// WithRunID adds a benchmark run ID field to the logger.
func (l *Logger) WithRunID(runID string) *Logger {
	return l.WithFields("run_id", runID)
}

// WithError adds an error field to the logger.
func (l *Logger) WithError(err error) *Logger {
	return l.WithFields("error", err)
}

// InfoRun logs benchmark run information.
func (l *Logger) InfoRun(msg, variant string, fields ...any) {
	allFields := append([]any{"variant", variant}, fields...)
	l.Info(msg, allFields...)
}

// ErrorRun logs benchmark run errors.
func (l *Logger) ErrorRun(msg, variant string, err error, fields ...any) {
	allFields := append([]any{"variant", variant, "error", err}, fields...)
	l.Error(msg, allFields...)
}

// InfoReport logs report-related information.
func (l *Logger) InfoReport(msg string, fields ...any) {
	allFields := append([]any{"component", "report"}, fields...)
	l.Info(msg, allFields...)
}

// ErrorReport logs report-related errors.
func (l *Logger) ErrorReport(msg string, err error, fields ...any) {
	allFields := append([]any{"component", "report", "error", err}, fields...)
	l.Error(msg, allFields...)
}

// InfoServer logs server-related information.
func (l *Logger) InfoServer(msg string, fields ...any) {
	allFields := append([]any{"component", "server"}, fields...)
	l.Info(msg, allFields...)
}

// ErrorServer logs server-related errors.
func (l *Logger) ErrorServer(msg string, err error, fields ...any) {
	allFields := append([]any{"component", "server", "error", err}, fields...)
	l.Error(msg, allFields...)
}

// Global logger instance - can be replaced for testing.
var defaultLogger = NewDefault()

// SetDefault sets the default logger instance.
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the default logger instance.
func Default() *Logger {
	return defaultLogger
}

// Debug logs at debug level using the default logger.
func Debug(msg string, fields ...any) {
	defaultLogger.Debug(msg, fields...)
}

// Info logs at info level using the default logger.
func Info(msg string, fields ...any) {
	defaultLogger.Info(msg, fields...)
}

// Warn logs at warn level using the default logger.
func Warn(msg string, fields ...any) {
	defaultLogger.Warn(msg, fields...)
}

// Error logs at error level using the default logger.
func Error(msg string, fields ...any) {
	defaultLogger.Error(msg, fields...)
}

// InfoRun logs run information using the default logger.
func InfoRun(msg, variant string, fields ...any) {
	defaultLogger.InfoRun(msg, variant, fields...)
}

// ErrorRun logs run errors using the default logger.
func ErrorRun(msg, variant string, err error, fields ...any) {
	defaultLogger.ErrorRun(msg, variant, err, fields...)
}

// InfoReport logs report information using the default logger.
func InfoReport(msg string, fields ...any) {
	defaultLogger.InfoReport(msg, fields...)
}

// ErrorReport logs report errors using the default logger.
func ErrorReport(msg string, err error, fields ...any) {
	defaultLogger.ErrorReport(msg, err, fields...)
}

// InfoServer logs server information using the default logger.
func InfoServer(msg string, fields ...any) {
	defaultLogger.InfoServer(msg, fields...)
}

// ErrorServer logs server errors using the default logger.
func ErrorServer(msg string, err error, fields ...any) {
	defaultLogger.ErrorServer(msg, err, fields...)
}
