package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    LogLevel
		expected string
	}{
		{"debug level", LevelDebug, "debug"},
		{"info level", LevelInfo, "info"},
		{"warn level", LevelWarn, "warn"},
		{"error level", LevelError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.level) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.level))
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("Expected default level %s, got %s", LevelInfo, cfg.Level)
	}
	if cfg.Format != FormatText {
		t.Errorf("Expected default format %s, got %s", FormatText, cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("Expected default output 'stderr', got '%s'", cfg.Output)
	}
	if cfg.AddSource {
		t.Error("Expected AddSource to be false by default")
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("stdout text logger", func(t *testing.T) {
		logger, err := New(Config{Level: LevelInfo, Format: FormatText, Output: "stdout"})
		if err != nil {
			t.Fatalf("Failed to create logger: %v", err)
		}
		if logger.config.Level != LevelInfo {
			t.Errorf("Expected level %s, got %s", LevelInfo, logger.config.Level)
		}
	})

	t.Run("stderr json logger", func(t *testing.T) {
		logger, err := New(Config{Level: LevelError, Format: FormatJSON, Output: "stderr"})
		if err != nil {
			t.Fatalf("Failed to create logger: %v", err)
		}
		if logger == nil {
			t.Fatal("Logger should not be nil")
		}
	})

	t.Run("file logger", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "logs", "bench.log")

		logger, err := New(Config{Level: LevelDebug, Format: FormatText, Output: logFile})
		if err != nil {
			t.Fatalf("Failed to create file logger: %v", err)
		}
		if logger == nil {
			t.Fatal("Logger should not be nil")
		}
		if _, err := os.Stat(logFile); os.IsNotExist(err) {
			t.Error("Log file should have been created")
		}
	})

	t.Run("invalid directory for file logger", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}

		_, err := New(Config{Level: LevelInfo, Format: FormatText, Output: filepath.Join(blocker, "test.log")})
		if err == nil {
			t.Error("Expected error for invalid log file path")
		}
	})

	t.Run("unknown log level defaults to info", func(t *testing.T) {
		logger, err := New(Config{Level: LogLevel("unknown"), Format: FormatText, Output: "stdout"})
		if err != nil {
			t.Fatalf("Failed to create logger with unknown level: %v", err)
		}
		if logger.Enabled(context.Background(), slog.LevelDebug) {
			t.Error("Debug should be disabled for the info fallback")
		}
	})
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Format: FormatJSON}, &buf, slog.LevelInfo)

	logger.InfoRun("run finished", "basic", "size", 100)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "run finished" {
		t.Errorf("Expected msg 'run finished', got %v", entry["msg"])
	}
	if entry["variant"] != "basic" {
		t.Errorf("Expected variant 'basic', got %v", entry["variant"])
	}
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	if logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("Discard logger should only be enabled for errors")
	}
	logger.Error("dropped")
}

func TestLoggerWithMethods(t *testing.T) {
	logger := NewDefault()

	tests := []struct {
		name   string
		derive func() *Logger
	}{
		{"WithContext", func() *Logger { return logger.WithContext(context.Background()) }},
		{"WithFields", func() *Logger { return logger.WithFields("key1", "value1") }},
		{"WithComponent", func() *Logger { return logger.WithComponent("bench") }},
		{"WithRunID", func() *Logger { return logger.WithRunID("run-123") }},
		{"WithError", func() *Logger { return logger.WithError(fmt.Errorf("test error")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			derived := tt.derive()
			if derived == nil {
				t.Fatal("Expected a logger")
			}
			if derived == logger {
				t.Error("Expected a new logger instance")
			}
		})
	}
}

func TestSpecializedLoggingMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Format: FormatText}, &buf, slog.LevelDebug)

	logger.InfoRun("run started", "optimized", "size", 500)
	logger.ErrorRun("run failed", "binary_search", fmt.Errorf("boom"))
	logger.InfoReport("report written", "path", "out.csv")
	logger.ErrorReport("report failed", fmt.Errorf("disk full"))
	logger.InfoServer("listening", "address", "127.0.0.1:9100")
	logger.ErrorServer("shutdown failed", fmt.Errorf("timeout"))

	output := buf.String()
	for _, want := range []string{
		"run started", "variant=optimized",
		"run failed", "variant=binary_search", "error=boom",
		"report written", "component=report",
		"report failed", "disk full",
		"listening", "component=server",
		"shutdown failed",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestGlobalLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewWithWriter(Config{Format: FormatText}, &buf, slog.LevelDebug))

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")
	InfoRun("global run", "basic")
	ErrorRun("global run failed", "basic", fmt.Errorf("x"))
	InfoReport("global report")
	ErrorReport("global report failed", fmt.Errorf("y"))
	InfoServer("global server")
	ErrorServer("global server failed", fmt.Errorf("z"))

	output := buf.String()
	for _, want := range []string{
		"debug message", "info message", "warn message", "error message",
		"global run", "global report", "global server",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}
