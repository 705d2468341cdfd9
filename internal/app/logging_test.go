package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = '%s', expected '%s'", tt.level, got, tt.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		zap      zapcore.Level
	}{
		{"debug", LogLevelDebug, zapcore.DebugLevel},
		{"DEBUG", LogLevelDebug, zapcore.DebugLevel},
		{"info", LogLevelInfo, zapcore.InfoLevel},
		{"warn", LogLevelWarn, zapcore.WarnLevel},
		{"warning", LogLevelWarn, zapcore.WarnLevel},
		{"WARNING", LogLevelWarn, zapcore.WarnLevel},
		{"error", LogLevelError, zapcore.ErrorLevel},
		{"unknown", LogLevelInfo, zapcore.InfoLevel},
		{"", LogLevelInfo, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		got := ParseLogLevel(tt.input)
		if got != tt.expected {
			t.Errorf("ParseLogLevel('%s') = %d, expected %d", tt.input, got, tt.expected)
		}
		if got.Zap() != tt.zap {
			t.Errorf("ParseLogLevel('%s').Zap() = %s, expected %s", tt.input, got.Zap(), tt.zap)
		}
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  zap.NewAtomicLevelAt(zapcore.InfoLevel),
		Output: &buf,
	})

	logger.Debug("hidden")
	logger.Info("> Add cube", zap.String("mode", "Sketch"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "> Add cube" || entry["mode"] != "Sketch" || entry["logger"] != "stagecraft" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestNewLoggerLevelChangesAtRuntime(t *testing.T) {
	var buf bytes.Buffer
	level := zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	logger := NewLogger(LoggerConfig{Level: level, Output: &buf, Development: true})

	logger.Info("before")
	level.SetLevel(zapcore.InfoLevel)
	logger.Info("after")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Error("info logged while level was error")
	}
	if !strings.Contains(out, "after") {
		t.Error("info not logged after lowering the level")
	}
}

func TestNewLoggerDefaults(t *testing.T) {
	logger := NewLogger(LoggerConfig{})
	if !logger.Core().Enabled(zapcore.InfoLevel) || logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("default logger should log at info")
	}
}
