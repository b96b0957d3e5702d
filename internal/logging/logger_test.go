package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/plan-forecast/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input     string
		expected  zapcore.Level
		wantError bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"", zapcore.InfoLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantError {
				t.Fatalf("ParseLevel(%q) error = %v, wantError %v", tt.input, err, tt.wantError)
			}
			if got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		config    config.LoggingConfig
		override  string
		enabled   zapcore.Level
		disabled  zapcore.Level
		wantError bool
	}{
		{"Defaults", config.LoggingConfig{}, "", zapcore.InfoLevel, zapcore.DebugLevel, false},
		{"Console debug", config.LoggingConfig{Level: "debug", Format: "console"}, "", zapcore.DebugLevel, zapcore.DebugLevel - 1, false},
		{"Override wins", config.LoggingConfig{Level: "debug"}, "error", zapcore.ErrorLevel, zapcore.WarnLevel, false},
		{"Invalid format", config.LoggingConfig{Format: "xml"}, "", 0, 0, true},
		{"Invalid level", config.LoggingConfig{Level: "loud"}, "", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config, tt.override)
			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if !logger.Core().Enabled(tt.enabled) {
				t.Errorf("expected %v to be enabled", tt.enabled)
			}
			if logger.Core().Enabled(tt.disabled) {
				t.Errorf("expected %v to be disabled", tt.disabled)
			}
		})
	}
}

func TestNewWithOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "plan.log")

	logger, err := New(config.LoggingConfig{Level: "info", Format: "json", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("hello", zap.String("op", "logging.TestNewWithOutputFile"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"op":"logging.TestNewWithOutputFile"`) {
		t.Errorf("log file missing entry: %s", data)
	}
}
