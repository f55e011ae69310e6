package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("default level = %s, want %s", cfg.Level, LevelInfo)
	}
	if cfg.Pretty {
		t.Error("default pretty should be false")
	}
}

func TestSetupWritesToConfiguredOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := Setup(Config{
		Level:  LevelDebug,
		Pretty: false,
		Output: buf,
	})

	logger.Debug().Str("endpoint", "/items").Msg("executing request")

	output := buf.String()
	if !strings.Contains(output, "executing request") {
		t.Errorf("expected message in output, got %q", output)
	}
	if !strings.Contains(output, `"endpoint":"/items"`) {
		t.Errorf("expected structured field in output, got %q", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    LogLevel
		expected zerolog.Level
	}{
		{LevelDebug, zerolog.DebugLevel},
		{LevelInfo, zerolog.InfoLevel},
		{LevelWarn, zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{LevelError, zerolog.ErrorLevel},
		{"invalid", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewLoggerTagsComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: buf,
	})

	logger := NewLogger("rate-limiter")
	logger.Info().Msg("window slot acquired")

	output := buf.String()
	if !strings.Contains(output, "rate-limiter") {
		t.Errorf("expected component tag in output, got %q", output)
	}
	if !strings.Contains(output, "window slot acquired") {
		t.Errorf("expected message in output, got %q", output)
	}
}

func TestLogLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{
		Level:  LevelWarn,
		Pretty: false,
		Output: buf,
	})

	logger := NewLogger("nuclino-client")

	logger.Debug().Msg("debug message")
	logger.Info().Msg("info message")
	logger.Warn().Msg("warn message")
	logger.Error().Msg("error message")

	output := buf.String()

	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("messages below warn leaked through: %q", output)
	}
	if !strings.Contains(output, "warn message") {
		t.Error("warn message missing at warn level")
	}
	if !strings.Contains(output, "error message") {
		t.Error("error message missing at warn level")
	}
}
