package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if got := ParseFormat("json"); got != FormatJSON {
		t.Errorf("ParseFormat(json) = %v", got)
	}
	if got := ParseFormat("anything"); got != FormatText {
		t.Errorf("ParseFormat fallback = %v", got)
	}
}

func TestNewJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})
	logger.Info("panel injected", "requestID", "req-1")
	out := buf.String()
	if !strings.Contains(out, `"msg":"panel injected"`) {
		t.Errorf("JSON output missing message: %s", out)
	}
	if !strings.Contains(out, `"requestID":"req-1"`) {
		t.Errorf("JSON output missing attribute: %s", out)
	}
}

func TestNewLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: &buf})
	logger.Info("dropped")
	logger.Warn("kept")
	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info leaked through warn filter: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn missing: %s", out)
	}
}

func TestNop(t *testing.T) {
	// Must not panic and must stay silent.
	Nop().Error("discarded")
}
