package caller

import (
	"strings"
	"testing"
)

func resolveFromHelper() string {
	return Resolve(0)
}

func resolveCallerOfHelper() string {
	return Resolve(1)
}

func TestResolveSelf(t *testing.T) {
	got := resolveFromHelper()
	if !strings.Contains(got, "resolveFromHelper") {
		t.Errorf("Resolve(0) = %q, want the invoking function", got)
	}
	if strings.Contains(got, "/") {
		t.Errorf("Resolve(0) = %q, import path not trimmed", got)
	}
}

func TestResolveCaller(t *testing.T) {
	got := resolveCallerOfHelper()
	if !strings.Contains(got, "TestResolveCaller") {
		t.Errorf("Resolve(1) = %q, want the helper's caller", got)
	}
}

func TestResolveBeyondStack(t *testing.T) {
	if got := Resolve(10000); got != Unknown {
		t.Errorf("Resolve past stack top = %q, want %q", got, Unknown)
	}
}

func TestShorten(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"github.com/debugpanel/debugpanel/pkg/collector.(*Collector).Warn", "collector.(*Collector).Warn"},
		{"main.main", "main.main"},
	}
	for _, tt := range tests {
		if got := shorten(tt.input); got != tt.expected {
			t.Errorf("shorten(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
