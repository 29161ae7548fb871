package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	result := String()

	if !strings.HasPrefix(result, "coffee-api version ") {
		t.Errorf("String() = %q, should start with 'coffee-api version'", result)
	}
	if !strings.Contains(result, Short()) {
		t.Errorf("String() = %q, should contain version %q", result, Short())
	}
	if !strings.Contains(result, "(built "+BuildTime+")") {
		t.Errorf("String() = %q, should contain build time", result)
	}
}

func TestDefaultValues(t *testing.T) {
	if Version != "dev" {
		t.Errorf("Version = %q, want 'dev'", Version)
	}
	if BuildTime != "unknown" {
		t.Errorf("BuildTime = %q, want 'unknown'", BuildTime)
	}
	if Short() == "" {
		t.Error("Short() must not be empty")
	}
}
