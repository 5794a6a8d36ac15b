// ABOUTME: Tests for the root command and global flag handling
// ABOUTME: Verifies environment variable and flag configuration and exit code mapping

package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/viewmodel"
)

func TestGetAPIURL_Default(t *testing.T) {
	t.Setenv("HOWUDOIN_API_URL", "")
	apiURL = "" // Reset flag

	url := GetAPIURL()
	if url != "http://localhost:8080" {
		t.Errorf("expected default URL http://localhost:8080, got %s", url)
	}
}

func TestGetAPIURL_FromEnv(t *testing.T) {
	t.Setenv("HOWUDOIN_API_URL", "http://backend.example.com")
	apiURL = "" // Reset flag

	url := GetAPIURL()
	if url != "http://backend.example.com" {
		t.Errorf("expected http://backend.example.com, got %s", url)
	}
}

func TestGetAPIURL_FlagOverridesEnv(t *testing.T) {
	t.Setenv("HOWUDOIN_API_URL", "http://backend.example.com")
	apiURL = "http://flag-override.example.com"
	defer func() { apiURL = "" }()

	url := GetAPIURL()
	if url != "http://flag-override.example.com" {
		t.Errorf("expected flag to override env, got %s", url)
	}
}

func TestGetConfigDir_FlagOverridesEnv(t *testing.T) {
	t.Setenv("HOWUDOIN_CONFIG_DIR", "/tmp/from-env")
	configDir = ""

	if got := GetConfigDir(); got != "/tmp/from-env" {
		t.Errorf("expected env config dir, got %s", got)
	}

	configDir = "/tmp/from-flag"
	defer func() { configDir = "" }()
	if got := GetConfigDir(); got != "/tmp/from-flag" {
		t.Errorf("expected flag config dir, got %s", got)
	}
}

func TestJSONOutput(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"plain error", errors.New("disk full"), 2},
		{"validation alert", &viewmodel.Alert{Message: "Please provide a group name."}, 1},
		{"no session", &viewmodel.Alert{Message: "missing", Err: viewmodel.ErrNoSession}, 2},
		{"unauthorized", &viewmodel.Alert{Message: "nope", Err: client.ErrUnauthorized}, 2},
		{"transport", &viewmodel.Alert{Message: "down", Err: fmt.Errorf("dial: %w", client.ErrTransport)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}
