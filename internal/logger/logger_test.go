package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := parseLevel(tc.in); got != tc.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestInit_JSONFormat(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	Init(&buf, "info", "json")
	slog.Info("hello", "user", "u1")

	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

func TestInit_LevelFilters(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	Init(&buf, "warn", "text")
	slog.Info("quiet")
	slog.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("expected info message to be filtered at warn level")
	}
	if !strings.Contains(out, "loud") {
		t.Error("expected warn message to be logged")
	}
}

func TestInitFile_WritesDebugLog(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	dir := filepath.Join(t.TempDir(), "cfg")

	if err := InitFile(dir, "debug", "text"); err != nil {
		t.Fatalf("InitFile failed: %v", err)
	}
	slog.Debug("written to file")
	Close()

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("expected debug.log: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("expected message in debug.log, got %q", string(data))
	}
}

func TestInitFile_EmptyDirDiscards(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	if err := InitFile("", "debug", "text"); err != nil {
		t.Fatalf("expected no error for empty dir, got %v", err)
	}
	slog.Info("discarded")
}
