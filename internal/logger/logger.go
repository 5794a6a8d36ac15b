// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Provides Init() for CLI stderr logging and InitFile() for the TUI debug log.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init configures the default slog logger to write to w.
// level: debug, info, warn, error (default: info)
// format: text, json (default: text)
func Init(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// InitFile points the default logger at <configDir>/debug.log so logging
// does not interfere with the terminal display.
// If configDir is empty, logs are discarded.
func InitFile(configDir, level, format string) error {
	mu.Lock()
	defer mu.Unlock()

	if configDir == "" {
		Init(io.Discard, level, format)
		return nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		Init(io.Discard, level, format)
		return err
	}

	logPath := filepath.Join(configDir, "debug.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		Init(io.Discard, level, format)
		return err
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	Init(f, level, format)
	return nil
}

// Close closes the debug log file, if one is open
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
