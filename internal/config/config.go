// ABOUTME: Configuration loader for the howudoin client
// ABOUTME: Loads settings from .env, environment variables, and defaults

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the backend address used when nothing else is configured
const DefaultAPIURL = "http://localhost:8080"

// Environment variable names
const (
	EnvAPIURL      = "HOWUDOIN_API_URL"
	EnvConfigDir   = "HOWUDOIN_CONFIG_DIR"
	EnvHTTPTimeout = "HOWUDOIN_HTTP_TIMEOUT"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFormat   = "LOG_FORMAT"
)

type Config struct {
	APIURL      string
	ConfigDir   string        // holds session.json and debug.log
	HTTPTimeout time.Duration // per-request timeout, default 30s
	LogLevel    string        // debug, info, warn, error
	LogFormat   string        // text, json
}

// Load reads an optional .env file, then the environment.
// A missing .env is not an error; existing environment variables win over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIURL:      getEnv(EnvAPIURL, DefaultAPIURL),
		ConfigDir:   getEnv(EnvConfigDir, DefaultConfigDir()),
		HTTPTimeout: time.Duration(getEnvInt(EnvHTTPTimeout, 30)) * time.Second,
		LogLevel:    getEnv(EnvLogLevel, "warn"),
		LogFormat:   getEnv(EnvLogFormat, "text"),
	}
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "howudoin")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "howudoin")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
	}
	return defaultValue
}
