// ABOUTME: Root command for the howudoin CLI
// ABOUTME: Handles global flags, configuration, logging, and session wiring

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/config"
	"github.com/howudoin/howudoin-cli/internal/logger"
	"github.com/howudoin/howudoin-cli/internal/session"
	"github.com/howudoin/howudoin-cli/internal/viewmodel"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
	configDir  string
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "howudoin",
	Short: "Terminal client for the Howudoin messaging service",
	Long: `howudoin is a command-line client for the Howudoin messaging backend.

Log in once, then manage friends, chat directly, and run group conversations
from scripts or the interactive TUI (howudoin tui).

Exit codes:
  0 - Success
  1 - Operation rejected (validation or backend refusal)
  2 - Error (connectivity, authentication, no session)

Environment Variables:
  HOWUDOIN_API_URL       Backend API URL (default: http://localhost:8080)
  HOWUDOIN_CONFIG_DIR    Directory for session.json and debug.log
  HOWUDOIN_HTTP_TIMEOUT  Request timeout in seconds (default: 30)
  LOG_LEVEL              debug, info, warn, error (default: warn)
  LOG_FORMAT             text, json (default: text)`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides HOWUDOIN_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (overrides HOWUDOIN_CONFIG_DIR)")
}

// GetAPIURL returns the API URL from flag, env, .env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	return config.Load().APIURL
}

// GetConfigDir returns the config directory from flag, env, .env, or default
func GetConfigDir() string {
	if configDir != "" {
		return configDir
	}
	return config.Load().ConfigDir
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// deps is what a command needs to reach the backend as the stored user
type deps struct {
	api   *client.Client
	store *session.Store
	file  *session.File
}

// loadDeps restores the persisted session and builds a client that
// authenticates with it
func loadDeps() (*deps, error) {
	cfg := config.Load()
	file := session.NewFile(GetConfigDir())

	s, err := file.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	store := session.NewStore(s)
	api := client.New(GetAPIURL(),
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithTokenSource(store),
	)
	return &deps{api: api, store: store, file: file}, nil
}

// persist writes the in-memory session back to disk
func (d *deps) persist() error {
	s, ok := d.store.Current()
	if !ok {
		return d.file.Clear()
	}
	if err := d.file.Save(s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// runWithSignals runs fn with a context canceled on SIGINT/SIGTERM and
// exits with its code when non-zero
func runWithSignals(fn func(ctx context.Context, w io.Writer) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := fn(ctx, os.Stdout)
	cancel()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// exitCodeFor maps an error to the documented exit codes
func exitCodeFor(err error) int {
	var alert *viewmodel.Alert
	if !errors.As(err, &alert) {
		return 2
	}
	if errors.Is(err, viewmodel.ErrNoSession) ||
		errors.Is(err, client.ErrUnauthorized) ||
		errors.Is(err, client.ErrTransport) {
		return 2
	}
	return 1
}

// fail prints err and returns its exit code
func fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)
	return exitCodeFor(err)
}
