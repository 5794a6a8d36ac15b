// ABOUTME: Interactive terminal UI command
// ABOUTME: Restores the stored session and hands the terminal to the TUI

package cmd

import (
	"context"
	"io"

	"github.com/howudoin/howudoin-cli/internal/config"
	"github.com/howudoin/howudoin-cli/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive terminal UI",
	Long: `Start the interactive terminal UI.

Starts on the home menu when a session is stored, otherwise on the login
screen. Logs are written to debug.log in the config directory.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runTUI)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(ctx context.Context, w io.Writer) int {
	d, err := loadDeps()
	if err != nil {
		return fail(w, err)
	}

	cfg := config.Load()
	err = tui.Run(ctx, tui.Options{
		API:       d.api,
		Store:     d.store,
		File:      d.file,
		ConfigDir: GetConfigDir(),
		LogLevel:  cfg.LogLevel,
		LogFormat: cfg.LogFormat,
	})
	if err != nil {
		return fail(w, err)
	}
	return 0
}
