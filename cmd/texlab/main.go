// Package main implements the texlab CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/texlab-project/texlab-core/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "texlab",
	Short: "LaTeX/BibTeX language server and diagnostics CLI",
	Long:  `texlab analyzes LaTeX and BibTeX projects: a stdio language server plus a batch diagnostics CLI.`,
}

var (
	timeoutCancel   context.CancelFunc
	timeoutDuration time.Duration
)

// main configures the root CLI command and executes it, exiting with
// status 1 if execution fails.
func main() {
	rootCmd.Version = version.VersionString()
	rootCmd.PersistentPreRunE = applyTimeout
	rootCmd.PersistentPostRun = cleanupTimeout

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show per document")
	rootCmd.PersistentFlags().Int("timeout", 30, "command timeout in seconds for batch commands (0 disables it; serve never times out)")
	rootCmd.PersistentFlags().Bool("trace", false, "log document changes and the distro probe result to stderr")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func applyTimeout(cmd *cobra.Command, _ []string) error {
	// `serve` runs for the lifetime of the editor session; a command
	// timeout would kill it mid-conversation, so only batch commands
	// (`diagnose`, `version`) honor --timeout.
	if cmd.Name() == serveCmd.Name() {
		return nil
	}

	secs, err := cmd.Root().PersistentFlags().GetInt("timeout")
	if err != nil {
		return fmt.Errorf("failed to read timeout flag: %w", err)
	}
	if secs <= 0 {
		return nil
	}

	timeoutDuration = time.Duration(secs) * time.Second
	ctx, cancel := context.WithTimeout(cmd.Context(), timeoutDuration)
	timeoutCancel = cancel
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	go func() {
		<-ctx.Done()
		if ctx.Err() == context.DeadlineExceeded {
			fmt.Fprintf(os.Stderr, "texlab: command timed out after %s\n", timeoutDuration)
			os.Exit(1)
		}
	}()

	return nil
}

func cleanupTimeout(*cobra.Command, []string) {
	if timeoutCancel != nil {
		timeoutCancel()
		timeoutCancel = nil
	}
}
