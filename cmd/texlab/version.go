package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/texlab-project/texlab-core/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print texlab version information",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include the git commit hash")
	versionCmd.Flags().Bool("message", false, "include the git commit message")
	versionCmd.Flags().Bool("date", false, "include the build date")
	versionCmd.Flags().Bool("full", false, "include every available build detail")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	hash, err := cmd.Flags().GetBool("hash")
	if err != nil {
		return fmt.Errorf("failed to read hash flag: %w", err)
	}
	message, err := cmd.Flags().GetBool("message")
	if err != nil {
		return fmt.Errorf("failed to read message flag: %w", err)
	}
	date, err := cmd.Flags().GetBool("date")
	if err != nil {
		return fmt.Errorf("failed to read date flag: %w", err)
	}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return fmt.Errorf("failed to read full flag: %w", err)
	}

	bold := color.New(color.Bold)
	bold.Fprintf(os.Stdout, "texlab %s\n", version.VersionString())

	if (hash || full) && version.GitCommit != "" {
		fmt.Fprintf(os.Stdout, "commit:  %s\n", version.GitCommit)
	}
	if (message || full) && version.GitMessage != "" {
		fmt.Fprintf(os.Stdout, "message: %s\n", version.GitMessage)
	}
	if (date || full) && version.BuildDate != "" {
		fmt.Fprintf(os.Stdout, "built:   %s\n", version.BuildDate)
	}
	return nil
}
