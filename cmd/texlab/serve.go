package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/distro"
	"github.com/texlab-project/texlab-core/internal/lsp"
	"github.com/texlab-project/texlab-core/internal/workspace"
)

var serveCmd = &cobra.Command{
	Use:          "serve",
	Short:        "Run the texlab language server over stdio",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	serveCmd.Flags().Duration("debounce", 0, "diagnostics debounce interval (0 uses the server default)")
	serveCmd.Flags().String("distro-helper", "", "path to an external kpsewhich-like helper probed once at startup for TeX distribution component resolution (unset disables the probe)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to read debounce flag: %w", err)
	}

	traceLSP, err := cmd.Root().PersistentFlags().GetBool("trace")
	if err != nil {
		return fmt.Errorf("failed to read trace flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to read max-diagnostics flag: %w", err)
	}

	helperPath, err := cmd.Flags().GetString("distro-helper")
	if err != nil {
		return fmt.Errorf("failed to read distro-helper flag: %w", err)
	}

	store := db.NewStore()
	analyzer := workspace.NewAnalyzer()

	if helperPath != "" {
		resolver, kind := distro.Probe(cmd.Context(), helperPath, nil)
		store.SetDistro(kind, resolver)
		if traceLSP {
			fmt.Fprintf(os.Stderr, "texlab: distro probe reported %s\n", distro.KindName(kind))
		}
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, store, analyzer, lsp.ServerOptions{
		Debounce:       debounce,
		MaxDiagnostics: maxDiagnostics,
		TraceLSP:       traceLSP,
		// Hooks left unset: completion/hover/references/rename/formatting/
		// build/forward_search are spec.md §4.6's external-collaborator
		// seams, not part of the core binary.
	})

	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
