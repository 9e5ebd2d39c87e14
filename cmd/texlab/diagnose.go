package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/spf13/cobra"

	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/diag"
	"github.com/texlab-project/texlab-core/internal/diagfmt"
	"github.com/texlab-project/texlab-core/internal/source"
	"github.com/texlab-project/texlab-core/internal/workspace"
)

var diagnoseCmd = &cobra.Command{
	Use:          "diagnose [paths...]",
	Short:        "Batch-analyze LaTeX/BibTeX files or directories and print diagnostics",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runDiagnose,
}

func init() {
	diagnoseCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|table)")
	diagnoseCmd.Flags().Bool("notes", true, "include secondary notes in output")
	diagnoseCmd.Flags().Bool("fixes", true, "include suggested fixes in output")
	diagnoseCmd.Flags().Bool("preview", false, "include a rendered before/after preview for each fix")
	diagnoseCmd.Flags().Bool("fullpath", false, "print absolute paths instead of paths relative to the working directory")
}

// pathToFileURI converts a filesystem path to a file:// URI. Kept local to
// cmd/texlab since internal/lsp's uriToPath/pathToURI are unexported --
// they serve the LSP transport's own wire format, not the CLI's argv.
func pathToFileURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}

// collectSourceFiles expands paths (files or directories) into a flat list:
// files are kept as given, and directories are walked recursively for every
// file whose extension db.LanguageFromExtension recognizes.
func collectSourceFiles(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			lang := db.LanguageFromExtension(filepath.Ext(path))
			if lang != db.LanguageUnknown {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}
	return out, nil
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to read format flag: %w", err)
	}
	showNotes, err := cmd.Flags().GetBool("notes")
	if err != nil {
		return fmt.Errorf("failed to read notes flag: %w", err)
	}
	showFixes, err := cmd.Flags().GetBool("fixes")
	if err != nil {
		return fmt.Errorf("failed to read fixes flag: %w", err)
	}
	showPreview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to read preview flag: %w", err)
	}
	fullpath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to read fullpath flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to read max-diagnostics flag: %w", err)
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to read color flag: %w", err)
	}

	files, err := collectSourceFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .tex/.bib/.log files found in the given paths")
	}

	store := db.NewStore()
	wd, err := os.Getwd()
	if err == nil {
		store.SetCurrentDirectory(wd)
	}
	analyzer := workspace.NewAnalyzer()

	var roots []db.Document
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		uri := pathToFileURI(path)
		lang := db.LanguageFromExtension(filepath.Ext(path))
		doc := store.Upsert(uri, db.DocumentInput{
			SourceCode: string(content),
			Language:   lang,
			Visibility: db.Visible,
		})
		roots = append(roots, doc)
	}
	for _, doc := range roots {
		workspace.Discover(analyzer, store, doc)
	}

	snap := store.Snapshot()
	pathMode := diagfmt.PathModeRelative
	if fullpath {
		pathMode = diagfmt.PathModeAbsolute
	}

	var targets []db.Document
	for _, doc := range snap.AllDocuments() {
		input, ok := snap.Document(doc)
		if !ok || input.Visibility != db.Visible {
			continue
		}
		targets = append(targets, doc)
	}

	// Each document's Diagnose call is independent and reads only the
	// shared, read-only snap, so the pool dispatches them concurrently
	// per spec.md §5 rather than the CLI walking them one at a time.
	reports := make([]diagfmt.Report, len(targets))
	pool := db.NewWorkerPool(runtime.GOMAXPROCS(0))
	tasks := make([]db.Task, len(targets))
	for i, doc := range targets {
		i, doc := i, doc
		tasks[i] = func(_ context.Context, snap *db.Snapshot) error {
			uri, _ := snap.URI(doc)
			input, _ := snap.Document(doc)
			bag := analyzer.Diagnose(snap, doc)
			reports[i] = diagfmt.Report{
				URI:  uri,
				File: source.NewFile(uri, []byte(input.SourceCode)),
				Bag:  bag,
			}
			return nil
		}
	}
	if err := pool.Run(cmd.Context(), snap, tasks...); err != nil {
		return fmt.Errorf("failed to analyze documents: %w", err)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].URI < reports[j].URI })

	hasErrors := false
	for _, r := range reports {
		if r.Bag.HasErrors() {
			hasErrors = true
			break
		}
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, reports, diagfmt.PrettyOpts{
			Color:       colorMode != "off",
			Context:     1,
			PathMode:    pathMode,
			BaseDir:     wd,
			ShowNotes:   showNotes,
			ShowFixes:   showFixes,
			ShowPreview: showPreview,
		})
	case "json":
		if err := diagfmt.JSON(os.Stdout, reports, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			BaseDir:          wd,
			Max:              maxDiagnostics,
			IncludeNotes:     showNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  showPreview,
		}); err != nil {
			return fmt.Errorf("failed to write JSON output: %w", err)
		}
	case "sarif":
		if err := diagfmt.Sarif(os.Stdout, reports, diagfmt.SarifRunMeta{
			ToolName:       "texlab",
			ToolVersion:    rootCmd.Version,
			InvocationArgs: args,
		}); err != nil {
			return fmt.Errorf("failed to write SARIF output: %w", err)
		}
	case "table":
		fmt.Fprintln(os.Stdout, diagfmt.Table(buildUnitSummaries(analyzer, snap, reports)))
	default:
		return fmt.Errorf("unknown format %q (want pretty|json|sarif|table)", format)
	}

	if hasErrors {
		os.Exit(1)
	}
	return nil
}

// buildUnitSummaries pairs each analyzed document's diagnostic counts with
// its compilation-unit parent and position in the project's dependency
// ordering, for `texlab diagnose --format=table`.
func buildUnitSummaries(analyzer *workspace.Analyzer, snap *db.Snapshot, reports []diagfmt.Report) []diagfmt.UnitSummary {
	ordering := analyzer.ProjectOrdering(snap)
	orderIndex := make(map[db.Document]int, len(ordering.Order))
	for i, doc := range ordering.Order {
		orderIndex[doc] = i
	}

	rows := make([]diagfmt.UnitSummary, 0, len(reports))
	for _, r := range reports {
		doc, ok := snap.InternLookup(r.URI)
		if !ok {
			continue
		}
		var parentURI string
		if unit := analyzer.CompilationUnit(snap, doc); len(unit) > 0 {
			if parent, ok := analyzer.Parent(snap, unit); ok {
				if uri, ok := snap.URI(parent); ok && uri != r.URI {
					parentURI = uri
				}
			}
		}
		errs, warns := 0, 0
		for _, d := range r.Bag.Items() {
			switch d.Severity {
			case diag.SevError:
				errs++
			case diag.SevWarning:
				warns++
			}
		}
		rows = append(rows, diagfmt.UnitSummary{
			URI:          r.URI,
			Parent:       parentURI,
			OrderIndex:   orderIndex[doc],
			ErrorCount:   errs,
			WarningCount: warns,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].OrderIndex < rows[j].OrderIndex })
	return rows
}
