package workspace

import (
	"strings"

	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/extras"
	"github.com/texlab-project/texlab-core/internal/latexsyntax"
	"github.com/texlab-project/texlab-core/internal/source"
)

// latexExtensions lists the suffixes whose content is real LaTeX prose and
// therefore worth running the CST parser over. Note this deliberately
// excludes ".aux": db.LanguageFromExtension maps it to LanguageLaTeX for
// historical reasons (aux entries share LaTeX's brace-group lexical shape),
// but an .aux file's body is \newlabel/\newcommand machinery, not prose, so
// Analyzer.Extras never hands it to the LaTeX parser. Nothing in this package
// scans .aux content with extras.ParseAux either, so the Extras computed here
// carry no label numbers from the .aux file.
var latexExtensions = map[string]bool{
	".tex": true, ".sty": true, ".cls": true, ".def": true, ".lco": true, ".rnw": true,
}

func isLatexSource(uri string) bool {
	ext := extOf(uri)
	return latexExtensions[ext]
}

func extOf(uri string) string {
	base := uri
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return base[i:]
	}
	return ""
}

// Analyzer wraps the memo tables backing every L3/L4 derived query: per-
// document Extras (fine-grained, DocMemo-keyed) and workspace-wide
// compilation units / project ordering (coarse, EpochMemo-keyed), per
// spec.md §9(a)'s two-tier memoization strategy.
type Analyzer struct {
	extras   *db.DocMemo[extrasEntry]
	units    *db.EpochMemo[db.Document, []db.Document]
	ordering *db.EpochMemo[struct{}, *Ordering]
}

type extrasEntry struct {
	value extras.Extras
	ok    bool
}

// NewAnalyzer creates an Analyzer with empty memo tables.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		extras:   db.NewDocMemo[extrasEntry](),
		units:    db.NewEpochMemo[db.Document, []db.Document](),
		ordering: db.NewEpochMemo[struct{}, *Ordering](),
	}
}

// Extras returns doc's memoized L2 extraction, or ok=false if doc is not a
// LaTeX source document (spec.md §4.3 only defines Extras over LaTeX trees).
func (a *Analyzer) Extras(snap *db.Snapshot, doc db.Document) (extras.Extras, bool) {
	uri, ok := snap.URI(doc)
	if !ok || !isLatexSource(uri) {
		return extras.Extras{}, false
	}
	resolver := snap.DistroResolver()
	entry := a.extras.Get(snap, doc, func(input db.DocumentInput) extrasEntry {
		file := source.NewFile(uri, []byte(input.SourceCode))
		tree := latexsyntax.Parse(file, nil)
		ex := extras.ExtractExtras(tree, file.Content, uri, resolver)
		return extrasEntry{value: ex, ok: true}
	})
	return entry.value, entry.ok
}

// Invalidate drops doc's memoized Extras, e.g. after it is deleted from the
// Store so a stale entry never survives the handle's reuse.
func (a *Analyzer) Invalidate(doc db.Document) {
	a.extras.Invalidate(doc)
}
