// Package query implements the L5 surface spec.md §4.6 describes: read-only
// traversals over a db.Snapshot (plus the workspace package's memoized L3/L4
// derivations) that editors consume directly. Nothing here mutates a Store;
// every function takes a *db.Snapshot and returns a value, following the
// same "pure function of a snapshot" discipline as internal/workspace.
package query

import (
	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/source"
)

// SymbolKind tags one node of a document_symbols/workspace_symbols result.
// Values are domain-specific rather than reused from the LSP SymbolKind
// enumeration (e.g. Section and Environment have no clean LSP equivalent),
// the same way db.Language and diag.Code define their own vocabularies
// instead of borrowing a client-protocol enum.
type SymbolKind uint8

const (
	KindSection SymbolKind = iota
	KindEnvironment
	KindLabel
	KindTheorem
	KindBibEntry
	KindBibField
)

func (k SymbolKind) String() string {
	switch k {
	case KindSection:
		return "Section"
	case KindEnvironment:
		return "Environment"
	case KindLabel:
		return "Label"
	case KindTheorem:
		return "Theorem"
	case KindBibEntry:
		return "BibEntry"
	case KindBibField:
		return "BibField"
	default:
		return "?"
	}
}

// Symbol is one entry of a document's hierarchical outline, spec.md §4.6
// "document_symbols". Range covers the symbol's own declaration (the
// \section{...} invocation, the \begin{...}\end{...} pair, the \label{...}
// call, or the BibTeX entry/field); it does not attempt to extend over a
// section's unmarked body, since spec.md does not ask for that and LaTeX has
// no closing token to bound it against.
type Symbol struct {
	Name     string
	Detail   string
	Kind     SymbolKind
	Range    source.Span
	Children []*Symbol

	// sectionLevel is -1 for every Kind other than KindSection; it drives
	// the nesting stack in buildSymbolList and is not part of the public
	// result shape an editor would render.
	sectionLevel int
}

// Link is one document_links result, spec.md §4.6: a clickable range in the
// source pointing at another document's URI.
type Link struct {
	// SourceRange is the stem range of the explicit link in the document,
	// e.g. the text between the braces of \input{chapter1}.
	SourceRange source.Span
	// TargetURI is the first candidate target currently present in the
	// document set (extras.ExplicitLink.Targets, already preference-ordered).
	TargetURI string
}

// Location names a definition site returned by one of the goto_* functions.
type Location struct {
	Range source.Span
}

// FeatureRequest is the envelope handed to the external collaborators
// spec.md §4.6 lists as out of scope for this module: completion, hover,
// references, rename, formatting, forward_search, and build. This package
// only defines the shape; implementing any of those features is left to the
// editor bridge (spec.md's Non-goals), grounded on the same request-value
// pattern the teacher's diagnose.DiagnoseOptions/FileOverlay pair uses to
// hand a read-only view of workspace state to an external analysis step.
type FeatureRequest struct {
	Snapshot *db.Snapshot
	Document db.Document
	Params   any
}
