package query

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/workspace"
)

// foldCaser normalizes case for comparison the way Unicode case-folding
// defines it, rather than byte-wise strings.ToLower, so a query like "résumé"
// matches "Résumé" regardless of accented-character casing. Grounded on the
// pack's one real use of x/text/cases (gruntwork-io-terragrunt's
// cases.Title(language.English) for signal-name display); workspace_symbols
// needs the Fold form instead, built for caseless matching rather than
// display.
var foldCaser = cases.Fold()

// WorkspaceSymbol is one workspace_symbols(query) result, spec.md §4.6: a
// document_symbols entry tagged with the document it came from.
type WorkspaceSymbol struct {
	Doc    db.Document
	Symbol *Symbol
}

// WorkspaceSymbols concatenates DocumentSymbols across every document in
// snap, keeping only symbols whose name contains every whitespace-separated
// word of query (case-folded), sorted by the same
// (ProjectOrdering, range.start, -range.end) key document_symbols uses.
func WorkspaceSymbols(a *workspace.Analyzer, snap *db.Snapshot, query string) []WorkspaceSymbol {
	words := strings.Fields(foldCaser.String(query))

	var flat []FlatSymbol
	for _, doc := range snap.AllDocuments() {
		symbols, ok := DocumentSymbols(snap, doc)
		if !ok {
			continue
		}
		flat = append(flat, Flatten(a, snap, doc, symbols)...)
	}
	sortFlatSymbols(flat)

	var out []WorkspaceSymbol
	for _, fs := range flat {
		if matchesAllWords(fs.Symbol.Name, words) {
			out = append(out, WorkspaceSymbol{Doc: fs.Doc, Symbol: fs.Symbol})
		}
	}
	return out
}

func matchesAllWords(name string, words []string) bool {
	if len(words) == 0 {
		return true
	}
	folded := foldCaser.String(name)
	for _, w := range words {
		if !strings.Contains(folded, w) {
			return false
		}
	}
	return true
}
