package query

import (
	"sort"
	"strings"

	"github.com/texlab-project/texlab-core/internal/bibsyntax"
	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/latexsyntax"
	"github.com/texlab-project/texlab-core/internal/source"
	"github.com/texlab-project/texlab-core/internal/workspace"
)

// symbolSourceExtensions mirrors internal/workspace's latexExtensions: the
// extensions whose content is real LaTeX prose worth parsing for an outline.
// Duplicated rather than exported from workspace because the two packages
// reach the same conclusion for different reasons (workspace excludes .aux
// from Extras extraction; query excludes it from outline rendering), and the
// list is small enough that sharing it would cost more than it saves.
var symbolSourceExtensions = map[string]bool{
	".tex": true, ".sty": true, ".cls": true, ".def": true, ".lco": true, ".rnw": true,
}

// sectionLevels orders LaTeX's sectioning commands from outermost to
// innermost, spec.md §4.6 "hierarchical symbols from LaTeX sectioning".
var sectionLevels = map[string]int{
	"part": 0, "chapter": 1, "section": 2, "subsection": 3,
	"subsubsection": 4, "paragraph": 5, "subparagraph": 6,
}

// DocumentSymbols builds doc's hierarchical outline: LaTeX sectioning,
// environments, and label definitions nested the way a reader would expect,
// or one symbol per BibTeX entry with its fields as children. Returns
// ok=false for a build-log document, a LaTeX-language file whose extension is
// not in symbolSourceExtensions (such as .aux), or an unknown handle.
func DocumentSymbols(snap *db.Snapshot, doc db.Document) ([]*Symbol, bool) {
	input, ok := snap.Document(doc)
	if !ok {
		return nil, false
	}
	uri, _ := snap.URI(doc)
	switch {
	case input.Language == db.LanguageBibTeX:
		return bibDocumentSymbols([]byte(input.SourceCode)), true
	case input.Language == db.LanguageLaTeX && symbolSourceExtensions[extOf(uri)]:
		return latexDocumentSymbols(uri, []byte(input.SourceCode)), true
	default:
		return nil, false
	}
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

func latexDocumentSymbols(uri string, content []byte) []*Symbol {
	file := source.NewFile(uri, content)
	tree := latexsyntax.Parse(file, nil)
	root := tree.Node(tree.Root())
	if root == nil {
		return nil
	}
	return buildSymbolList(tree, file.Content, root.Children)
}

// buildSymbolList converts one sibling list of the LaTeX CST into a symbol
// forest. Environments recurse (their CST children already form a nested
// scope); sectioning commands build their own nesting out of an otherwise
// flat sibling run, popping the active section stack down to the first
// entry at or above the new command's level before attaching under it.
func buildSymbolList(tree *latexsyntax.Tree, content []byte, ids []latexsyntax.NodeID) []*Symbol {
	var top []*Symbol
	var stack []*Symbol

	attach := func(sym *Symbol) {
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, sym)
			return
		}
		top = append(top, sym)
	}

	for _, id := range ids {
		n := tree.Node(id)
		if n == nil {
			continue
		}
		switch n.Kind {
		case latexsyntax.Command:
			level, isSection := sectionLevels[n.Name]
			if !isSection {
				if nested := buildSymbolList(tree, content, n.Children); len(nested) > 0 {
					for _, s := range nested {
						attach(s)
					}
				}
				continue
			}
			for len(stack) > 0 && stack[len(stack)-1].sectionLevel >= level {
				stack = stack[:len(stack)-1]
			}
			sym := &Symbol{
				Name:         firstGroupText(tree, n, content),
				Detail:       n.Name,
				Kind:         KindSection,
				Range:        n.Span,
				sectionLevel: level,
			}
			attach(sym)
			stack = append(stack, sym)

		case latexsyntax.Environment:
			sym := &Symbol{Name: n.Name, Kind: KindEnvironment, Range: n.Span, sectionLevel: -1}
			sym.Children = buildSymbolList(tree, content, n.Children)
			attach(sym)

		case latexsyntax.LabelDef:
			attach(&Symbol{
				Name: firstGroupText(tree, n, content), Kind: KindLabel, Range: n.Span, sectionLevel: -1,
			})

		case latexsyntax.TheoremDef:
			groups := curlyGroups(tree, n)
			if len(groups) == 0 {
				continue
			}
			name := groupInner(tree, groups[0], content)
			detail := ""
			if len(groups) > 1 {
				detail = groupInner(tree, groups[1], content)
			}
			attach(&Symbol{Name: name, Detail: detail, Kind: KindTheorem, Range: n.Span, sectionLevel: -1})

		default:
			if len(n.Children) > 0 {
				for _, s := range buildSymbolList(tree, content, n.Children) {
					attach(s)
				}
			}
		}
	}
	return top
}

func bibDocumentSymbols(content []byte) []*Symbol {
	file := source.NewFile("", content)
	tree := bibsyntax.Parse(file, nil)
	root := tree.Node(tree.Root())
	if root == nil {
		return nil
	}
	var out []*Symbol
	for _, id := range root.Children {
		n := tree.Node(id)
		if n == nil || n.Kind != bibsyntax.Entry {
			continue
		}
		key := entryKey(tree, n)
		sym := &Symbol{Name: key, Detail: n.Name, Kind: KindBibEntry, Range: n.Span, sectionLevel: -1}
		for _, fc := range n.Children {
			fn := tree.Node(fc)
			if fn == nil || fn.Kind != bibsyntax.Field {
				continue
			}
			sym.Children = append(sym.Children, &Symbol{
				Name: fn.Name, Kind: KindBibField, Range: fn.Span, sectionLevel: -1,
			})
		}
		out = append(out, sym)
	}
	return out
}

// entryKey returns a bibsyntax Entry's citation key, the first Key-kind
// child the parser appends before any Field children.
func entryKey(tree *bibsyntax.Tree, entry *bibsyntax.Node) string {
	for _, c := range entry.Children {
		if cn := tree.Node(c); cn != nil && cn.Kind == bibsyntax.Key {
			return cn.Name
		}
	}
	return ""
}

func curlyGroups(tree *latexsyntax.Tree, n *latexsyntax.Node) []latexsyntax.NodeID {
	var out []latexsyntax.NodeID
	for _, c := range n.Children {
		if cn := tree.Node(c); cn != nil && cn.Kind == latexsyntax.CurlyGroup {
			out = append(out, c)
		}
	}
	return out
}

// groupInner strips a {...}/[...] node's delimiters, the same small idiom
// internal/extras.groupInner uses; duplicated here since that helper is
// unexported and this package's tree-walking needs differ enough (no
// stem/target resolution) that importing extras just for this one function
// would pull in more than it saves.
func groupInner(tree *latexsyntax.Tree, id latexsyntax.NodeID, content []byte) string {
	s := strings.TrimSpace(tree.Text(id, content))
	if len(s) >= 2 {
		switch {
		case s[0] == '{' && s[len(s)-1] == '}':
			s = s[1 : len(s)-1]
		case s[0] == '[' && s[len(s)-1] == ']':
			s = s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}

func firstGroupText(tree *latexsyntax.Tree, n *latexsyntax.Node, content []byte) string {
	groups := curlyGroups(tree, n)
	if len(groups) == 0 {
		return ""
	}
	return groupInner(tree, groups[0], content)
}

// FlatSymbol is one document_symbols entry flattened out of its tree, tagged
// with the owning document so workspace_symbols can report a location.
type FlatSymbol struct {
	Doc    db.Document
	Symbol *Symbol
	rank   int
}

// Flatten walks a document's symbol forest into the flat order spec.md §4.6
// specifies: (ProjectOrdering(doc), range.start, -range.end). rank is the
// document's index within analyzer.ProjectOrdering(snap).Order, or the
// length of that order for a document outside it (spec.md §4.4's "documents
// outside any ordered unit sort at the maximum index").
func Flatten(a *workspace.Analyzer, snap *db.Snapshot, doc db.Document, symbols []*Symbol) []FlatSymbol {
	rank := projectRank(a, snap, doc)
	var out []FlatSymbol
	var walk func([]*Symbol)
	walk = func(syms []*Symbol) {
		for _, s := range syms {
			out = append(out, FlatSymbol{Doc: doc, Symbol: s, rank: rank})
			walk(s.Children)
		}
	}
	walk(symbols)
	sortFlatSymbols(out)
	return out
}

func sortFlatSymbols(out []FlatSymbol) {
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if a.Symbol.Range.Start != b.Symbol.Range.Start {
			return a.Symbol.Range.Start < b.Symbol.Range.Start
		}
		return a.Symbol.Range.End > b.Symbol.Range.End
	})
}

func projectRank(a *workspace.Analyzer, snap *db.Snapshot, doc db.Document) int {
	order := a.ProjectOrdering(snap).Order
	for i, d := range order {
		if d == doc {
			return i
		}
	}
	return len(order)
}
