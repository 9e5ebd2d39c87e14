package latexsyntax

import (
	"testing"

	"github.com/texlab-project/texlab-core/internal/diag"
	"github.com/texlab-project/texlab-core/internal/source"
)

func kinds(t *Tree, id NodeID) []NodeKind {
	var out []NodeKind
	n := t.Node(id)
	if n == nil {
		return out
	}
	out = append(out, n.Kind)
	for _, c := range n.Children {
		out = append(out, kinds(t, c)...)
	}
	return out
}

func TestParseSimpleCommand(t *testing.T) {
	file := source.NewFile("a.tex", []byte(`\section{Intro}`))
	tree := Parse(file, nil)

	root := tree.Node(tree.Root())
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(root.Children))
	}
	cmd := tree.Node(root.Children[0])
	if cmd.Kind != Command || cmd.Name != "section" {
		t.Fatalf("expected Command(section), got %v %q", cmd.Kind, cmd.Name)
	}
	if len(cmd.Children) != 1 {
		t.Fatalf("expected 1 arg group, got %d", len(cmd.Children))
	}
	group := tree.Node(cmd.Children[0])
	if group.Kind != CurlyGroup {
		t.Fatalf("expected CurlyGroup, got %v", group.Kind)
	}
}

func TestParseEnvironmentMatched(t *testing.T) {
	file := source.NewFile("a.tex", []byte("\\begin{itemize}\\item x\\end{itemize}"))
	bag := diag.NewBag(8)
	tree := Parse(file, diag.BagReporter{Bag: bag})

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	root := tree.Node(tree.Root())
	env := tree.Node(root.Children[0])
	if env.Kind != Environment || env.Name != "itemize" {
		t.Fatalf("expected Environment(itemize), got %v %q", env.Kind, env.Name)
	}
}

func TestParseEnvironmentMismatch(t *testing.T) {
	file := source.NewFile("a.tex", []byte("\\begin{itemize}x\\end{enumerate}"))
	bag := diag.NewBag(8)
	Parse(file, diag.BagReporter{Bag: bag})

	if !bag.HasErrors() {
		t.Fatalf("expected a mismatched-environment diagnostic")
	}
	if bag.Items()[0].Code != diag.SynMismatchedEnvironment {
		t.Fatalf("expected SynMismatchedEnvironment, got %v", bag.Items()[0].Code)
	}
}

func TestParseUnterminatedCurlyGroup(t *testing.T) {
	file := source.NewFile("a.tex", []byte(`\section{Intro`))
	bag := diag.NewBag(8)
	Parse(file, diag.BagReporter{Bag: bag})

	if !bag.HasErrors() {
		t.Fatalf("expected a missing-close-brace diagnostic")
	}
	if bag.Items()[0].Code != diag.SynMissingCloseBrace {
		t.Fatalf("expected SynMissingCloseBrace, got %v", bag.Items()[0].Code)
	}
}

func TestParseUnexpectedCloseBrace(t *testing.T) {
	file := source.NewFile("a.tex", []byte(`text}`))
	bag := diag.NewBag(8)
	Parse(file, diag.BagReporter{Bag: bag})

	if !bag.HasErrors() {
		t.Fatalf("expected an unexpected-close-brace diagnostic")
	}
	if bag.Items()[0].Code != diag.SynUnexpectedCloseBrace {
		t.Fatalf("expected SynUnexpectedCloseBrace, got %v", bag.Items()[0].Code)
	}
}

func TestParseKeyValueGroup(t *testing.T) {
	file := source.NewFile("a.tex", []byte(`\includegraphics[width=5cm,scale]{fig}`))
	tree := Parse(file, nil)

	root := tree.Node(tree.Root())
	cmd := tree.Node(root.Children[0])
	if cmd.Kind != GraphicsPath {
		t.Fatalf("expected GraphicsPath, got %v", cmd.Kind)
	}
	if len(cmd.Children) != 2 {
		t.Fatalf("expected 2 arg groups (bracket + curly), got %d", len(cmd.Children))
	}
	kv := tree.Node(cmd.Children[0])
	if kv.Kind != KeyValueGroup {
		t.Fatalf("expected KeyValueGroup, got %v", kv.Kind)
	}
	// width=5cm -> Key,Value ; scale -> Key only
	if len(kv.Children) != 3 {
		t.Fatalf("expected 3 entries (Key,Value,Key), got %d", len(kv.Children))
	}
}

func TestLosslessSpanCoverage(t *testing.T) {
	src := "\\section{Intro}\nSome text here.\n"
	file := source.NewFile("a.tex", []byte(src))
	tree := Parse(file, nil)

	root := tree.Node(tree.Root())
	if root.Span.Start != 0 || int(root.Span.End) != len(src) {
		t.Fatalf("root span does not cover whole document: %+v", root.Span)
	}
}

func TestVerbatimBodyUnbalancedBraceDoesNotSwallowEnd(t *testing.T) {
	src := "\\begin{verbatim}\n{unbalanced\n\\end{verbatim}\nAfter."
	file := source.NewFile("a.tex", []byte(src))
	bag := diag.NewBag(16)
	tree := Parse(file, diag.BagReporter{Bag: bag})

	root := tree.Node(tree.Root())
	if len(root.Children) < 2 {
		t.Fatalf("expected the environment and trailing text as separate root children, got %d", len(root.Children))
	}
	env := tree.Node(root.Children[0])
	if env.Kind != Environment || env.Name != "verbatim" {
		t.Fatalf("expected Environment(verbatim), got %v %q", env.Kind, env.Name)
	}
	for _, c := range env.Children {
		if tree.Node(c).Kind == CurlyGroup {
			t.Fatalf("did not expect a CurlyGroup child inside a verbatim body")
		}
	}
	for _, d := range bag.Items() {
		if d.Code == diag.SynMissingCloseBrace {
			t.Fatalf("did not expect a missing-close-brace diagnostic from a verbatim body, got %+v", d)
		}
	}
}
