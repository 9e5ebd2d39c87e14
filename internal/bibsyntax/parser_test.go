package bibsyntax

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

func TestParseWellFormedEntry(t *testing.T) {
	src := `@article{key1, author = "A. Author", year = 2020}`
	file := source.NewFile("refs.bib", []byte(src))
	bag := diag.NewBag(8)
	tree := Parse(file, diag.BagReporter{Bag: bag})

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	root := tree.Node(tree.Root())
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 top-level child, got %d", len(root.Children))
	}
	entry := tree.Node(root.Children[0])
	if entry.Kind != Entry || entry.Name != "article" {
		t.Fatalf("expected Entry(article), got %v %q", entry.Kind, entry.Name)
	}
	if entry.MissingLeftDelim || entry.MissingKey || entry.MissingRightDelim {
		t.Fatalf("unexpected missing-structure flags: %+v", entry)
	}
	if len(entry.Children) != 3 {
		t.Fatalf("expected key + 2 fields, got %d", len(entry.Children))
	}
	key := tree.Node(entry.Children[0])
	if key.Kind != Key || key.Name != "key1" {
		t.Fatalf("expected Key(key1), got %v %q", key.Kind, key.Name)
	}
	field1 := tree.Node(entry.Children[1])
	if field1.Kind != Field || field1.Name != "author" {
		t.Fatalf("expected Field(author), got %v %q", field1.Kind, field1.Name)
	}
}

func TestParseMissingLeftDelim(t *testing.T) {
	file := source.NewFile("refs.bib", []byte(`@article key1, year = 2020}`))
	bag := diag.NewBag(8)
	Parse(file, diag.BagReporter{Bag: bag})

	if !bag.HasErrors() {
		t.Fatalf("expected a missing-left-delimiter diagnostic")
	}
	if bag.Items()[0].Code != diag.BibMissingLeftDelim {
		t.Fatalf("expected BibMissingLeftDelim, got %v", bag.Items()[0].Code)
	}
}

func TestParseMissingKey(t *testing.T) {
	file := source.NewFile("refs.bib", []byte(`@article{, year = 2020}`))
	bag := diag.NewBag(8)
	tree := Parse(file, diag.BagReporter{Bag: bag})

	if !bag.HasErrors() {
		t.Fatalf("expected a missing-key diagnostic")
	}
	if bag.Items()[0].Code != diag.BibMissingKey {
		t.Fatalf("expected BibMissingKey, got %v", bag.Items()[0].Code)
	}
	root := tree.Node(tree.Root())
	entry := tree.Node(root.Children[0])
	if !entry.MissingKey {
		t.Fatalf("expected Entry.MissingKey set")
	}
}

func TestParseMissingRightDelim(t *testing.T) {
	file := source.NewFile("refs.bib", []byte(`@article{key1, year = 2020`))
	bag := diag.NewBag(8)
	tree := Parse(file, diag.BagReporter{Bag: bag})

	if !bag.HasErrors() {
		t.Fatalf("expected a missing-right-delimiter diagnostic")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.BibMissingRightDelim {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected BibMissingRightDelim among diagnostics: %v", bag.Items())
	}
	root := tree.Node(tree.Root())
	entry := tree.Node(root.Children[0])
	if !entry.MissingRightDelim {
		t.Fatalf("expected Entry.MissingRightDelim set")
	}
}

func TestParseMissingEquals(t *testing.T) {
	file := source.NewFile("refs.bib", []byte(`@article{key1, year 2020}`))
	bag := diag.NewBag(8)
	tree := Parse(file, diag.BagReporter{Bag: bag})

	if !bag.HasErrors() {
		t.Fatalf("expected a missing-equals diagnostic")
	}
	if bag.Items()[0].Code != diag.BibMissingEquals {
		t.Fatalf("expected BibMissingEquals, got %v", bag.Items()[0].Code)
	}
	root := tree.Node(tree.Root())
	entry := tree.Node(root.Children[0])
	field := tree.Node(entry.Children[1])
	if !field.MissingEquals {
		t.Fatalf("expected Field.MissingEquals set")
	}
}

func TestParseMissingValue(t *testing.T) {
	file := source.NewFile("refs.bib", []byte(`@article{key1, year = }`))
	bag := diag.NewBag(8)
	tree := Parse(file, diag.BagReporter{Bag: bag})

	if !bag.HasErrors() {
		t.Fatalf("expected a missing-value diagnostic")
	}
	if bag.Items()[0].Code != diag.BibMissingValue {
		t.Fatalf("expected BibMissingValue, got %v", bag.Items()[0].Code)
	}
	root := tree.Node(tree.Root())
	entry := tree.Node(root.Children[0])
	field := tree.Node(entry.Children[1])
	if !field.MissingValue {
		t.Fatalf("expected Field.MissingValue set")
	}
}

func TestParseStringCommand(t *testing.T) {
	file := source.NewFile("refs.bib", []byte(`@string{acm = "Association for Computing Machinery"}`))
	bag := diag.NewBag(8)
	tree := Parse(file, diag.BagReporter{Bag: bag})

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	root := tree.Node(tree.Root())
	sc := tree.Node(root.Children[0])
	if sc.Kind != StringCommand {
		t.Fatalf("expected StringCommand, got %v", sc.Kind)
	}
	if len(sc.Children) != 2 {
		t.Fatalf("expected key + value children, got %d", len(sc.Children))
	}
}

func TestParsePreambleConcatValue(t *testing.T) {
	file := source.NewFile("refs.bib", []byte(`@preamble{"\makeatletter" # "\makeatother"}`))
	bag := diag.NewBag(8)
	tree := Parse(file, diag.BagReporter{Bag: bag})

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	root := tree.Node(tree.Root())
	preamble := tree.Node(root.Children[0])
	if preamble.Kind != Preamble {
		t.Fatalf("expected Preamble, got %v", preamble.Kind)
	}
	if len(preamble.Children) != 1 {
		t.Fatalf("expected 1 value child, got %d", len(preamble.Children))
	}
	concat := tree.Node(preamble.Children[0])
	if concat.Kind != ConcatValue || len(concat.Children) != 2 {
		t.Fatalf("expected ConcatValue with 2 parts, got %v with %d children", concat.Kind, len(concat.Children))
	}
}

func TestParseJunkBetweenEntries(t *testing.T) {
	src := "This bibliography was generated by hand.\n@article{key1, year = 2020}\n"
	file := source.NewFile("refs.bib", []byte(src))
	bag := diag.NewBag(8)
	tree := Parse(file, diag.BagReporter{Bag: bag})

	root := tree.Node(tree.Root())
	if len(root.Children) != 2 {
		t.Fatalf("expected junk + entry, got %d children: %v", len(root.Children), kinds(tree, tree.Root()))
	}
	junk := tree.Node(root.Children[0])
	if junk.Kind != Comment {
		t.Fatalf("expected Comment, got %v", junk.Kind)
	}
	if got := tree.Text(root.Children[0], file.Content); got != "This bibliography was generated by hand.\n" {
		t.Fatalf("unexpected junk text: %q", got)
	}
	entry := tree.Node(root.Children[1])
	if entry.Kind != Entry || entry.Name != "article" {
		t.Fatalf("expected Entry(article), got %v %q", entry.Kind, entry.Name)
	}
}

func TestParseBraceValueWithNestedBraces(t *testing.T) {
	file := source.NewFile("refs.bib", []byte(`@article{key1, title = {On the {Go} Language}}`))
	bag := diag.NewBag(8)
	tree := Parse(file, diag.BagReporter{Bag: bag})

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	root := tree.Node(tree.Root())
	entry := tree.Node(root.Children[0])
	field := tree.Node(entry.Children[1])
	if field.Name != "title" {
		t.Fatalf("expected Field(title), got %q", field.Name)
	}
	value := tree.Node(field.Children[0])
	if got := tree.Text(field.Children[0], file.Content); got != "{On the {Go} Language}" {
		t.Fatalf("unexpected brace value text: %q", got)
	}
	_ = value
}
