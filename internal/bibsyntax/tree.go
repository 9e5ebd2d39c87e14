// Package bibsyntax builds a lossless concrete syntax tree for BibTeX
// documents, with structural-error recovery flags on Entry rather than
// hard parse failures: a malformed entry still yields a node carrying as
// much of the surrounding document as could be recovered (P2, spec.md §4.5).
package bibsyntax

import "github.com/texlab-project/texlab-core/internal/source"

// NodeKind tags a syntax node.
type NodeKind uint8

const (
	// Root is the single top-level node covering the whole document.
	Root NodeKind = iota
	// Entry is one @type{key, field = value, ...} record.
	Entry
	// StringCommand is an @string{key = value} macro definition.
	StringCommand
	// Preamble is an @preamble{...} record.
	Preamble
	// Comment is free text between entries (BibTeX has no explicit
	// comment syntax; anything outside an @-record is commentary).
	Comment
	// Field is one `key = value` pair inside an Entry.
	Field
	// Key is an Entry's citation key or a StringCommand's abbreviation name.
	Key
	// Value is a Field's or StringCommand's right-hand side.
	Value
	// ConcatValue is a `value # value # ...` string concatenation.
	ConcatValue
)

func (k NodeKind) String() string {
	switch k {
	case Root:
		return "Root"
	case Entry:
		return "Entry"
	case StringCommand:
		return "StringCommand"
	case Preamble:
		return "Preamble"
	case Comment:
		return "Comment"
	case Field:
		return "Field"
	case Key:
		return "Key"
	case Value:
		return "Value"
	case ConcatValue:
		return "ConcatValue"
	default:
		return "?"
	}
}

// NodeID is a 1-based handle into a Tree's arena. The zero value names no node.
type NodeID uint32

// Node is one element of the tree.
//
// Name holds the lower-cased record type for Entry nodes (e.g. "article")
// and StringCommand nodes ("string"), the field name for Field nodes, or the
// raw key text for Key nodes; it is empty otherwise.
//
// The Missing* flags record which structural pieces a malformed Entry
// could not find, so the caller gets a best-effort tree instead of a parse
// failure (spec.md §4.5's BibMissingLeftDelim/Key/RightDelim/Equals/Value
// scenarios); they are always false on well-formed nodes.
type Node struct {
	Kind     NodeKind
	Span     source.Span
	Name     string
	Children []NodeID

	MissingLeftDelim  bool
	MissingKey        bool
	MissingRightDelim bool
	MissingEquals     bool
	MissingValue      bool
}

// Tree is a parsed BibTeX document.
type Tree struct {
	arena *arena[Node]
	root  NodeID
}

// Root returns the tree's root node handle.
func (t *Tree) Root() NodeID { return t.root }

// Node dereferences a handle. Returns nil for NodeID(0) or an out-of-range handle.
func (t *Tree) Node(id NodeID) *Node { return t.arena.get(uint32(id)) }

// Text returns the exact source bytes spanned by a node.
func (t *Tree) Text(id NodeID, content []byte) string {
	n := t.Node(id)
	if n == nil || int(n.Span.End) > len(content) {
		return ""
	}
	return string(content[n.Span.Start:n.Span.End])
}

// Walk visits every node reachable from root in document order (pre-order).
// Stops early if visit returns false.
func (t *Tree) Walk(root NodeID, visit func(NodeID) bool) {
	if !visit(root) {
		return
	}
	n := t.Node(root)
	if n == nil {
		return
	}
	for _, c := range n.Children {
		t.Walk(c, visit)
	}
}
