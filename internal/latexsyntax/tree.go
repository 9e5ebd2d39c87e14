// Package latexsyntax builds a lossless concrete syntax tree for LaTeX
// documents: every source byte is reachable from some node's Span, so
// formatting or extracting a node's exact text never needs to consult the
// original file (P2, spec.md §4.2).
package latexsyntax

import "github.com/texlab-project/texlab-core/internal/source"

// NodeKind tags a syntax node.
type NodeKind uint8

const (
	// Root is the single top-level node covering the whole document.
	Root NodeKind = iota
	// Command is a `\name` invocation together with its argument groups.
	Command
	// Environment is a matched `\begin{name}...\end{name}` pair.
	Environment
	// CurlyGroup is a `{...}` mandatory argument or grouping.
	CurlyGroup
	// BracketGroup is a `[...]` optional argument.
	BracketGroup
	// KeyValueGroup is a BracketGroup whose content parses as key=value pairs.
	KeyValueGroup
	// Key is one key inside a KeyValueGroup.
	Key
	// Value is one value inside a KeyValueGroup.
	Value
	// Citation is a \cite-family command.
	Citation
	// LabelDef is a \label command.
	LabelDef
	// LabelRef is a \ref/\eqref/\pageref-family command.
	LabelRef
	// LabelRefRange is a \crefrange/\refrange-family command.
	LabelRefRange
	// Include is an \input/\include command.
	Include
	// Import is a \usepackage/\documentclass/\RequirePackage command.
	Import
	// GraphicsPath is a \graphicspath/\includegraphics command.
	GraphicsPath
	// TheoremDef is a \newtheorem command.
	TheoremDef
	// Text is a run of plain prose (words, punctuation, math delimiters).
	Text
	// Comment is a '%'-to-end-of-line comment. The parser does not emit
	// Comment nodes: comments stay in the tokens' leading trivia.
	Comment
	// Error is a parse-recovery placeholder: its Span still covers the
	// offending bytes so the tree remains lossless.
	Error
)

func (k NodeKind) String() string {
	switch k {
	case Root:
		return "Root"
	case Command:
		return "Command"
	case Environment:
		return "Environment"
	case CurlyGroup:
		return "CurlyGroup"
	case BracketGroup:
		return "BracketGroup"
	case KeyValueGroup:
		return "KeyValueGroup"
	case Key:
		return "Key"
	case Value:
		return "Value"
	case Citation:
		return "Citation"
	case LabelDef:
		return "LabelDef"
	case LabelRef:
		return "LabelRef"
	case LabelRefRange:
		return "LabelRefRange"
	case Include:
		return "Include"
	case Import:
		return "Import"
	case GraphicsPath:
		return "GraphicsPath"
	case TheoremDef:
		return "TheoremDef"
	case Text:
		return "Text"
	case Comment:
		return "Comment"
	case Error:
		return "Error"
	default:
		return "?"
	}
}

// NodeID is a 1-based handle into a Tree's arena. The zero value names no node.
type NodeID uint32

// Node is one element of the tree. Name holds the command/environment name
// (without the leading backslash or surrounding braces) for Command,
// Environment, Citation, LabelDef, LabelRef, LabelRefRange, Include, Import,
// GraphicsPath, and TheoremDef nodes, and the bare environment name for the
// CurlyGroup that follows \begin or \end; it is empty for every other node.
type Node struct {
	Kind     NodeKind
	Span     source.Span
	Name     string
	Children []NodeID
}

// Tree is a parsed LaTeX document.
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

// Walk visits every node reachable from root in document order (pre-order),
// calling visit(id) for each. Stops early if visit returns false.
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
