package token

import "github.com/texlab-project/texlab-core/internal/source"

// TriviaKind classifies a non-significant run of source text attached to a
// token's Leading slice.
type TriviaKind uint8

const (
	// TriviaSpace is horizontal whitespace (spaces, tabs).
	TriviaSpace TriviaKind = iota
	// TriviaNewline is a single line terminator.
	TriviaNewline
	// TriviaLineComment is a LaTeX '%'-to-end-of-line comment; BibTeX text
	// outside an @entry is a Comment token instead.
	TriviaLineComment
)

// Trivia is a non-code source element: whitespace, a newline, or a comment.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
