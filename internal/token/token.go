package token

import (
	"github.com/texlab-project/texlab-core/internal/source"
)

// Token represents a single lexical token with its location and leading trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a quoted/braced string or a bare number.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case QuotedString, BraceString, Number:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is punctuation specific to either grammar.
func (t Token) IsPunctOrOp() bool {
	switch t.Kind {
	case LatexLBrace, LatexRBrace, LatexLBracket, LatexRBracket, LatexEquals, LatexComma, Dollar,
		At, BibLBrace, BibRBrace, BibLParen, BibRParen, BibEquals, BibComma, BibHash:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is a bare identifier (BibTeX entry type,
// key, or field name).
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsCommandName reports whether the token is a LaTeX control sequence name.
func (t Token) IsCommandName() bool { return t.Kind == CommandName }
