package token_test

import (
	"testing"

	"github.com/texlab-project/texlab-core/internal/source"
	"github.com/texlab-project/texlab-core/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.QuotedString, token.BraceString, token.Number}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.Word, token.CommandName, token.LatexLBrace}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsPunctOrOp(t *testing.T) {
	ops := []token.Kind{
		token.LatexLBrace, token.LatexRBrace, token.LatexLBracket, token.LatexRBracket,
		token.LatexEquals, token.LatexComma, token.Dollar,
		token.At, token.BibLBrace, token.BibRBrace, token.BibLParen, token.BibRParen,
		token.BibEquals, token.BibComma, token.BibHash,
	}
	for _, k := range ops {
		if !tok(k).IsPunctOrOp() {
			t.Fatalf("%v should be punct/op", k)
		}
	}
	non := []token.Kind{token.Ident, token.Word, token.Number, token.CommandName}
	for _, k := range non {
		if tok(k).IsPunctOrOp() {
			t.Fatalf("%v must NOT be punct/op", k)
		}
	}
}

func TestIsIdent(t *testing.T) {
	if !tok(token.Ident).IsIdent() {
		t.Fatalf("Ident should be ident")
	}
	if tok(token.CommandName).IsIdent() {
		t.Fatalf("CommandName must not be ident")
	}
}

func TestIsCommandName(t *testing.T) {
	if !tok(token.CommandName).IsCommandName() {
		t.Fatalf("CommandName should report IsCommandName")
	}
	if tok(token.Word).IsCommandName() {
		t.Fatalf("Word must not be a command name")
	}
}

func TestKindStringCoversAllConstants(t *testing.T) {
	kinds := []token.Kind{
		token.Invalid, token.EOF, token.Word, token.Newline, token.Comment,
		token.CommandName, token.LatexLBrace, token.LatexRBrace, token.LatexLBracket,
		token.LatexRBracket, token.LatexEquals, token.LatexComma, token.Dollar,
		token.At, token.Ident, token.BibLBrace, token.BibRBrace, token.BibLParen,
		token.BibRParen, token.BibEquals, token.BibComma, token.BibHash,
		token.QuotedString, token.BraceString, token.Number,
	}
	seen := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		s := k.String()
		if s == "?" {
			t.Fatalf("%d has no String() case", k)
		}
		if seen[s] {
			t.Fatalf("duplicate String() %q", s)
		}
		seen[s] = true
	}
}

func TestIsEOF(t *testing.T) {
	if !token.EOF.IsEOF() {
		t.Fatalf("EOF.IsEOF() should be true")
	}
	if token.Word.IsEOF() {
		t.Fatalf("Word.IsEOF() should be false")
	}
}
