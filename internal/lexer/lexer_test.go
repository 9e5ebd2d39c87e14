package lexer

import (
	"testing"

	"github.com/texlab-project/texlab-core/internal/source"
	"github.com/texlab-project/texlab-core/internal/token"
)

func allTokens(lx *Lexer) []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func TestLatexCommandName(t *testing.T) {
	file := source.NewFile("a.tex", []byte(`\section*{Intro}`))
	lx := New(file, LaTeX, Options{})

	toks := allTokens(lx)
	if toks[0].Kind != token.CommandName || toks[0].Text != `\section*` {
		t.Fatalf("expected CommandName `\\section*`, got %v %q", toks[0].Kind, toks[0].Text)
	}
	if toks[1].Kind != token.LatexLBrace {
		t.Fatalf("expected LatexLBrace, got %v", toks[1].Kind)
	}
	if toks[2].Kind != token.Word || toks[2].Text != "Intro" {
		t.Fatalf("expected Word `Intro`, got %v %q", toks[2].Kind, toks[2].Text)
	}
	if toks[3].Kind != token.LatexRBrace {
		t.Fatalf("expected LatexRBrace, got %v", toks[3].Kind)
	}
}

func TestLatexControlSymbol(t *testing.T) {
	file := source.NewFile("a.tex", []byte(`100\% done`))
	lx := New(file, LaTeX, Options{})

	toks := allTokens(lx)
	if toks[0].Kind != token.Word || toks[0].Text != "100" {
		t.Fatalf("expected Word `100`, got %v %q", toks[0].Kind, toks[0].Text)
	}
	if toks[1].Kind != token.CommandName || toks[1].Text != `\%` {
		t.Fatalf("expected control symbol `\\%%`, got %v %q", toks[1].Kind, toks[1].Text)
	}
}

func TestLatexCommentIsTrivia(t *testing.T) {
	file := source.NewFile("a.tex", []byte("word % trailing comment\nnext"))
	lx := New(file, LaTeX, Options{})

	first := lx.Next()
	if first.Kind != token.Word || first.Text != "word" {
		t.Fatalf("expected Word `word`, got %v %q", first.Kind, first.Text)
	}
	second := lx.Next()
	if second.Kind != token.Word || second.Text != "next" {
		t.Fatalf("expected Word `next`, got %v %q", second.Kind, second.Text)
	}
	foundComment := false
	for _, tr := range second.Leading {
		if tr.Kind == token.TriviaLineComment {
			foundComment = true
			if tr.Text != "% trailing comment" {
				t.Fatalf("unexpected comment trivia text %q", tr.Text)
			}
		}
	}
	if !foundComment {
		t.Fatalf("expected a TriviaLineComment in leading trivia, got %+v", second.Leading)
	}
}

func TestLatexParagraphBreakIsSignificant(t *testing.T) {
	file := source.NewFile("a.tex", []byte("first\n\nsecond"))
	lx := New(file, LaTeX, Options{})

	toks := allTokens(lx)
	if toks[0].Kind != token.Word || toks[0].Text != "first" {
		t.Fatalf("expected Word `first`, got %v %q", toks[0].Kind, toks[0].Text)
	}
	if toks[1].Kind != token.Newline {
		t.Fatalf("expected significant Newline for blank line, got %v %q", toks[1].Kind, toks[1].Text)
	}
	if toks[2].Kind != token.Word || toks[2].Text != "second" {
		t.Fatalf("expected Word `second`, got %v %q", toks[2].Kind, toks[2].Text)
	}
}

func TestLatexKeyValuePunct(t *testing.T) {
	file := source.NewFile("a.tex", []byte(`\includegraphics[width=5cm,height=3cm]{x}`))
	lx := New(file, LaTeX, Options{})

	toks := allTokens(lx)
	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{
		token.CommandName, token.LatexLBracket,
		token.Word, token.LatexEquals, token.Word, token.LatexComma,
		token.Word, token.LatexEquals, token.Word, token.LatexRBracket,
		token.LatexLBrace, token.Word, token.LatexRBrace, token.EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(kinds), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("token %d: expected %v, got %v", i, want[i], kinds[i])
		}
	}
}

func TestBibEntryTokens(t *testing.T) {
	file := source.NewFile("a.bib", []byte(`@article{key1, author = "A. Author", year = 2020}`))
	lx := New(file, BibTeX, Options{})

	toks := allTokens(lx)
	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{
		token.At, token.Ident, token.BibLBrace, token.Ident, token.BibComma,
		token.Ident, token.BibEquals, token.QuotedString, token.BibComma,
		token.Ident, token.BibEquals, token.Number, token.BibRBrace, token.EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(kinds), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("token %d: expected %v, got %v", i, want[i], kinds[i])
		}
	}
}

func TestBibQuotedStringWithNestedBraces(t *testing.T) {
	file := source.NewFile("a.bib", []byte(`"a {quoted "word"} end"`))
	lx := New(file, BibTeX, Options{})

	tok := lx.Next()
	if tok.Kind != token.QuotedString {
		t.Fatalf("expected QuotedString, got %v", tok.Kind)
	}
	if tok.Text != `"a {quoted "word"} end"` {
		t.Fatalf("unexpected quoted string text %q", tok.Text)
	}
}

func TestBibBraceStringValue(t *testing.T) {
	file := source.NewFile("a.bib", []byte(`{Nested {Title} Value}`))
	lx := New(file, BibTeX, Options{})

	tok := lx.ScanBraceStringValue()
	if tok.Kind != token.BraceString {
		t.Fatalf("expected BraceString, got %v", tok.Kind)
	}
	if tok.Text != "{Nested {Title} Value}" {
		t.Fatalf("unexpected brace string text %q", tok.Text)
	}
	if next := lx.Next(); next.Kind != token.EOF {
		t.Fatalf("expected EOF after brace value, got %v", next.Kind)
	}
}

func TestBibJunkBetweenEntries(t *testing.T) {
	file := source.NewFile("a.bib", []byte("stray text\n@article{k}"))
	lx := New(file, BibTeX, Options{})

	junk := lx.ScanBibJunk()
	if junk.Kind != token.Comment {
		t.Fatalf("expected Comment, got %v", junk.Kind)
	}
	if junk.Text != "stray text\n" {
		t.Fatalf("unexpected junk text %q", junk.Text)
	}
	if at := lx.Next(); at.Kind != token.At {
		t.Fatalf("expected At after junk, got %v", at.Kind)
	}
}

func TestPeekAndPushRoundTrip(t *testing.T) {
	file := source.NewFile("a.tex", []byte(`\foo{}`))
	lx := New(file, LaTeX, Options{})

	peeked := lx.Peek()
	if peeked.Kind != token.CommandName {
		t.Fatalf("expected CommandName from Peek, got %v", peeked.Kind)
	}
	next := lx.Next()
	if next.Kind != peeked.Kind || next.Span != peeked.Span || next.Text != peeked.Text {
		t.Fatalf("expected Next after Peek to return the same token")
	}
}
