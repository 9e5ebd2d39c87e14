package token_test

import (
	"testing"

	"github.com/texlab-project/texlab-core/internal/source"
	"github.com/texlab-project/texlab-core/internal/token"
)

func TestLeadingTriviaShape(t *testing.T) {
	tv := token.Trivia{
		Kind: token.TriviaLineComment,
		Span: source.Span{Start: 0, End: 10},
		Text: "% a remark",
	}
	tk := token.Token{
		Kind:    token.CommandName,
		Span:    source.Span{Start: 11, End: 19},
		Text:    `\section`,
		Leading: []token.Trivia{tv},
	}
	if len(tk.Leading) != 1 || tk.Leading[0].Kind != token.TriviaLineComment {
		t.Fatalf("leading comment trivia must be present and structured")
	}
}
