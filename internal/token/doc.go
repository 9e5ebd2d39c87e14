// Package token defines the lexical token shared by the LaTeX and BibTeX
// lexers/parsers: a Kind tag, a byte Span, literal Text, and leading trivia.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Trivia (whitespace, single newlines, LaTeX '%' comments) is attached to
//     the following token's Leading slice and never appears in the main token
//     stream, so a lossless CST can still recover the exact source bytes (P2).
//     A LaTeX blank line is a Newline token and BibTeX text between entries
//     is a Comment token; both stay in the main stream.
package token
