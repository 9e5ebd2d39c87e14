package lexer

import "github.com/texlab-project/texlab-core/internal/token"

// collectLeadingTrivia absorbs whitespace and comments before the next
// significant token:
//   - ' ' and '\t' coalesce into one TriviaSpace.
//   - a single '\n' coalesces into one TriviaNewline.
//   - two or more consecutive '\n' (a blank line) mark a LaTeX paragraph
//     break: collection stops so the run is returned as a significant
//     token.Newline instead of swallowed as trivia (P2, spec.md §4.2).
//   - LaTeX only: '%' to end of line is a TriviaLineComment.
//   - BibTeX has no comment-introducer character at the lexer layer; stray
//     text between entries is handled by ScanBibJunk, not trivia.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if b == ' ' || b == '\t' {
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' {
					break
				}
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaSpace,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		if b == '\n' {
			if lx.dialect == LaTeX {
				if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '\n' && b1 == '\n' {
					// blank line ahead: stop trivia collection here and let
					// nextLatex consume the run as a significant Newline.
					break
				}
			}
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaNewline,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		if lx.dialect == LaTeX && b == '%' {
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaLineComment,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		break
	}
}
