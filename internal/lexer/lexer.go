package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/texlab-project/texlab-core/internal/diag"
	"github.com/texlab-project/texlab-core/internal/source"
	"github.com/texlab-project/texlab-core/internal/token"
)

const maxTokenLength = 64 * 1024 // hard limit in bytes to avoid pathological tokens

// Dialect selects which grammar a Lexer tokenizes.
type Dialect uint8

const (
	// LaTeX tokenizes commands, groups, and math delimiters.
	LaTeX Dialect = iota
	// BibTeX tokenizes entries, fields, and values.
	BibTeX
)

// Lexer converts one document's content into a stream of tokens for a
// single dialect. It does not know about \include/\bibliography boundaries;
// internal/workspace stitches documents together above this layer.
type Lexer struct {
	file    *source.File
	cursor  Cursor
	dialect Dialect
	opts    Options
	look    *token.Token   // one-token pushback buffer
	hold    []token.Trivia // leading trivia accumulated for the next token
	last    token.Token
	hasLast bool
}

// New creates a Lexer for file under the given dialect.
func New(file *source.File, dialect Dialect, opts Options) *Lexer {
	return &Lexer{
		file:    file,
		cursor:  NewCursor(file),
		dialect: dialect,
		opts:    opts,
	}
}

// SetRange restricts the lexer to a byte range within the file, used to
// re-lex a single \include'd fragment or a BibTeX entry's value in isolation.
func (lx *Lexer) SetRange(start, end uint32) {
	if lx == nil {
		return
	}
	lx.cursor.Off = start
	if end != 0 {
		lx.cursor.Limit = end
	}
	lx.look = nil
	lx.hold = nil
	lx.last = token.Token{}
	lx.hasLast = false
}

// Next returns the next significant token with its leading trivia attached.
// Returns EOF forever once the input is exhausted.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		lx.last = tok
		lx.hasLast = true
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.EmptySpan(),
			Text: "",
		}
	}

	var tok token.Token
	switch lx.dialect {
	case BibTeX:
		tok = lx.nextBib()
	default:
		tok = lx.nextLatex()
	}

	tok.Leading = lx.hold
	lx.hold = nil

	lx.enforceTokenLength(&tok)

	lx.last = tok
	lx.hasLast = true
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Push injects a token back into the lookahead buffer.
func (lx *Lexer) Push(tok token.Token) {
	lx.look = &tok
}

// EmptySpan returns a zero-length span at the current cursor position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{Start: lx.cursor.Off, End: lx.cursor.Off}
}

// PeekRawByte returns the byte at the current cursor position without
// collecting trivia or tokenizing. ok is false at EOF. Used by bibsyntax to
// decide, before committing to either Next or ScanBibJunk, whether it is
// looking at the start of an @-record or at free-standing commentary —
// Peek cannot serve that purpose since it already tokenizes and consumes.
func (lx *Lexer) PeekRawByte() (b byte, ok bool) {
	if lx.cursor.EOF() {
		return 0, false
	}
	return lx.cursor.Peek(), true
}

func (lx *Lexer) enforceTokenLength(tok *token.Token) {
	if tok == nil {
		return
	}
	length := tok.Span.End - tok.Span.Start
	if length <= maxTokenLength {
		return
	}
	msg := fmt.Sprintf("token length %d exceeds limit %d", length, maxTokenLength)
	lx.errLex(diag.LexTokenTooLong, tok.Span, msg)
	tok.Kind = token.Invalid
	if tok.Text == "" && tok.Span.End > tok.Span.Start && int(tok.Span.End) <= len(lx.file.Content) {
		tok.Text = string(lx.file.Content[tok.Span.Start:tok.Span.End])
	}
	// Fast-forward to EOF to avoid cascading work on a pathological token.
	if off, err := safecast.Conv[uint32](len(lx.file.Content)); err == nil {
		lx.cursor.Off = off
	}
}
