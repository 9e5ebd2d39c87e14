package bibsyntax

import (
	"strings"

	"github.com/texlab-project/texlab-core/internal/diag"
	"github.com/texlab-project/texlab-core/internal/lexer"
	"github.com/texlab-project/texlab-core/internal/source"
	"github.com/texlab-project/texlab-core/internal/token"
)

// Parse builds a lossless, error-tolerant CST for file's content. Diagnostics
// from both the lexer and the parser are sent to reporter (nil discards them).
func Parse(file *source.File, reporter diag.Reporter) *Tree {
	p := &parser{
		lx:       lexer.New(file, lexer.BibTeX, lexer.Options{Reporter: reporter}),
		arena:    newArena[Node](64),
		reporter: reporter,
	}
	p.advanceAtAware()
	var children []NodeID
	for !p.atEOF() {
		children = append(children, p.parseTopLevelItem())
	}
	rootSpan := source.Span{Start: 0, End: uint32(len(file.Content))}
	root := p.arena.allocate(Node{Kind: Root, Span: rootSpan, Children: children})
	return &Tree{arena: p.arena, root: NodeID(root)}
}

type parser struct {
	lx       *lexer.Lexer
	arena    *arena[Node]
	reporter diag.Reporter
	cur      token.Token
	atEnd    bool
}

func (p *parser) atEOF() bool { return p.atEnd }

// advanceAtAware decides, from the raw byte stream, whether the next
// significant unit is free-standing commentary (ScanBibJunk) or the start
// of an @-record (Next). It must be called instead of a plain Next() at
// every point a top-level item may start, since the lexer has no notion of
// "outside an entry" on its own (spec.md §4.5, BibTeX "comment" scenario).
// It uses PeekRawByte rather than Peek/Next, since those already tokenize
// and consume — by the time a Kind were visible here it would be too late
// to hand the same bytes to ScanBibJunk instead.
func (p *parser) advanceAtAware() {
	b, ok := p.lx.PeekRawByte()
	if !ok {
		p.cur = token.Token{Kind: token.EOF}
		p.atEnd = true
		return
	}
	if b != '@' {
		p.cur = p.lx.ScanBibJunk()
		return
	}
	p.cur = p.lx.Next()
}

func (p *parser) advance() {
	p.cur = p.lx.Next()
	if p.cur.Kind == token.EOF {
		p.atEnd = true
	}
}

func (p *parser) report(code diag.Code, sp source.Span, msg string) {
	if p.reporter != nil {
		p.reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}

func (p *parser) parseTopLevelItem() NodeID {
	if p.cur.Kind != token.At {
		tok := p.cur
		id := NodeID(p.arena.allocate(Node{Kind: Comment, Span: tok.Span}))
		p.advanceAtAware()
		return id
	}

	atTok := p.cur
	p.advance()

	var typeTok token.Token
	hasType := p.cur.Kind == token.Ident
	if hasType {
		typeTok = p.cur
		p.advance()
	}
	typeName := strings.ToLower(typeTok.Text)

	var id NodeID
	switch typeName {
	case "string":
		id = p.parseStringCommand(atTok, typeTok)
	case "preamble":
		id = p.parsePreamble(atTok, typeTok)
	default:
		id = p.parseEntry(atTok, typeTok)
	}
	p.advanceAtAware()
	return id
}

// delimiters returns the expected closing token.Kind for a left delimiter,
// and whether left was recognized at all.
func delimiters(left token.Token) (closeKind token.Kind, ok bool) {
	switch left.Kind {
	case token.BibLBrace:
		return token.BibRBrace, true
	case token.BibLParen:
		return token.BibRParen, true
	default:
		return token.BibRBrace, false
	}
}

func (p *parser) parseEntry(atTok, typeTok token.Token) NodeID {
	span := atTok.Span
	var children []NodeID
	missingLeft, missingKey, missingRight := false, false, false

	left := p.cur
	closeKind, haveLeft := delimiters(left)
	if haveLeft {
		p.advance()
		span = span.Cover(left.Span)
	} else {
		missingLeft = true
		p.report(diag.BibMissingLeftDelim, span.AtEnd(), "BibTeX entry missing '{' or '('")
	}

	if p.cur.Kind == token.Ident {
		keyTok := p.cur
		p.advance()
		children = append(children, NodeID(p.arena.allocate(Node{Kind: Key, Span: keyTok.Span, Name: keyTok.Text})))
		span = span.Cover(keyTok.Span)
	} else {
		missingKey = true
		p.report(diag.BibMissingKey, p.cur.Span.AtStart(), "BibTeX entry missing citation key")
	}

	for p.cur.Kind == token.BibComma {
		p.advance()
		if p.cur.Kind != token.Ident {
			break
		}
		fieldID := p.parseField()
		children = append(children, fieldID)
		if f := p.arena.get(uint32(fieldID)); f != nil {
			span = span.Cover(f.Span)
		}
	}

	if haveLeft && p.cur.Kind == closeKind {
		span = span.Cover(p.cur.Span)
		p.advance()
	} else if haveLeft {
		missingRight = true
		p.report(diag.BibMissingRightDelim, span.AtEnd(), "BibTeX entry missing closing delimiter")
	}

	return NodeID(p.arena.allocate(Node{
		Kind: Entry, Span: span, Name: strings.ToLower(typeTok.Text), Children: children,
		MissingLeftDelim: missingLeft, MissingKey: missingKey, MissingRightDelim: missingRight,
	}))
}

func (p *parser) parseField() NodeID {
	nameTok := p.cur
	p.advance()
	span := nameTok.Span

	var children []NodeID
	missingEquals, missingValue := false, false

	if p.cur.Kind == token.BibEquals {
		p.advance()
		valueID, ok := p.parseValueExpr()
		if ok {
			children = append(children, valueID)
			if v := p.arena.get(uint32(valueID)); v != nil {
				span = span.Cover(v.Span)
			}
		} else {
			missingValue = true
			p.report(diag.BibMissingValue, span.AtEnd(), "BibTeX field missing value")
		}
	} else {
		missingEquals = true
		p.report(diag.BibMissingEquals, span.AtEnd(), "BibTeX field missing '='")
		// Resync to the next field/entry boundary so one missing '=' doesn't
		// cascade into a spurious missing-closing-delimiter diagnostic.
		for p.cur.Kind != token.BibComma && p.cur.Kind != token.BibRBrace &&
			p.cur.Kind != token.BibRParen && p.cur.Kind != token.EOF {
			p.advance()
		}
	}

	return NodeID(p.arena.allocate(Node{
		Kind: Field, Span: span, Name: nameTok.Text, Children: children,
		MissingEquals: missingEquals, MissingValue: missingValue,
	}))
}

// parseValueExpr parses one value, following '#' concatenation chains.
func (p *parser) parseValueExpr() (NodeID, bool) {
	first, ok := p.parseValueAtom()
	if !ok {
		return 0, false
	}
	if p.cur.Kind != token.BibHash {
		return first, true
	}

	parts := []NodeID{first}
	span := p.arena.get(uint32(first)).Span
	for p.cur.Kind == token.BibHash {
		p.advance()
		next, ok := p.parseValueAtom()
		if !ok {
			break
		}
		parts = append(parts, next)
		span = span.Cover(p.arena.get(uint32(next)).Span)
	}
	id := p.arena.allocate(Node{Kind: ConcatValue, Span: span, Children: parts})
	return NodeID(id), true
}

func (p *parser) parseValueAtom() (NodeID, bool) {
	switch p.cur.Kind {
	case token.QuotedString, token.Number, token.Ident:
		tok := p.cur
		p.advance()
		return NodeID(p.arena.allocate(Node{Kind: Value, Span: tok.Span})), true
	case token.BibLBrace:
		return p.parseBraceValue(), true
	default:
		return 0, false
	}
}

// parseBraceValue consumes a balanced {...} value as one flat Value node,
// tracking nested brace depth token by token.
func (p *parser) parseBraceValue() NodeID {
	open := p.cur
	span := open.Span
	depth := 1
	p.advance()
	for depth > 0 && p.cur.Kind != token.EOF {
		switch p.cur.Kind {
		case token.BibLBrace:
			depth++
		case token.BibRBrace:
			depth--
		}
		span = span.Cover(p.cur.Span)
		if depth == 0 {
			p.advance()
			break
		}
		p.advance()
	}
	return NodeID(p.arena.allocate(Node{Kind: Value, Span: span}))
}

func (p *parser) parseStringCommand(atTok, typeTok token.Token) NodeID {
	span := atTok.Span
	var children []NodeID
	missingLeft, missingKey, missingEquals, missingValue, missingRight := false, false, false, false, false

	left := p.cur
	closeKind, haveLeft := delimiters(left)
	if haveLeft {
		p.advance()
		span = span.Cover(left.Span)
	} else {
		missingLeft = true
		p.report(diag.BibMissingLeftDelim, span.AtEnd(), "BibTeX @string missing '{' or '('")
	}

	if p.cur.Kind == token.Ident {
		keyTok := p.cur
		p.advance()
		children = append(children, NodeID(p.arena.allocate(Node{Kind: Key, Span: keyTok.Span, Name: keyTok.Text})))
		span = span.Cover(keyTok.Span)
	} else {
		missingKey = true
		p.report(diag.BibMissingKey, p.cur.Span.AtStart(), "BibTeX @string missing name")
	}

	if p.cur.Kind == token.BibEquals {
		p.advance()
		valueID, ok := p.parseValueExpr()
		if ok {
			children = append(children, valueID)
			span = span.Cover(p.arena.get(uint32(valueID)).Span)
		} else {
			missingValue = true
			p.report(diag.BibMissingValue, span.AtEnd(), "BibTeX @string missing value")
		}
	} else {
		missingEquals = true
		p.report(diag.BibMissingEquals, span.AtEnd(), "BibTeX @string missing '='")
	}

	if haveLeft && p.cur.Kind == closeKind {
		span = span.Cover(p.cur.Span)
		p.advance()
	} else if haveLeft {
		missingRight = true
		p.report(diag.BibMissingRightDelim, span.AtEnd(), "BibTeX @string missing closing delimiter")
	}

	return NodeID(p.arena.allocate(Node{
		Kind: StringCommand, Span: span, Name: strings.ToLower(typeTok.Text), Children: children,
		MissingLeftDelim: missingLeft, MissingKey: missingKey, MissingEquals: missingEquals,
		MissingValue: missingValue, MissingRightDelim: missingRight,
	}))
}

func (p *parser) parsePreamble(atTok, _ token.Token) NodeID {
	span := atTok.Span
	var children []NodeID
	missingLeft, missingValue, missingRight := false, false, false

	left := p.cur
	closeKind, haveLeft := delimiters(left)
	if haveLeft {
		p.advance()
		span = span.Cover(left.Span)
	} else {
		missingLeft = true
		p.report(diag.BibMissingLeftDelim, span.AtEnd(), "BibTeX @preamble missing '{' or '('")
	}

	if valueID, ok := p.parseValueExpr(); ok {
		children = append(children, valueID)
		span = span.Cover(p.arena.get(uint32(valueID)).Span)
	} else {
		missingValue = true
		p.report(diag.BibMissingValue, span.AtEnd(), "BibTeX @preamble missing value")
	}

	if haveLeft && p.cur.Kind == closeKind {
		span = span.Cover(p.cur.Span)
		p.advance()
	} else if haveLeft {
		missingRight = true
		p.report(diag.BibMissingRightDelim, span.AtEnd(), "BibTeX @preamble missing closing delimiter")
	}

	return NodeID(p.arena.allocate(Node{
		Kind: Preamble, Span: span, Children: children,
		MissingLeftDelim: missingLeft, MissingValue: missingValue, MissingRightDelim: missingRight,
	}))
}
