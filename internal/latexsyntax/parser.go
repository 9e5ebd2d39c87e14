package latexsyntax

import (
	"strings"

	"github.com/texlab-project/texlab-core/internal/diag"
	"github.com/texlab-project/texlab-core/internal/lexer"
	"github.com/texlab-project/texlab-core/internal/source"
	"github.com/texlab-project/texlab-core/internal/token"
)

// commandKinds maps well-known command names (without backslash or trailing
// '*') to the specialized node kind spec.md §4.3/§4.4 wants extracted.
// Anything not listed parses as a plain Command node.
var commandKinds = map[string]NodeKind{
	"cite":       Citation,
	"citep":      Citation,
	"citet":      Citation,
	"citeauthor": Citation,
	"citeyear":   Citation,
	"nocite":     Citation,

	"label": LabelDef,

	"ref":     LabelRef,
	"eqref":   LabelRef,
	"pageref": LabelRef,
	"cref":    LabelRef,
	"Cref":    LabelRef,
	"vref":    LabelRef,

	"crefrange": LabelRefRange,
	"Crefrange": LabelRefRange,
	"refrange":  LabelRefRange,

	"input":          Include,
	"include":        Include,
	"bibliography":   Include,
	"addbibresource": Include,
	"import":         Include,

	"usepackage":     Import,
	"RequirePackage": Import,
	"documentclass":  Import,

	"graphicspath":    GraphicsPath,
	"includegraphics": GraphicsPath,

	"newtheorem": TheoremDef,
}

// verbatimEnvironments lists environments whose body is opaque text in real
// LaTeX (catcodes changed so braces and backslashes lose their special
// meaning): Asymptote figures, code listings, minted blocks, and plain
// verbatim. Parsing their bodies with ordinary brace/command rules would
// misreport routine unbalanced braces as syntax errors (spec.md §4.5), so
// their content is captured as a flat run of Text instead.
var verbatimEnvironments = map[string]bool{
	"asy": true, "lstlisting": true, "minted": true, "verbatim": true,
}

// Parse builds a lossless CST for file's content. Diagnostics from both the
// lexer and the parser are sent to reporter (may be nil to discard them).
func Parse(file *source.File, reporter diag.Reporter) *Tree {
	p := &parser{
		lx:       lexer.New(file, lexer.LaTeX, lexer.Options{Reporter: reporter}),
		arena:    newArena[Node](64),
		reporter: reporter,
		content:  file.Content,
	}
	p.advance()
	children := p.parseElements(nil)
	rootSpan := source.Span{Start: 0, End: uint32(len(file.Content))}
	root := p.arena.allocate(Node{Kind: Root, Span: rootSpan, Children: children})
	return &Tree{arena: p.arena, root: NodeID(root)}
}

type parser struct {
	lx       *lexer.Lexer
	arena    *arena[Node]
	reporter diag.Reporter
	content  []byte
	cur      token.Token
}

func (p *parser) advance() {
	p.cur = p.lx.Next()
}

func (p *parser) report(code diag.Code, sp source.Span, msg string) {
	if p.reporter != nil {
		p.reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}

// stopPred reports whether the current token should end the element run
// being parsed (a closing delimiter the caller owns, or a matching \end).
type stopPred func(tok token.Token) bool

func (p *parser) parseElements(stop stopPred) []NodeID {
	var children []NodeID
	for p.cur.Kind != token.EOF {
		if stop != nil && stop(p.cur) {
			break
		}
		children = append(children, p.parseElement())
	}
	return children
}

// parseVerbatimBody consumes tokens as flat Text nodes without recursing
// into brace/command parsing, for environments whose body real LaTeX treats
// as opaque (verbatimEnvironments). stop still ends the run at the matching
// \end, exactly like parseElements, just without structural interpretation
// of anything in between.
func (p *parser) parseVerbatimBody(stop stopPred) []NodeID {
	var children []NodeID
	for p.cur.Kind != token.EOF {
		if stop(p.cur) {
			break
		}
		tok := p.cur
		p.advance()
		children = append(children, NodeID(p.arena.allocate(Node{Kind: Text, Span: tok.Span})))
	}
	return children
}

func (p *parser) parseElement() NodeID {
	switch p.cur.Kind {
	case token.CommandName:
		return p.parseCommand()
	case token.LatexLBrace:
		return p.parseCurlyGroup()
	case token.LatexRBrace:
		// Unmatched closing brace: record and consume so parsing progresses.
		tok := p.cur
		p.report(diag.SynUnexpectedCloseBrace, tok.Span, "unexpected '}'")
		p.advance()
		return NodeID(p.arena.allocate(Node{Kind: Error, Span: tok.Span}))
	default:
		return p.parseText()
	}
}

// parseText consumes one leaf token as plain content.
func (p *parser) parseText() NodeID {
	tok := p.cur
	p.advance()
	kind := Text
	if tok.Kind == token.Invalid {
		kind = Error
	}
	return NodeID(p.arena.allocate(Node{Kind: kind, Span: tok.Span}))
}

func (p *parser) parseCommand() NodeID {
	nameTok := p.cur
	p.advance()
	base := strings.TrimSuffix(strings.TrimPrefix(nameTok.Text, `\`), "*")

	if base == "begin" {
		return p.parseEnvironment(nameTok)
	}
	if base == "end" {
		// A stray \end with no matching \begin in scope; treat as an error
		// node but still consume its name group so the caller can recover.
		// No diagnostic here: code 3 only fires when a \begin/\end pair is
		// matched up with differing names (see parseEnvironment), exactly as
		// the original only raises it from within analyze_environment, which
		// requires a well-formed Environment node to even be considered.
		start := nameTok.Span
		children := p.parseArgGroups()
		end := start
		if len(children) > 0 {
			if last := p.arena.get(uint32(children[len(children)-1])); last != nil {
				end = last.Span
			}
		}
		return NodeID(p.arena.allocate(Node{Kind: Error, Span: start.Cover(end), Children: children}))
	}

	kind, special := commandKinds[base]
	if !special {
		kind = Command
	}
	children := p.parseArgGroups()
	span := nameTok.Span
	if len(children) > 0 {
		if last := p.arena.get(uint32(children[len(children)-1])); last != nil {
			span = span.Cover(last.Span)
		}
	}
	return NodeID(p.arena.allocate(Node{Kind: kind, Span: span, Name: base, Children: children}))
}

// parseArgGroups greedily consumes the run of [...]/{...} groups
// immediately following a command name, e.g. \newcommand{x}{y} or
// \includegraphics[width=5cm]{fig}.
func (p *parser) parseArgGroups() []NodeID {
	var children []NodeID
	for {
		switch p.cur.Kind {
		case token.LatexLBracket:
			children = append(children, p.parseBracketGroup())
		case token.LatexLBrace:
			children = append(children, p.parseCurlyGroup())
		default:
			return children
		}
	}
}

func (p *parser) parseCurlyGroup() NodeID {
	open := p.cur
	p.advance()
	children := p.parseElements(func(tok token.Token) bool {
		return tok.Kind == token.LatexRBrace
	})
	span := open.Span
	if p.cur.Kind == token.LatexRBrace {
		span = span.Cover(p.cur.Span)
		p.advance()
	} else {
		p.report(diag.SynMissingCloseBrace, span.AtEnd(), "missing closing '}'")
	}
	return NodeID(p.arena.allocate(Node{Kind: CurlyGroup, Span: span, Children: children}))
}

func (p *parser) parseBracketGroup() NodeID {
	open := p.cur
	p.advance()

	var entries []NodeID
	looksKeyValue := false
	for p.cur.Kind != token.LatexRBracket && p.cur.Kind != token.EOF {
		keyStart := p.cur.Span
		var keyChildren []NodeID
		for p.cur.Kind != token.LatexRBracket && p.cur.Kind != token.LatexComma &&
			p.cur.Kind != token.LatexEquals && p.cur.Kind != token.EOF {
			keyChildren = append(keyChildren, p.parseElement())
		}
		keySpan := keyStart
		if len(keyChildren) > 0 {
			if last := p.arena.get(uint32(keyChildren[len(keyChildren)-1])); last != nil {
				keySpan = keyStart.Cover(last.Span)
			}
		}
		keyID := NodeID(p.arena.allocate(Node{Kind: Key, Span: keySpan, Children: keyChildren}))

		if p.cur.Kind == token.LatexEquals {
			looksKeyValue = true
			p.advance()
			valStart := p.cur.Span
			var valChildren []NodeID
			for p.cur.Kind != token.LatexRBracket && p.cur.Kind != token.LatexComma && p.cur.Kind != token.EOF {
				valChildren = append(valChildren, p.parseElement())
			}
			valSpan := valStart
			if len(valChildren) > 0 {
				if last := p.arena.get(uint32(valChildren[len(valChildren)-1])); last != nil {
					valSpan = valStart.Cover(last.Span)
				}
			}
			valID := NodeID(p.arena.allocate(Node{Kind: Value, Span: valSpan, Children: valChildren}))
			entries = append(entries, keyID, valID)
		} else {
			entries = append(entries, keyID)
		}

		if p.cur.Kind == token.LatexComma {
			p.advance()
			continue
		}
		break
	}

	span := open.Span
	if p.cur.Kind == token.LatexRBracket {
		span = span.Cover(p.cur.Span)
		p.advance()
	} else {
		p.report(diag.SynMissingCloseBrace, span.AtEnd(), "missing closing ']'")
	}

	kind := BracketGroup
	if looksKeyValue {
		kind = KeyValueGroup
	}
	return NodeID(p.arena.allocate(Node{Kind: kind, Span: span, Children: entries}))
}

// parseEnvironment handles \begin{name}...\end{name}. nameTok is the
// already-consumed \begin command token.
func (p *parser) parseEnvironment(beginTok token.Token) NodeID {
	nameGroup, envName := p.parseEnvironmentNameGroup()

	stopAtEnd := func(tok token.Token) bool {
		return tok.Kind == token.CommandName && strings.TrimPrefix(tok.Text, `\`) == "end"
	}
	var body []NodeID
	if verbatimEnvironments[envName] {
		body = p.parseVerbatimBody(stopAtEnd)
	} else {
		body = p.parseElements(stopAtEnd)
	}

	span := beginTok.Span
	var children []NodeID
	if nameGroup != 0 {
		children = append(children, nameGroup)
	}
	children = append(children, body...)

	if p.cur.Kind == token.CommandName && strings.TrimPrefix(p.cur.Text, `\`) == "end" {
		endTok := p.cur
		p.advance()
		endNameGroup, endName := p.parseEnvironmentNameGroup()
		if endNameGroup != 0 {
			children = append(children, endNameGroup)
		}
		span = span.Cover(endTok.Span)
		if endNameGroup != 0 {
			if n := p.arena.get(uint32(endNameGroup)); n != nil {
				span = span.Cover(n.Span)
			}
		}
		// Only raised when both names are present and differ, matching the
		// original's `name1 != name2` check on `?`-short-circuited Options:
		// a never-closed \begin (no \end at all) or a \end with no name group
		// of its own never reaches this point, so it never gets code 3.
		if nameGroup != 0 && envName != "" && endName != "" && envName != endName {
			if n := p.arena.get(uint32(nameGroup)); n != nil {
				p.report(diag.SynMismatchedEnvironment, n.Span,
					`\end{`+endName+`} does not match \begin{`+envName+`}`)
			}
		}
	}

	return NodeID(p.arena.allocate(Node{Kind: Environment, Span: span, Name: envName, Children: children}))
}

// parseEnvironmentNameGroup parses the mandatory {name} following \begin or
// \end, returning the CurlyGroup node id (0 if absent) and the bare name.
func (p *parser) parseEnvironmentNameGroup() (NodeID, string) {
	if p.cur.Kind != token.LatexLBrace {
		return 0, ""
	}
	open := p.cur
	p.advance()
	var name strings.Builder
	for p.cur.Kind != token.LatexRBrace && p.cur.Kind != token.EOF {
		name.WriteString(p.cur.Text)
		p.advance()
	}
	span := open.Span
	if p.cur.Kind == token.LatexRBrace {
		span = span.Cover(p.cur.Span)
		p.advance()
	} else {
		p.report(diag.SynMissingCloseBrace, span.AtEnd(), "missing closing '}'")
	}
	id := p.arena.allocate(Node{Kind: CurlyGroup, Span: span, Name: name.String()})
	return NodeID(id), name.String()
}
