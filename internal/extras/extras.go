// Package extras extracts the L2 "Extras" summary from a parsed LaTeX
// document: the generic command/environment inventory, explicit cross-file
// links, label definitions/references, theorem environments, and graphics
// search paths spec.md §3/§4.3 describe. It is a pure function of a
// latexsyntax.Tree; nothing here mutates the tree or touches the workspace.
package extras

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/latexsyntax"
	"github.com/texlab-project/texlab-core/internal/source"
)

// LinkKind distinguishes the target language of an ExplicitLink, which in
// turn selects the extension spec.md §4.3 appends when a stem is bare.
type LinkKind uint8

const (
	LinkLaTeX LinkKind = iota
	LinkBibTeX
	LinkPackage
	LinkClass
)

func (k LinkKind) String() string {
	switch k {
	case LinkBibTeX:
		return "BibTeX"
	case LinkPackage:
		return "Package"
	case LinkClass:
		return "Class"
	default:
		return "LaTeX"
	}
}

func (k LinkKind) extension() string {
	switch k {
	case LinkBibTeX:
		return "bib"
	case LinkPackage:
		return "sty"
	case LinkClass:
		return "cls"
	default:
		return "tex"
	}
}

// ExplicitLink is one \input/\include/\usepackage/\documentclass/
// \bibliography/\import-family reference found in a document.
type ExplicitLink struct {
	Stem      string
	StemRange source.Span
	// Targets holds every candidate URI the stem could resolve to, in
	// preference order. The workspace layer (AuxLink) picks the first one
	// that actually names a known or creatable document.
	Targets []string
	Kind    LinkKind
}

// LabelName is one \label definition or \ref-family reference.
type LabelName struct {
	Text         string
	Range        source.Span
	IsDefinition bool
}

// TheoremEnvironment is one \newtheorem declaration.
type TheoremEnvironment struct {
	Name        string
	Description string
}

// CommandDefinition is one \newcommand/\renewcommand/\DeclareRobustCommand
// declaration, supplementing spec.md's Extras per SPEC_FULL.md §5 so the
// query layer can offer user-defined commands the same way it offers
// built-ins.
type CommandDefinition struct {
	Name       string
	ParamCount int
	Range      source.Span
}

// Extras is the L2 summary of one document's syntax tree.
type Extras struct {
	ExplicitLinks          []ExplicitLink
	HasDocumentEnvironment bool
	CommandNames           map[string]bool
	EnvironmentNames       map[string]bool
	LabelNames             []LabelName
	LabelNumbersByName     map[string]string
	TheoremEnvironments    []TheoremEnvironment
	GraphicsPaths          map[string]bool
	CommandDefinitions     []CommandDefinition
	EnvironmentDefinitions []string
}

// ExtractExtras walks tree once, in document order, classifying each node
// per spec.md §4.3's analysis sequence: generic command/environment name,
// command/environment definition, include, import, label name, theorem
// definition, graphics path. baseURI anchors relative stems (normally the
// document's own URI); resolver supplements package/class candidates with
// distribution-known paths.
func ExtractExtras(tree *latexsyntax.Tree, content []byte, baseURI string, resolver db.DistroResolver) Extras {
	if resolver == nil {
		resolver = db.NullResolver{}
	}
	ex := Extras{
		CommandNames:     map[string]bool{},
		EnvironmentNames: map[string]bool{},
		GraphicsPaths:    map[string]bool{},
	}
	baseDir := DirOf(baseURI)

	tree.Walk(tree.Root(), func(id latexsyntax.NodeID) bool {
		n := tree.Node(id)
		if n == nil {
			return true
		}
		switch n.Kind {
		case latexsyntax.Command:
			ex.CommandNames[n.Name] = true
			switch n.Name {
			case "newcommand", "renewcommand", "DeclareRobustCommand":
				if cd, ok := commandDefinition(tree, n, content); ok {
					ex.CommandDefinitions = append(ex.CommandDefinitions, cd)
				}
			case "newenvironment", "renewenvironment":
				if groups := curlyGroups(tree, n); len(groups) > 0 {
					if name := groupInner(tree, groups[0], content); name != "" {
						ex.EnvironmentDefinitions = append(ex.EnvironmentDefinitions, name)
					}
				}
			}

		case latexsyntax.Environment:
			ex.EnvironmentNames[n.Name] = true
			if n.Name == "document" {
				ex.HasDocumentEnvironment = true
			}

		case latexsyntax.Include:
			extractInclude(tree, n, content, baseDir, resolver, &ex)

		case latexsyntax.Import:
			extractImport(tree, n, content, baseDir, resolver, &ex)

		case latexsyntax.LabelDef:
			if text, rng, ok := firstGroupText(tree, n, content); ok {
				ex.LabelNames = append(ex.LabelNames, LabelName{Text: text, Range: rng, IsDefinition: true})
			}

		case latexsyntax.LabelRef:
			for _, g := range curlyGroups(tree, n) {
				for _, key := range splitCommaStems(groupInner(tree, g, content)) {
					ex.LabelNames = append(ex.LabelNames, LabelName{Text: key, Range: tree.Node(g).Span})
				}
			}

		case latexsyntax.LabelRefRange:
			for _, g := range curlyGroups(tree, n) {
				if text := groupInner(tree, g, content); text != "" {
					ex.LabelNames = append(ex.LabelNames, LabelName{Text: text, Range: tree.Node(g).Span})
				}
			}

		case latexsyntax.TheoremDef:
			if groups := curlyGroups(tree, n); len(groups) >= 2 {
				ex.TheoremEnvironments = append(ex.TheoremEnvironments, TheoremEnvironment{
					Name:        groupInner(tree, groups[0], content),
					Description: groupInner(tree, groups[1], content),
				})
			}

		case latexsyntax.GraphicsPath:
			if n.Name == "graphicspath" {
				if groups := curlyGroups(tree, n); len(groups) > 0 {
					outer := tree.Node(groups[0])
					for _, c := range outer.Children {
						if cn := tree.Node(c); cn != nil && cn.Kind == latexsyntax.CurlyGroup {
							if p := groupInner(tree, c, content); p != "" {
								ex.GraphicsPaths[p] = true
							}
						}
					}
				}
			}
		}
		return true
	})

	return ex
}

// MergeAuxNumbers fills LabelNumbersByName for every label definition that
// ParseAux's result names. No package in this module calls it outside tests;
// internal/workspace does not merge .aux numbers into the Extras it computes.
func MergeAuxNumbers(ex *Extras, auxLabels map[string]string) {
	for _, l := range ex.LabelNames {
		if !l.IsDefinition {
			continue
		}
		if num, ok := auxLabels[l.Text]; ok {
			if ex.LabelNumbersByName == nil {
				ex.LabelNumbersByName = make(map[string]string, len(auxLabels))
			}
			ex.LabelNumbersByName[l.Text] = num
		}
	}
}

func extractInclude(tree *latexsyntax.Tree, n *latexsyntax.Node, content []byte, baseDir string, resolver db.DistroResolver, ex *Extras) {
	groups := curlyGroups(tree, n)
	if len(groups) == 0 {
		return
	}
	switch n.Name {
	case "import":
		if len(groups) < 2 {
			return
		}
		dir := groupInner(tree, groups[0], content)
		file := groupInner(tree, groups[1], content)
		if file == "" {
			return
		}
		importBase := JoinPath(baseDir, dir)
		ex.ExplicitLinks = append(ex.ExplicitLinks, ExplicitLink{
			Stem: file, StemRange: tree.Node(groups[1]).Span, Kind: LinkLaTeX,
			Targets: candidateTargets(file, LinkLaTeX, importBase, resolver),
		})

	case "bibliography", "addbibresource":
		span := tree.Node(groups[0]).Span
		for _, stem := range splitCommaStems(groupInner(tree, groups[0], content)) {
			ex.ExplicitLinks = append(ex.ExplicitLinks, ExplicitLink{
				Stem: stem, StemRange: span, Kind: LinkBibTeX,
				Targets: candidateTargets(stem, LinkBibTeX, baseDir, resolver),
			})
		}

	default: // input, include
		stem := groupInner(tree, groups[0], content)
		if stem == "" {
			return
		}
		ex.ExplicitLinks = append(ex.ExplicitLinks, ExplicitLink{
			Stem: stem, StemRange: tree.Node(groups[0]).Span, Kind: LinkLaTeX,
			Targets: candidateTargets(stem, LinkLaTeX, baseDir, resolver),
		})
	}
}

func extractImport(tree *latexsyntax.Tree, n *latexsyntax.Node, content []byte, baseDir string, resolver db.DistroResolver, ex *Extras) {
	groups := curlyGroups(tree, n)
	if len(groups) == 0 {
		return
	}
	kind := LinkPackage
	if n.Name == "documentclass" {
		kind = LinkClass
	}
	span := tree.Node(groups[0]).Span
	for _, stem := range splitCommaStems(groupInner(tree, groups[0], content)) {
		ex.ExplicitLinks = append(ex.ExplicitLinks, ExplicitLink{
			Stem: stem, StemRange: span, Kind: kind,
			Targets: candidateTargets(stem, kind, baseDir, resolver),
		})
	}
}

func commandDefinition(tree *latexsyntax.Tree, n *latexsyntax.Node, content []byte) (CommandDefinition, bool) {
	var nameGroup, countGroup latexsyntax.NodeID
	haveName := false
	for _, c := range n.Children {
		cn := tree.Node(c)
		if cn == nil {
			continue
		}
		switch cn.Kind {
		case latexsyntax.CurlyGroup:
			if !haveName {
				nameGroup = c
				haveName = true
			}
		case latexsyntax.BracketGroup, latexsyntax.KeyValueGroup:
			if countGroup == 0 {
				countGroup = c
			}
		}
	}
	if !haveName {
		return CommandDefinition{}, false
	}
	name := strings.TrimPrefix(groupInner(tree, nameGroup, content), `\`)
	if name == "" {
		return CommandDefinition{}, false
	}
	count := 0
	if countGroup != 0 {
		if v, err := strconv.Atoi(groupInner(tree, countGroup, content)); err == nil {
			count = v
		}
	}
	return CommandDefinition{Name: name, ParamCount: count, Range: tree.Node(nameGroup).Span}, true
}

func firstGroupText(tree *latexsyntax.Tree, n *latexsyntax.Node, content []byte) (string, source.Span, bool) {
	groups := curlyGroups(tree, n)
	if len(groups) == 0 {
		return "", source.Span{}, false
	}
	text := groupInner(tree, groups[0], content)
	if text == "" {
		return "", source.Span{}, false
	}
	return text, tree.Node(groups[0]).Span, true
}

func curlyGroups(tree *latexsyntax.Tree, n *latexsyntax.Node) []latexsyntax.NodeID {
	var out []latexsyntax.NodeID
	for _, c := range n.Children {
		if cn := tree.Node(c); cn != nil && cn.Kind == latexsyntax.CurlyGroup {
			out = append(out, c)
		}
	}
	return out
}

// groupInner returns a group node's text with its delimiters stripped.
func groupInner(tree *latexsyntax.Tree, id latexsyntax.NodeID, content []byte) string {
	s := strings.TrimSpace(tree.Text(id, content))
	if len(s) >= 2 {
		switch {
		case s[0] == '{' && s[len(s)-1] == '}':
			s = s[1 : len(s)-1]
		case s[0] == '[' && s[len(s)-1] == ']':
			s = s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}

func splitCommaStems(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func candidateTargets(stem string, kind LinkKind, baseDir string, resolver db.DistroResolver) []string {
	names := []string{stem}
	if !strings.ContainsRune(lastSegment(stem), '.') {
		names = append(names, stem+"."+kind.extension())
	}
	targets := make([]string, 0, len(names)+1)
	for _, name := range names {
		targets = append(targets, JoinPath(baseDir, name))
	}
	if kind == LinkPackage || kind == LinkClass {
		for _, name := range names {
			if p, ok := resolver.Resolve(name); ok {
				targets = append(targets, p)
			}
		}
	}
	return targets
}

func lastSegment(stem string) string {
	if i := strings.LastIndexByte(stem, '/'); i >= 0 {
		return stem[i+1:]
	}
	return stem
}

// splitScheme separates a "scheme://" prefix (if any) from the rest of a
// URI, so path-segment joining never mangles the "//" after the scheme.
func splitScheme(uri string) (prefix, rest string) {
	if i := strings.Index(uri, "://"); i >= 0 {
		return uri[:i+3], uri[i+3:]
	}
	return "", uri
}

// DirOf returns the directory component of a document URI, i.e. uri with
// its final path segment removed.
func DirOf(uri string) string {
	prefix, rest := splitScheme(uri)
	if i := strings.LastIndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	} else {
		rest = "."
	}
	return prefix + rest
}

// JoinPath resolves rel against dirURI, which must itself already name a
// directory (callers use DirOf first when starting from a document URI).
// rel is returned unchanged if it already looks absolute.
func JoinPath(dirURI, rel string) string {
	if rel == "" {
		return dirURI
	}
	if strings.HasPrefix(rel, "/") || strings.Contains(rel, "://") {
		return rel
	}
	prefix, rest := splitScheme(dirURI)
	absolute := strings.HasPrefix(rest, "/")
	segments := append(strings.Split(rest, "/"), strings.Split(rel, "/")...)
	var out []string
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	joined := strings.Join(out, "/")
	if absolute {
		return prefix + "/" + joined
	}
	return prefix + joined
}

// ParseAux scans a .aux file's content for \newlabel{name}{{number}...}
// entries, brace-matching by hand since the format isn't worth a full
// LaTeX-dialect tokenization pass (spec.md §4.3, "Label numbers").
func ParseAux(content []byte) map[string]string {
	result := make(map[string]string)
	const marker = `\newlabel{`
	pos := 0
	for {
		idx := bytes.Index(content[pos:], []byte(marker))
		if idx < 0 {
			break
		}
		nameStart := pos + idx + len(marker)
		nameEnd := bytes.IndexByte(content[nameStart:], '}')
		if nameEnd < 0 {
			break
		}
		name := string(content[nameStart : nameStart+nameEnd])
		cursor := nameStart + nameEnd + 1
		for cursor < len(content) && content[cursor] != '{' {
			if content[cursor] == '\n' {
				break
			}
			cursor++
		}
		outer, next, ok := scanBraceGroup(content, cursor)
		if !ok {
			pos = nameStart + nameEnd + 1
			continue
		}
		if number, _, ok := scanBraceGroup([]byte(outer), 0); ok && name != "" {
			result[name] = number
		}
		pos = next
	}
	return result
}

// scanBraceGroup reads a balanced {...} starting at content[start], returning
// the inner text and the offset just past the closing brace.
func scanBraceGroup(content []byte, start int) (inner string, next int, ok bool) {
	if start >= len(content) || content[start] != '{' {
		return "", start, false
	}
	depth := 0
	for i := start; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return string(content[start+1 : i]), i + 1, true
			}
		}
	}
	return "", len(content), false
}
