package workspace

import (
	"strings"

	"github.com/texlab-project/texlab-core/internal/bibsyntax"
	"github.com/texlab-project/texlab-core/internal/buildlog"
	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/diag"
	"github.com/texlab-project/texlab-core/internal/latexsyntax"
	"github.com/texlab-project/texlab-core/internal/source"
)

// verbatimLikeEnvironments lists the environment names spec.md §4.5 exempts
// from the missing-'}' check: their bodies are opaque text (Asymptote
// figures, listings, minted code, verbatim blocks) where an unbalanced
// brace is routine and not a real authoring mistake.
var verbatimLikeEnvironments = map[string]bool{
	"asy": true, "lstlisting": true, "minted": true, "verbatim": true,
}

// Diagnose computes the L4 diagnostics for a single document per spec.md
// §4.5: LaTeX structural checks for .tex documents only (other LaTeX-family
// extensions are parsed for Extras but never emit diagnostics, to avoid
// duplicate reports once their generated .aux/.log companions also surface
// issues), BibTeX structural checks for .bib/.bibtex documents, and
// build-log translation for .log documents, reattributed onto the .tex
// sibling of the .aux file the log was produced for.
func (a *Analyzer) Diagnose(snap *db.Snapshot, doc db.Document) *diag.Bag {
	uri, ok := snap.URI(doc)
	if !ok {
		return diag.NewBag(0)
	}
	input, ok := snap.Document(doc)
	if !ok {
		return diag.NewBag(0)
	}

	switch {
	case strings.HasSuffix(uri, ".tex"):
		return diagnoseLatex(uri, input.SourceCode)
	case strings.HasSuffix(uri, ".bib") || strings.HasSuffix(uri, ".bibtex"):
		return diagnoseBibtex(uri, input.SourceCode)
	case strings.HasSuffix(uri, ".log"):
		return a.diagnoseBuildLog(snap, doc, input.SourceCode)
	default:
		return diag.NewBag(0)
	}
}

func diagnoseLatex(uri, sourceCode string) *diag.Bag {
	bag := diag.NewBag(4096)
	file := source.NewFile(uri, []byte(sourceCode))
	reporter := diag.BagReporter{Bag: bag}
	tree := latexsyntax.Parse(file, reporter)

	exempt := verbatimSpans(tree)
	bag.Filter(func(d *diag.Diagnostic) bool {
		if d.Code != diag.SynMissingCloseBrace {
			return true
		}
		for _, span := range exempt {
			if span.Contains(d.Primary.Start) {
				return false
			}
		}
		return true
	})
	bag.Sort()
	return bag
}

// verbatimSpans collects the full span of every environment node whose name
// is one of verbatimLikeEnvironments.
func verbatimSpans(tree *latexsyntax.Tree) []source.Span {
	var spans []source.Span
	tree.Walk(tree.Root(), func(id latexsyntax.NodeID) bool {
		n := tree.Node(id)
		if n != nil && n.Kind == latexsyntax.Environment && verbatimLikeEnvironments[n.Name] {
			spans = append(spans, n.Span)
		}
		return true
	})
	return spans
}

func diagnoseBibtex(uri, sourceCode string) *diag.Bag {
	bag := diag.NewBag(4096)
	file := source.NewFile(uri, []byte(sourceCode))
	reporter := diag.BagReporter{Bag: bag}
	bibsyntax.Parse(file, reporter)
	bag.Sort()
	return bag
}

// diagnoseBuildLog translates a .log file's build errors onto its owning
// .aux sibling's companion .tex document, per spec.md §4.5's "Build-log
// linkage" rule: the log documents a run of the corresponding .tex file, so
// its diagnostics should surface there rather than on the opaque log text.
// If no such sibling can be found in the workspace, the bag is returned
// empty rather than attributing the errors to nothing: the log-owning
// document itself never gets these diagnostics (spec.md §4.5 "other
// extensions are skipped to avoid duplicates").
func (a *Analyzer) diagnoseBuildLog(snap *db.Snapshot, doc db.Document, content string) *diag.Bag {
	bag := diag.NewBag(4096)
	siblings := logOwner(snap, doc)
	if len(siblings) == 0 {
		return bag
	}
	owner := siblings[0]
	ownerInput, ok := snap.Document(owner)
	if !ok {
		return bag
	}
	ownerFile := source.NewFile("", []byte(ownerInput.SourceCode))

	for _, be := range buildlog.ParseLog([]byte(content)) {
		span := source.Span{}
		if be.HasLine {
			off := ownerFile.Index.Offset(source.LineCol{Line: be.Line, Col: 1})
			span = source.Span{Start: off, End: off}
		}
		code := diag.LogLatexError
		if be.Level == buildlog.LevelWarning {
			code = diag.LogLatexWarning
		}
		bag.Add(&diag.Diagnostic{
			Severity: severityFor(be.Level),
			Code:     code,
			Message:  be.Message,
			Primary:  span,
		})
	}
	bag.Sort()
	return bag
}

func severityFor(level buildlog.Level) diag.Severity {
	if level == buildlog.LevelWarning {
		return diag.SevWarning
	}
	return diag.SevError
}

// logOwner finds the .tex document that a .log file's owning .aux sibling
// corresponds to: the log and the aux file are emitted side by side by the
// same build, so AuxLink's same-directory/root/aux-directory search applied
// to the log (treated as if it were the .tex stem) locates the .aux file,
// and a second AuxLink call in reverse locates the originating .tex.
func logOwner(snap *db.Snapshot, logDoc db.Document) []db.Document {
	auxSiblings := AuxLink(snap, logDoc, AuxFile)
	var texDocs []db.Document
	seen := make(map[db.Document]bool)
	for _, aux := range auxSiblings {
		uri, ok := snap.URI(aux)
		if !ok {
			continue
		}
		texURI := strings.TrimSuffix(uri, ".aux") + ".tex"
		if tex, ok := snap.InternLookup(texURI); ok {
			if _, present := snap.Document(tex); present && !seen[tex] {
				seen[tex] = true
				texDocs = append(texDocs, tex)
			}
		}
	}
	if len(texDocs) == 0 {
		// Fall back to treating the log's own stem as the .tex name directly,
		// covering the common case where no .aux file has been opened in the
		// workspace at all but the .tex source has.
		logURI, ok := snap.URI(logDoc)
		if ok {
			texURI := strings.TrimSuffix(logURI, ".log") + ".tex"
			if tex, ok := snap.InternLookup(texURI); ok {
				if _, present := snap.Document(tex); present {
					texDocs = append(texDocs, tex)
				}
			}
		}
	}
	return texDocs
}
