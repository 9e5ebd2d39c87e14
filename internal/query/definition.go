package query

import (
	"github.com/texlab-project/texlab-core/internal/bibsyntax"
	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/source"
	"github.com/texlab-project/texlab-core/internal/workspace"
)

// GotoDocumentDefinition resolves the explicit link whose stem range covers
// offset in doc, returning the document it points at. Absent if offset does
// not fall inside any \input/\include/\usepackage/\bibliography-family
// argument, or the link's target is not a document in the set.
func GotoDocumentDefinition(a *workspace.Analyzer, snap *db.Snapshot, doc db.Document, offset uint32) (db.Document, bool) {
	ex, ok := a.Extras(snap, doc)
	if !ok {
		return db.NoDocument, false
	}
	for _, link := range ex.ExplicitLinks {
		if !link.StemRange.Contains(offset) {
			continue
		}
		for _, target := range link.Targets {
			if to, ok := snap.InternLookup(target); ok {
				if _, present := snap.Document(to); present {
					return to, true
				}
			}
		}
		return db.NoDocument, false
	}
	return db.NoDocument, false
}

// GotoLabelDefinition searches unit for the \label{name} declaring name,
// spec.md §4.6 "pure traversal over the compilation unit".
func GotoLabelDefinition(a *workspace.Analyzer, snap *db.Snapshot, unit []db.Document, name string) (db.Document, Location, bool) {
	for _, doc := range unit {
		ex, ok := a.Extras(snap, doc)
		if !ok {
			continue
		}
		for _, l := range ex.LabelNames {
			if l.IsDefinition && l.Text == name {
				return doc, Location{Range: l.Range}, true
			}
		}
	}
	return db.NoDocument, Location{}, false
}

// GotoEntryDefinition searches unit's BibTeX documents for the @entry{key,...}
// declaring key.
func GotoEntryDefinition(snap *db.Snapshot, unit []db.Document, key string) (db.Document, Location, bool) {
	for _, doc := range unit {
		input, ok := snap.Document(doc)
		if !ok || input.Language != db.LanguageBibTeX {
			continue
		}
		uri, _ := snap.URI(doc)
		file := source.NewFile(uri, []byte(input.SourceCode))
		tree := bibsyntax.Parse(file, nil)
		root := tree.Node(tree.Root())
		if root == nil {
			continue
		}
		for _, id := range root.Children {
			n := tree.Node(id)
			if n == nil || n.Kind != bibsyntax.Entry {
				continue
			}
			if entryKey(tree, n) == key {
				return doc, Location{Range: n.Span}, true
			}
		}
	}
	return db.NoDocument, Location{}, false
}
