package query

import (
	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/workspace"
)

// DocumentLinks builds spec.md §4.6's document_links result: one Link per
// explicit cross-file reference in doc, pointing at the first candidate
// target that names a document currently present in snap.
func DocumentLinks(a *workspace.Analyzer, snap *db.Snapshot, doc db.Document) []Link {
	ex, ok := a.Extras(snap, doc)
	if !ok {
		return nil
	}
	var out []Link
	for _, link := range ex.ExplicitLinks {
		target, ok := firstPresentTarget(snap, link.Targets)
		if !ok {
			continue
		}
		out = append(out, Link{SourceRange: link.StemRange, TargetURI: target})
	}
	return out
}

func firstPresentTarget(snap *db.Snapshot, targets []string) (string, bool) {
	for _, t := range targets {
		if doc, ok := snap.InternLookup(t); ok {
			if _, present := snap.Document(doc); present {
				return t, true
			}
		}
	}
	return "", false
}
