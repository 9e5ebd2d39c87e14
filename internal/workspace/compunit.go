package workspace

import (
	"sort"

	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/extras"
)

// CompilationUnit returns every document reachable from doc by following the
// undirected link relation (explicit \input/\include/\bibliography/aux-log
// links, traversed in both directions), i.e. the connected component doc
// belongs to (spec.md §3 "compilation unit", §4.4). The result is sorted by
// Document handle so callers get a deterministic order (spec.md I4)
// regardless of traversal order.
func (a *Analyzer) CompilationUnit(snap *db.Snapshot, doc db.Document) []db.Document {
	return a.units.Get(snap, doc, func() []db.Document {
		g := a.linkGraph(snap)
		visited := map[db.Document]bool{doc: true}
		queue := []db.Document{doc}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range g.Edges[cur] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		out := make([]db.Document, 0, len(visited))
		for d := range visited {
			out = append(out, d)
		}
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
		return out
	})
}

// Parent picks unit's build root per spec.md §4.4(1): the first document (in
// unit's deterministic order) whose Extras report HasDocumentEnvironment,
// excluding subfiles of a \documentclass{subfiles} child (those declare a
// \documentclass[main]{subfiles} pointing back at their real parent and
// never serve as a build root themselves). Falls back to reporting no
// parent when the unit contains no document environment at all, e.g. a
// unit consisting solely of a standalone .bib file.
func (a *Analyzer) Parent(snap *db.Snapshot, unit []db.Document) (db.Document, bool) {
	for _, doc := range unit {
		ex, ok := a.Extras(snap, doc)
		if !ok || !ex.HasDocumentEnvironment {
			continue
		}
		if isSubfilesChild(ex) {
			continue
		}
		return doc, true
	}
	return db.NoDocument, false
}

// isSubfilesChild reports whether ex belongs to a document that declares
// itself a \documentclass{subfiles} member, which always defers to the
// parent it names rather than standing as a compilation unit's own root.
func isSubfilesChild(ex extras.Extras) bool {
	for _, link := range ex.ExplicitLinks {
		if link.Kind == extras.LinkClass && link.Stem == "subfiles" {
			return true
		}
	}
	return false
}
