// Package workspace derives the L3 cross-document graph spec.md §3/§4.4
// describes: auxiliary file linking, compilation units, parent documents,
// and the dependency ordering used to pick a build root. It also hosts the
// per-document Extras computation (memoized) that the graph and the L4
// diagnostics layer both build on.
package workspace

import (
	"sort"

	"github.com/texlab-project/texlab-core/internal/db"
)

// DocGraph is an adjacency-list representation of the undirected link
// relation over a document set, grounded on internal/project/dag/graph.go's
// Graph{Edges, Present} shape, generalized from a dense ModuleID index to a
// map keyed directly by db.Document (the document set isn't guaranteed
// contiguous the way a freshly built module index is).
type DocGraph struct {
	Edges map[db.Document][]db.Document
}

// addEdge records a directed edge once, keeping each adjacency list sorted
// so graph traversal order stays deterministic (spec.md I4).
func (g *DocGraph) addEdge(from, to db.Document) {
	if g.Edges == nil {
		g.Edges = make(map[db.Document][]db.Document)
	}
	for _, existing := range g.Edges[from] {
		if existing == to {
			return
		}
	}
	g.Edges[from] = append(g.Edges[from], to)
	sort.Slice(g.Edges[from], func(i, j int) bool { return g.Edges[from][i] < g.Edges[from][j] })
}

// addUndirected records edges in both directions, modeling spec.md §3's
// "compilation unit" relation (explicit links are directed in the source
// text but the unit they define is an undirected connected component).
func (g *DocGraph) addUndirected(a, b db.Document) {
	g.addEdge(a, b)
	g.addEdge(b, a)
}

// linkGraph builds the undirected link relation over every document in
// snap: explicit links (resolved to whichever candidate target is already
// a known document) plus each document's aux/log siblings.
func (a *Analyzer) linkGraph(snap *db.Snapshot) DocGraph {
	var g DocGraph
	for _, doc := range snap.AllDocuments() {
		ex, ok := a.Extras(snap, doc)
		if !ok {
			continue
		}
		for _, link := range ex.ExplicitLinks {
			for _, target := range link.Targets {
				if to, ok := snap.InternLookup(target); ok {
					if _, present := snap.Document(to); present {
						g.addUndirected(doc, to)
						break
					}
				}
			}
		}
		for _, kind := range []AuxKind{AuxFile, LogFile} {
			for _, sibling := range AuxLink(snap, doc, kind) {
				g.addUndirected(doc, sibling)
			}
		}
	}
	return g
}
