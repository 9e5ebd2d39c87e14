package workspace

import (
	"sort"

	"github.com/texlab-project/texlab-core/internal/db"
)

// Ordering is the result of a project-wide dependency analysis: a
// deterministic emission order over every document plus any cycles
// discovered along the way, grounded on internal/project/dag/topo.go's
// Topo{Order, Batches, Cyclic, Cycles} shape. Unlike the teacher's
// ToposortKahn (which assumes an acyclic module graph and only detects a
// cycle as a side effect), texlab's \include graph is not guaranteed
// acyclic — a document can \include itself transitively by accident — so
// ProjectOrdering picks a root document per compilation unit via Tarjan
// strongly-connected-components and then walks forward from it, reporting
// cycles explicitly rather than assuming their absence (spec.md §4.4(2)).
type Ordering struct {
	// Order lists every document exactly once: within a unit, the root
	// document first, then its \include/\import targets depth-first with
	// each document's own links visited in reverse declared order (so a
	// later-declared include sorts before an earlier one — spec.md §3
	// ProjectOrdering(d), scenario 1 of §8). Units with no dependency
	// relationship to anything else sort after every ordered unit.
	Order []db.Document
	// Cyclic reports whether any \include relationship forms a cycle.
	Cyclic bool
	// Cycles lists each non-trivial strongly connected component (size > 1,
	// or a single document that includes itself), in discovery order.
	Cycles [][]db.Document
}

// ProjectOrdering computes a dependency ordering over every document in
// snap, following explicit \input/\include/\import/\bibliography edges
// (directed: the including document depends on the included one).
// Memoized per snapshot epoch since it is a whole-workspace query
// (spec.md §9(a)).
func (a *Analyzer) ProjectOrdering(snap *db.Snapshot) *Ordering {
	return a.ordering.Get(snap, struct{}{}, func() *Ordering {
		docs := snap.AllDocuments()
		successors := a.successorLists(snap, docs)
		unit := a.linkGraph(snap)
		return computeOrdering(docs, successors, unit)
	})
}

// successorLists builds, per document, the ordered list of other known
// documents its explicit links target — one entry per link, in the order
// the links appear in the source, keeping only the first candidate target
// that resolves to a known document (same "first match wins" rule §4.3/§4.6
// use for link resolution). This preserves declared order, unlike DocGraph's
// addEdge (which sorts adjacency by handle for the undirected unit graph),
// because ProjectOrdering's scenario 1 (spec.md §8) depends on visiting
// links in their original, not handle-sorted, order.
func (a *Analyzer) successorLists(snap *db.Snapshot, docs []db.Document) map[db.Document][]db.Document {
	out := make(map[db.Document][]db.Document, len(docs))
	for _, doc := range docs {
		ex, ok := a.Extras(snap, doc)
		if !ok {
			continue
		}
		var succs []db.Document
		seen := map[db.Document]bool{}
		for _, link := range ex.ExplicitLinks {
			for _, target := range link.Targets {
				to, ok := snap.InternLookup(target)
				if !ok {
					continue
				}
				if _, present := snap.Document(to); !present {
					continue
				}
				if !seen[to] {
					seen[to] = true
					succs = append(succs, to)
				}
				break
			}
		}
		out[doc] = succs
	}
	return out
}

// computeOrdering partitions docs into connected components over unit (the
// undirected link+aux relation, spec.md §3 "compilation unit"), then for
// each component with at least one internal edge picks a root via Tarjan SCC
// and emits a depth-first, reverse-link-order walk from it (spec.md §4.4
// "depth-first emitting documents from the root with explicit links
// traversed in reverse order"). Components with no edges at all (a document
// unrelated to anything else) are held back and appended after every
// ordered component, per spec.md §4.4 "documents outside any ordered unit
// sort at the maximum index".
func computeOrdering(docs []db.Document, successors map[db.Document][]db.Document, unit DocGraph) *Ordering {
	components := connectedComponents(docs, unit)

	ordering := &Ordering{}
	var unordered []db.Document

	for _, comp := range components {
		if len(comp) == 1 && len(successors[comp[0]]) == 0 && !hasIncoming(comp[0], successors) {
			unordered = append(unordered, comp[0])
			continue
		}

		sccs, sccOf := tarjanSCCs(comp, successors)
		for _, scc := range sccs {
			if len(scc) > 1 {
				ordering.Cyclic = true
				ordering.Cycles = append(ordering.Cycles, scc)
			} else if selfLoop(successors, scc[0]) {
				ordering.Cyclic = true
				ordering.Cycles = append(ordering.Cycles, scc)
			}
		}

		root := rootDocument(comp, successors, sccs, sccOf)
		visited := map[db.Document]bool{}
		var emit []db.Document
		var walk func(db.Document)
		walk = func(d db.Document) {
			if visited[d] {
				return
			}
			visited[d] = true
			emit = append(emit, d)
			succs := successors[d]
			for i := len(succs) - 1; i >= 0; i-- {
				walk(succs[i])
			}
		}
		walk(root)

		var leftover []db.Document
		for _, d := range comp {
			if !visited[d] {
				leftover = append(leftover, d)
			}
		}
		sort.Slice(leftover, func(i, j int) bool { return leftover[i] < leftover[j] })
		emit = append(emit, leftover...)

		ordering.Order = append(ordering.Order, emit...)
	}

	sort.Slice(unordered, func(i, j int) bool { return unordered[i] < unordered[j] })
	ordering.Order = append(ordering.Order, unordered...)
	return ordering
}

// hasIncoming reports whether any document other than d lists d as a
// successor, used only to decide whether a singleton component is truly
// isolated (no edges in either direction) or merely a one-document unit
// that is the target of someone else's link.
func hasIncoming(d db.Document, successors map[db.Document][]db.Document) bool {
	for from, succs := range successors {
		if from == d {
			continue
		}
		for _, to := range succs {
			if to == d {
				return true
			}
		}
	}
	return false
}

// connectedComponents partitions docs into undirected connected components
// over unit, each returned component sorted by handle, and components
// themselves ordered by their smallest member handle for determinism
// (spec.md I4).
func connectedComponents(docs []db.Document, unit DocGraph) [][]db.Document {
	visited := map[db.Document]bool{}
	var comps [][]db.Document
	sorted := append([]db.Document(nil), docs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, start := range sorted {
		if visited[start] {
			continue
		}
		visited[start] = true
		comp := []db.Document{start}
		queue := []db.Document{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range unit.Edges[cur] {
				if !visited[next] {
					visited[next] = true
					comp = append(comp, next)
					queue = append(queue, next)
				}
			}
		}
		sort.Slice(comp, func(i, j int) bool { return comp[i] < comp[j] })
		comps = append(comps, comp)
	}
	return comps
}

// rootDocument picks the component's ProjectOrdering root: the smallest-
// handle member of the condensation SCC that has no incoming edge from
// another SCC in the same component (the SCC nothing in this unit depends
// on, i.e. the top-level document). In the acyclic common case this is
// simply the document with no other document linking to it.
func rootDocument(comp []db.Document, successors map[db.Document][]db.Document, sccs [][]db.Document, sccOf map[db.Document]int) db.Document {
	indegree := make([]int, len(sccs))
	for _, d := range comp {
		for _, to := range successors[d] {
			if sccOf[d] != sccOf[to] {
				indegree[sccOf[to]]++
			}
		}
	}

	best := -1
	for i, scc := range sccs {
		if indegree[i] != 0 {
			continue
		}
		minMember := scc[0]
		for _, m := range scc {
			if m < minMember {
				minMember = m
			}
		}
		if best == -1 || minMember < sccs[best][0] {
			best = i
		}
	}
	if best == -1 {
		// Every SCC has an incoming edge from within the component, which
		// cannot happen for a finite directed graph (some SCC must be a
		// condensation source); fall back to the smallest handle overall.
		return comp[0]
	}
	root := sccs[best][0]
	for _, m := range sccs[best] {
		if m < root {
			root = m
		}
	}
	return root
}

// tarjanState carries the mutable bookkeeping of one Tarjan's-algorithm run
// restricted to a single connected component.
type tarjanState struct {
	successors map[db.Document][]db.Document
	index      map[db.Document]int
	lowlink    map[db.Document]int
	onStack    map[db.Document]bool
	stack      []db.Document
	counter    int
	sccs       [][]db.Document
}

// tarjanSCCs runs Tarjan's strongly-connected-components algorithm over the
// directed successors relation restricted to comp, returning each SCC
// (members sorted by handle) in discovery order plus a lookup from document
// to its SCC's index in that slice.
func tarjanSCCs(comp []db.Document, successors map[db.Document][]db.Document) ([][]db.Document, map[db.Document]int) {
	st := &tarjanState{
		successors: successors,
		index:      make(map[db.Document]int),
		lowlink:    make(map[db.Document]int),
		onStack:    make(map[db.Document]bool),
	}

	sorted := append([]db.Document(nil), comp...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, d := range sorted {
		if _, visited := st.index[d]; !visited {
			st.strongConnect(d)
		}
	}

	sccOf := make(map[db.Document]int, len(comp))
	for i, scc := range st.sccs {
		for _, d := range scc {
			sccOf[d] = i
		}
	}
	return st.sccs, sccOf
}

// strongConnect is the recursive core of Tarjan's algorithm.
func (st *tarjanState) strongConnect(v db.Document) {
	st.index[v] = st.counter
	st.lowlink[v] = st.counter
	st.counter++
	st.stack = append(st.stack, v)
	st.onStack[v] = true

	for _, w := range st.successors[v] {
		if _, visited := st.index[w]; !visited {
			st.strongConnect(w)
			if st.lowlink[w] < st.lowlink[v] {
				st.lowlink[v] = st.lowlink[w]
			}
		} else if st.onStack[w] {
			if st.index[w] < st.lowlink[v] {
				st.lowlink[v] = st.index[w]
			}
		}
	}

	if st.lowlink[v] != st.index[v] {
		return
	}
	var component []db.Document
	for {
		n := len(st.stack) - 1
		w := st.stack[n]
		st.stack = st.stack[:n]
		st.onStack[w] = false
		component = append(component, w)
		if w == v {
			break
		}
	}
	sort.Slice(component, func(i, j int) bool { return component[i] < component[j] })
	st.sccs = append(st.sccs, component)
}

func selfLoop(successors map[db.Document][]db.Document, d db.Document) bool {
	for _, next := range successors[d] {
		if next == d {
			return true
		}
	}
	return false
}
