package workspace

import (
	"strings"

	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/extras"
)

// AuxKind distinguishes the two companion-file searches spec.md §4.4(1)
// describes: the .aux file a LaTeX document's build produces (carrying
// cross-reference numbers) and the .log file (carrying build errors).
type AuxKind uint8

const (
	AuxFile AuxKind = iota
	LogFile
)

func (k AuxKind) extension() string {
	switch k {
	case LogFile:
		return "log"
	default:
		return "aux"
	}
}

// auxCandidates lists doc's companion-file candidate URIs for kind, in
// spec.md §4.4(1)'s three-location search order (same directory, then
// ClientOptions.RootDirectory, then ClientOptions.AuxDirectory), before
// checking which (if any) exist. Shared by AuxLink (query-time lookup
// against already-tracked documents) and Discover's children-expansion
// (disk probing for a not-yet-tracked companion file).
func auxCandidates(snap *db.Snapshot, doc db.Document, kind AuxKind) []string {
	uri, ok := snap.URI(doc)
	if !ok {
		return nil
	}
	stem := stemOf(uri)
	if stem == "" {
		return nil
	}
	name := stem + "." + kind.extension()

	var candidates []string
	sameDir := extras.DirOf(uri)
	candidates = append(candidates, extras.JoinPath(sameDir, name))

	opts := snap.ClientOptions()
	if opts.RootDirectory != "" {
		candidates = append(candidates, extras.JoinPath(opts.RootDirectory, name))
	}
	if opts.AuxDirectory != "" {
		candidates = append(candidates, extras.JoinPath(opts.AuxDirectory, name))
	}
	return candidates
}

// AuxLink resolves doc's companion file of the given kind, trying each of
// spec.md §4.4(1)'s three search locations in order and keeping each one
// that already names a document known to snap (other than doc itself).
// Multiple directories can legitimately hold a stale companion file left from
// an earlier run (e.g. after moving AuxDirectory), so every match is
// returned, in search order, with duplicates removed.
func AuxLink(snap *db.Snapshot, doc db.Document, kind AuxKind) []db.Document {
	var out []db.Document
	seen := make(map[db.Document]bool)
	for _, cand := range auxCandidates(snap, doc, kind) {
		target, ok := snap.InternLookup(cand)
		if !ok {
			continue
		}
		if _, present := snap.Document(target); !present {
			continue
		}
		if target == doc || seen[target] {
			continue
		}
		seen[target] = true
		out = append(out, target)
	}
	return out
}

// stemOf returns uri's final path segment with its extension removed, e.g.
// "file:///proj/main.tex" -> "main".
func stemOf(uri string) string {
	base := uri
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}
