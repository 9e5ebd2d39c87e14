package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/texlab-project/texlab-core/internal/db"
	"github.com/texlab-project/texlab-core/internal/extras"
)

// maxAscendDepth bounds how many directory levels discoverParent climbs
// looking for a build root before giving up, per spec.md §4.4(1). A real
// project nests a handful of levels at most; this is purely a runaway
// guard against a misconfigured workspace root (or a symlink cycle) that
// would otherwise have Discover walk toward the filesystem root forever.
const maxAscendDepth = 64

// texClassExtensions are the file extensions discoverParent/discoverChildren
// treat as "LaTeX-class" siblings worth opening speculatively: a document
// declaring \documentclass (root candidates) and the file kinds a
// \documentclass/\usepackage/\input/\include stem can resolve to (spec.md
// §4.3's LaTeX link extensions, plus the style/class/config files a
// document's preamble commonly lives in).
var texClassExtensions = map[string]bool{
	".tex": true,
	".sty": true,
	".cls": true,
	".def": true,
	".lco": true,
	".rnw": true,
}

// Discover implements spec.md §4.4's workspace-expansion rule: when a
// document is opened, pull in the rest of its compilation unit even though
// the editor only ever sent one file. It runs children-expansion (load every
// explicit-link target not already in the Store, plus the auxiliary
// aux/log companions) and parent-expansion (ascend from doc's directory,
// level by level, looking for a LaTeX-class sibling that has a
// \begin{document} and links doc back in), so that a reader who opens a
// chapter file still gets whole-project diagnostics and cross-references.
//
// Discover only touches the filesystem for `file` scheme URIs (spec.md §6
// "Filesystem discovery"); other schemes are left as opaque, analysis-only
// identifiers. It must run only from the main loop, since it mutates inputs
// through the same Store the editor's own edits go through (spec.md §5).
//
// Grounded on internal/driver/stdlib.go's os.Stat/os.ReadDir candidate-path
// probing idiom, generalized from stdlib-module resolution to LaTeX
// document discovery.
func Discover(a *Analyzer, store *db.Store, doc db.Document) {
	uri, ok := store.Lookup(doc)
	if !ok || !strings.HasPrefix(uri, "file://") {
		return
	}

	discoverChildren(a, store, doc, uri, make(map[db.Document]bool))
	discoverParent(a, store, doc, uri)
}

// discoverChildren walks doc's explicit links and auxiliary aux/log
// companions, upserting any target file that exists on disk but isn't yet
// a tracked document, then recurses into newly discovered LaTeX/BibTeX
// children's own links. visited guards against re-descending into a cycle.
func discoverChildren(a *Analyzer, store *db.Store, doc db.Document, uri string, visited map[db.Document]bool) {
	if visited[doc] {
		return
	}
	visited[doc] = true

	snap := store.Snapshot()
	ex, ok := a.Extras(snap, doc)
	if !ok {
		return
	}

	resolver := snap.DistroResolver()
	for _, link := range ex.ExplicitLinks {
		// spec.md §4.4(2): a stem naming a well-known distro component
		// (e.g. \usepackage{amsmath}) is resolved through the distro
		// resolver, not opened as a workspace-relative file candidate.
		if resolver.IsDistroComponent(link.Stem) {
			continue
		}
		for _, target := range link.Targets {
			child, loaded := loadFileDocument(store, target)
			if !loaded {
				continue
			}
			discoverChildren(a, store, child, target, visited)
			break
		}
	}

	// spec.md §4.4(2): also try to open the first on-disk target among
	// doc's auxiliary .aux/.log companions, same stop-at-first-success
	// rule as an explicit link's own target list.
	for _, kind := range []AuxKind{AuxFile, LogFile} {
		for _, cand := range auxCandidates(snap, doc, kind) {
			if filePathFromURI(cand) == "" {
				continue
			}
			if _, loaded := loadFileDocument(store, cand); loaded {
				break
			}
		}
	}
}

// discoverParent ascends from doc's directory, level by level up to
// maxAscendDepth, looking for a LaTeX-class sibling that has a
// \begin{document} and explicitly links back to doc, per §4.4(1)'s
// parent-expansion rule. Every LaTeX-class file encountered along the way
// is opened as Hidden so CompilationUnit/Parent can see it regardless of
// whether it turns out to be the root; the ascent itself stops at the
// first directory level that yields a genuine parent, or at the
// filesystem root, whichever comes first.
func discoverParent(a *Analyzer, store *db.Store, doc db.Document, uri string) {
	dirPath := filePathFromURI(extras.DirOf(uri))
	if dirPath == "" {
		return
	}

	for depth := 0; depth < maxAscendDepth; depth++ {
		entries, err := os.ReadDir(dirPath)
		if err != nil {
			return
		}
		dirURI := dirURIFromPath(dirPath)

		for _, ent := range entries {
			if ent.IsDir() || !texClassExtensions[filepath.Ext(ent.Name())] {
				continue
			}
			candidateURI := extras.JoinPath(dirURI, ent.Name())
			if candidateURI == uri {
				continue
			}
			candidate, loaded := loadFileDocument(store, candidateURI)
			if !loaded {
				continue
			}
			snap := store.Snapshot()
			ex, ok := a.Extras(snap, candidate)
			if !ok || !ex.HasDocumentEnvironment {
				continue
			}
			if linksToTarget(ex, uri) {
				return
			}
		}

		parentDirPath := filepath.Dir(dirPath)
		if parentDirPath == dirPath {
			return
		}
		dirPath = parentDirPath
	}
}

// linksToTarget reports whether any of ex's explicit links could resolve to
// targetURI, i.e. whether the document ex summarizes \input/\include/
// \import's targetURI among its candidates.
func linksToTarget(ex extras.Extras, targetURI string) bool {
	for _, link := range ex.ExplicitLinks {
		for _, t := range link.Targets {
			if t == targetURI {
				return true
			}
		}
	}
	return false
}

// loadFileDocument upserts uri into store from disk if it isn't already
// tracked there, returning the resulting handle and whether it is now (or
// already was) present. Non-existent or unreadable files are left untouched.
func loadFileDocument(store *db.Store, uri string) (db.Document, bool) {
	snap := store.Snapshot()
	if doc, ok := snap.InternLookup(uri); ok {
		if _, present := snap.Document(doc); present {
			return doc, true
		}
	}
	path := filePathFromURI(uri)
	if path == "" {
		return db.NoDocument, false
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return db.NoDocument, false
	}
	ext := filepath.Ext(path)
	doc := store.Upsert(uri, db.DocumentInput{
		SourceCode: string(content),
		Language:   db.LanguageFromExtension(ext),
		Visibility: db.Hidden,
	})
	return doc, true
}

// filePathFromURI converts a "file://" URI to a filesystem path, returning
// "" for any other scheme.
func filePathFromURI(uri string) string {
	const prefix = "file://"
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return filepath.FromSlash(strings.TrimPrefix(uri, prefix))
}

// dirURIFromPath converts a directory's filesystem path back to a "file://"
// URI, the inverse of filePathFromURI, so an ascended directory can still be
// joined against with extras.JoinPath.
func dirURIFromPath(path string) string {
	return "file://" + filepath.ToSlash(path)
}
