package db

import "sync"

// Document is an interned, opaque handle over a document URI. Handles are
// small, copyable, comparable, and never reused: deletion removes set
// membership, not the interner entry (spec.md §3 "Lifecycle").
type Document uint32

// NoDocument is the zero value, never assigned to a real document.
const NoDocument Document = 0

// Interner maps URIs to Document handles monotonically: the same URI
// always yields the same handle. Grounded on source.Interner from the
// teacher, generalized from string->StringID to string->Document.
type Interner struct {
	mu      sync.RWMutex
	byURI   map[string]Document
	byIndex []string // byIndex[0] is unused; handles are 1-based
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{
		byURI:   make(map[string]Document),
		byIndex: []string{""},
	}
}

// Intern returns the Document handle for uri, allocating one if unseen.
func (in *Interner) Intern(uri string) Document {
	in.mu.RLock()
	if d, ok := in.byURI[uri]; ok {
		in.mu.RUnlock()
		return d
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	if d, ok := in.byURI[uri]; ok {
		return d
	}
	cpy := string([]byte(uri))
	d := Document(len(in.byIndex))
	in.byIndex = append(in.byIndex, cpy)
	in.byURI[cpy] = d
	return d
}

// Lookup returns the URI for a handle and whether it is valid.
func (in *Interner) Lookup(d Document) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(d) <= 0 || int(d) >= len(in.byIndex) {
		return "", false
	}
	return in.byIndex[d], true
}

// MustLookup panics if d is not a valid handle.
func (in *Interner) MustLookup(d Document) string {
	uri, ok := in.Lookup(d)
	if !ok {
		panic("db: invalid Document handle")
	}
	return uri
}

// Len returns the number of interned URIs (excluding the NoDocument slot).
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.byIndex) - 1
}

// Language is the document's recognized content kind (spec.md §3).
type Language uint8

const (
	LanguageUnknown Language = iota
	LanguageLaTeX
	LanguageBibTeX
	LanguageBuildLog
)

func (l Language) String() string {
	switch l {
	case LanguageLaTeX:
		return "latex"
	case LanguageBibTeX:
		return "bibtex"
	case LanguageBuildLog:
		return "buildlog"
	default:
		return "unknown"
	}
}

// LanguageFromExtension maps a file extension (with leading dot, e.g. ".tex")
// to a Language per spec.md §3.
func LanguageFromExtension(ext string) Language {
	switch ext {
	case ".tex", ".sty", ".cls", ".def", ".lco", ".aux", ".rnw":
		return LanguageLaTeX
	case ".bib", ".bibtex":
		return LanguageBibTeX
	case ".log":
		return LanguageBuildLog
	default:
		return LanguageUnknown
	}
}

// LanguageFromID maps an editor languageId string, falling back to the
// extension when the id is unrecognized.
func LanguageFromID(languageID, ext string) Language {
	switch languageID {
	case "latex", "tex":
		return LanguageLaTeX
	case "bibtex":
		return LanguageBibTeX
	case "log":
		return LanguageBuildLog
	default:
		return LanguageFromExtension(ext)
	}
}

// Visibility controls whether a document's diagnostics are published.
type Visibility uint8

const (
	Visible Visibility = iota
	Hidden
)
