package db

// ClientCapabilities mirrors the subset of LSP capabilities the core reacts
// to when deciding whether to advertise dynamic registration (spec.md §6).
type ClientCapabilities struct {
	DynamicConfiguration bool
	DynamicFileWatcher   bool
}

// ClientInfo records the connecting editor's self-reported identity.
type ClientInfo struct {
	Name    string
	Version string
}

// FormatterKind selects which tool formats a document (spec.md §6).
type FormatterKind uint8

const (
	FormatterNone FormatterKind = iota
	FormatterTexlab
	FormatterLatexindent
)

// LatexindentOptions configures the latexindent subprocess contract.
type LatexindentOptions struct {
	Local            string
	ModifyLineBreaks bool
}

// ChktexOptions configures when the chktex linter subprocess runs.
type ChktexOptions struct {
	OnOpenAndSave bool
	OnEdit        bool
}

// BuildOptions configures the external build-tool driver contract.
type BuildOptions struct {
	OnSave             bool
	Executable         string
	Args               []string
	ForwardSearchAfter bool
}

// ForwardSearchOptions configures the forward-search subprocess contract.
type ForwardSearchOptions struct {
	Executable string
	Args       []string
}

// ClientOptions is the recognized `texlab` configuration section (spec.md §6).
type ClientOptions struct {
	RootDirectory   string
	AuxDirectory    string
	BibtexFormatter FormatterKind
	LatexFormatter  FormatterKind
	Latexindent     LatexindentOptions
	Chktex          ChktexOptions
	Build           BuildOptions
	ForwardSearch   ForwardSearchOptions
}

// DistroKind identifies which external TeX distribution probe produced a
// DistroResolver, purely informational.
type DistroKind uint8

const (
	DistroUnknown DistroKind = iota
	DistroTexlive
	DistroMiktex
	DistroNone
)

// DistroResolver is a name->path map supplied by an external TeX
// distribution probe. It is an input: the core never mutates it, only
// consults it while resolving include targets (spec.md §4.3, §9 "Global
// state").
type DistroResolver interface {
	// Resolve returns the absolute path of a well-known component (a
	// package, class, or style file) by its bare stem or stem.ext name.
	Resolve(name string) (string, bool)
	// IsDistroComponent reports whether stem names a component this
	// resolver knows about, used by §4.4's child-expansion exclusion list.
	IsDistroComponent(stem string) bool
}

// NullResolver is the zero-value DistroResolver: it knows nothing. Used
// before any distro probe has completed.
type NullResolver struct{}

func (NullResolver) Resolve(string) (string, bool) { return "", false }
func (NullResolver) IsDistroComponent(string) bool { return false }
