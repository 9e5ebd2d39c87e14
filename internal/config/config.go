// Package config decodes texlab's recognized configuration (spec.md §6)
// from either of its two sources: the `texlab` section of an editor's
// `workspace/configuration`/`workspace/didChangeConfiguration` JSON payload,
// or a project-local texlab.toml file for headless runs that have no editor
// pushing configuration at all. Both decode into the same db.ClientOptions
// the store holds as an L0 input; a decode failure falls back to defaults
// rather than aborting startup (spec.md §1 "config decode failures fall
// back to defaults").
package config

import (
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/texlab-project/texlab-core/internal/db"
)

// Latexindent mirrors the `latexindent` JSON/TOML section.
type Latexindent struct {
	Local            *string `json:"local" toml:"local"`
	ModifyLineBreaks bool    `json:"modifyLineBreaks" toml:"modify_line_breaks"`
}

// Chktex mirrors the `chktex` JSON/TOML section.
type Chktex struct {
	OnOpenAndSave bool `json:"onOpenAndSave" toml:"on_open_and_save"`
	OnEdit        bool `json:"onEdit" toml:"on_edit"`
}

// Build mirrors the `build` JSON/TOML section.
type Build struct {
	OnSave             bool     `json:"onSave" toml:"on_save"`
	Executable         string   `json:"executable" toml:"executable"`
	Args               []string `json:"args" toml:"args"`
	ForwardSearchAfter bool     `json:"forwardSearchAfter" toml:"forward_search_after"`
}

// ForwardSearch mirrors the `forwardSearch`/`forward_search` section.
type ForwardSearch struct {
	Executable string   `json:"executable" toml:"executable"`
	Args       []string `json:"args" toml:"args"`
}

// Document is the recognized `texlab` configuration section, spec.md §6.
// Field names follow each source's own convention (camelCase for the JSON
// wire format LSP clients send, snake_case for texlab.toml), kept as two
// separate struct tags on one Go type rather than two parallel types, since
// the set of fields and their semantics are identical either way.
type Document struct {
	RootDirectory   string        `json:"rootDirectory" toml:"root_directory"`
	AuxDirectory    string        `json:"auxDirectory" toml:"aux_directory"`
	BibtexFormatter string        `json:"bibtexFormatter" toml:"bibtex_formatter"`
	LatexFormatter  string        `json:"latexFormatter" toml:"latex_formatter"`
	Latexindent     Latexindent   `json:"latexindent" toml:"latexindent"`
	Chktex          Chktex        `json:"chktex" toml:"chktex"`
	Build           Build         `json:"build" toml:"build"`
	ForwardSearch   ForwardSearch `json:"forwardSearch" toml:"forward_search"`
}

// DecodeJSON parses an editor-pushed `texlab` configuration section.
func DecodeJSON(raw json.RawMessage) (db.ClientOptions, error) {
	var doc Document
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return db.ClientOptions{}, fmt.Errorf("config: decode json: %w", err)
		}
	}
	return doc.toClientOptions(), nil
}

// DecodeTOMLFile parses a project-local texlab.toml override file.
func DecodeTOMLFile(path string) (db.ClientOptions, error) {
	var doc Document
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return db.ClientOptions{}, fmt.Errorf("%s: config: decode toml: %w", path, err)
	}
	return doc.toClientOptions(), nil
}

// Merge layers override on top of base. RootDirectory, AuxDirectory and the
// two formatter kinds are taken from override when it sets them non-default.
// The Latexindent, Chktex, Build and ForwardSearch sections are replaced as a
// whole, and only when override sets their key field (Latexindent.Local,
// either Chktex flag, Build.Executable, ForwardSearch.Executable); any other
// field set in such a section without its key field is ignored.
func Merge(base, override db.ClientOptions) db.ClientOptions {
	out := base
	if override.RootDirectory != "" {
		out.RootDirectory = override.RootDirectory
	}
	if override.AuxDirectory != "" {
		out.AuxDirectory = override.AuxDirectory
	}
	if override.BibtexFormatter != db.FormatterNone {
		out.BibtexFormatter = override.BibtexFormatter
	}
	if override.LatexFormatter != db.FormatterNone {
		out.LatexFormatter = override.LatexFormatter
	}
	if override.Latexindent.Local != "" {
		out.Latexindent = override.Latexindent
	}
	if override.Chktex.OnOpenAndSave || override.Chktex.OnEdit {
		out.Chktex = override.Chktex
	}
	if override.Build.Executable != "" {
		out.Build = override.Build
	}
	if override.ForwardSearch.Executable != "" {
		out.ForwardSearch = override.ForwardSearch
	}
	return out
}

func (doc Document) toClientOptions() db.ClientOptions {
	opts := db.ClientOptions{
		RootDirectory:   doc.RootDirectory,
		AuxDirectory:    doc.AuxDirectory,
		BibtexFormatter: formatterKind(doc.BibtexFormatter),
		LatexFormatter:  formatterKind(doc.LatexFormatter),
		Chktex: db.ChktexOptions{
			OnOpenAndSave: doc.Chktex.OnOpenAndSave,
			OnEdit:        doc.Chktex.OnEdit,
		},
		Build: db.BuildOptions{
			OnSave:             doc.Build.OnSave,
			Executable:         doc.Build.Executable,
			Args:               doc.Build.Args,
			ForwardSearchAfter: doc.Build.ForwardSearchAfter,
		},
		ForwardSearch: db.ForwardSearchOptions{
			Executable: doc.ForwardSearch.Executable,
			Args:       doc.ForwardSearch.Args,
		},
	}
	opts.Latexindent.ModifyLineBreaks = doc.Latexindent.ModifyLineBreaks
	if doc.Latexindent.Local != nil {
		opts.Latexindent.Local = *doc.Latexindent.Local
	}
	return opts
}

func formatterKind(name string) db.FormatterKind {
	switch name {
	case "Texlab", "texlab":
		return db.FormatterTexlab
	case "Latexindent", "latexindent":
		return db.FormatterLatexindent
	default:
		return db.FormatterNone
	}
}
