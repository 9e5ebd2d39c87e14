package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/texlab-project/texlab-core/internal/db"
)

func TestDecodeJSON(t *testing.T) {
	raw := []byte(`{
		"rootDirectory": "/proj",
		"auxDirectory": "/proj/build",
		"bibtexFormatter": "Texlab",
		"latexFormatter": "Latexindent",
		"build": {"onSave": true, "executable": "latexmk", "args": ["-pdf"]}
	}`)
	opts, err := DecodeJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.RootDirectory != "/proj" || opts.AuxDirectory != "/proj/build" {
		t.Fatalf("unexpected directories: %+v", opts)
	}
	if opts.BibtexFormatter != db.FormatterTexlab {
		t.Fatalf("expected FormatterTexlab, got %v", opts.BibtexFormatter)
	}
	if opts.LatexFormatter != db.FormatterLatexindent {
		t.Fatalf("expected FormatterLatexindent, got %v", opts.LatexFormatter)
	}
	if !opts.Build.OnSave || opts.Build.Executable != "latexmk" {
		t.Fatalf("unexpected build options: %+v", opts.Build)
	}
}

func TestDecodeJSONEmpty(t *testing.T) {
	opts, err := DecodeJSON(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.RootDirectory != "" || opts.AuxDirectory != "" || opts.BibtexFormatter != db.FormatterNone {
		t.Fatalf("expected zero-value options, got %+v", opts)
	}
}

func TestDecodeTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "texlab.toml")
	content := "root_directory = \"/proj\"\n" +
		"bibtex_formatter = \"texlab\"\n" +
		"[chktex]\n" +
		"on_edit = true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	opts, err := DecodeTOMLFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.RootDirectory != "/proj" {
		t.Fatalf("unexpected root directory: %q", opts.RootDirectory)
	}
	if opts.BibtexFormatter != db.FormatterTexlab {
		t.Fatalf("expected FormatterTexlab, got %v", opts.BibtexFormatter)
	}
	if !opts.Chktex.OnEdit {
		t.Fatalf("expected chktex.on_edit true")
	}
}

func TestMergePrefersNonDefaultOverride(t *testing.T) {
	base := db.ClientOptions{RootDirectory: "/base", AuxDirectory: "/base/aux"}
	override := db.ClientOptions{AuxDirectory: "/override/aux"}
	merged := Merge(base, override)
	if merged.RootDirectory != "/base" {
		t.Fatalf("expected base root directory to survive, got %q", merged.RootDirectory)
	}
	if merged.AuxDirectory != "/override/aux" {
		t.Fatalf("expected override aux directory to win, got %q", merged.AuxDirectory)
	}
}
