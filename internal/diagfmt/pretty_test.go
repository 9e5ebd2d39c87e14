package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/texlab-project/texlab-core/internal/diag"
	"github.com/texlab-project/texlab-core/internal/source"
)

func newReport(path, content string, d diag.Diagnostic) Report {
	bag := diag.NewBag(10)
	bag.Add(&d)
	return Report{
		URI:  path,
		File: source.NewFile(path, []byte(content)),
		Bag:  bag,
	}
}

func TestPathModes(t *testing.T) {
	content := "\\section{Intro\n"
	report := newReport("/home/user/project/src/main.tex", content, diag.New(
		diag.SevError,
		diag.LexUnterminatedBraceGroup,
		source.Span{Start: 9, End: 15},
		"unterminated brace group",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/main.tex"},
		{"relative", PathModeRelative, "src/main.tex"},
		{"basename", PathModeBasename, "main.tex"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project", Context: 1}
			Pretty(&buf, []Report{report}, opts)
			if !strings.Contains(buf.String(), tt.contains) {
				t.Fatalf("expected output to contain %q, got:\n%s", tt.contains, buf.String())
			}
		})
	}
}

func TestPrettyUnderlinesPrimarySpan(t *testing.T) {
	content := "\\section{Intro\n\\label{sec:intro}\n"
	report := newReport("main.tex", content, diag.New(
		diag.SevError,
		diag.LexUnterminatedBraceGroup,
		source.Span{Start: 9, End: 14},
		"unterminated brace group",
	))

	var buf bytes.Buffer
	Pretty(&buf, []Report{report}, PrettyOpts{PathMode: PathModeBasename, Context: 1})
	out := buf.String()

	if !strings.Contains(out, "main.tex:1:10: ERROR") {
		t.Fatalf("expected a header line at 1:10, got:\n%s", out)
	}
	if !strings.Contains(out, "~~~~^") {
		t.Fatalf("expected an underline under the primary span, got:\n%s", out)
	}
}

func TestPrettyHonorsColorOption(t *testing.T) {
	report := newReport("main.tex", "\\section{Intro\n", diag.New(
		diag.SevError, diag.LexUnterminatedBraceGroup, source.Span{Start: 9, End: 14}, "boom",
	))

	var plain bytes.Buffer
	Pretty(&plain, []Report{report}, PrettyOpts{PathMode: PathModeBasename, Context: 1, Color: false})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("expected no ANSI escapes with Color: false, got:\n%s", plain.String())
	}

	var colored bytes.Buffer
	Pretty(&colored, []Report{report}, PrettyOpts{PathMode: PathModeBasename, Context: 1, Color: true})
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes with Color: true, got:\n%s", colored.String())
	}
}
