package diag

import (
	"testing"

	"github.com/texlab-project/texlab-core/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	file := source.NewFile("sample.tex", []byte("a\nb\n"))

	diags := []*Diagnostic{
		{
			Severity: SevError,
			Code:     SynMissingCloseBrace,
			Message:  "first line\nsecond",
			Primary:  source.Span{Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     BibMissingEquals,
			Message:  "another",
			Primary:  source.Span{Start: 2, End: 3},
		},
	}

	expected := "error TEX0002 sample.tex:1:1 first line second\n" +
		"note TEX0002 sample.tex:2:1 note line\n" +
		"warning BIB0007 sample.tex:2:1 another"

	if got := FormatGoldenDiagnostics(diags, file, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}
