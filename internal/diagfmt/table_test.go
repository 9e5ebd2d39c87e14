package diagfmt

import (
	"strings"
	"testing"
)

func TestTableRendersSeverityColumn(t *testing.T) {
	out := Table([]UnitSummary{
		{URI: "main.tex", Parent: "", OrderIndex: 0, ErrorCount: 1, WarningCount: 2},
		{URI: "chapters/intro.tex", Parent: "main.tex", OrderIndex: 1},
	})
	if !strings.Contains(out, "main.tex") || !strings.Contains(out, "chapters/intro.tex") {
		t.Fatalf("expected both documents listed, got:\n%s", out)
	}
	if !strings.Contains(out, "1 errors, 2 warnings") {
		t.Fatalf("expected the error/warning count rendered, got:\n%s", out)
	}
	if !strings.Contains(out, "clean") {
		t.Fatalf("expected a clean row for the document with no diagnostics, got:\n%s", out)
	}
}

func TestTableEmpty(t *testing.T) {
	out := Table(nil)
	if !strings.Contains(out, "no documents analyzed") {
		t.Fatalf("expected placeholder text for empty input, got:\n%s", out)
	}
}
