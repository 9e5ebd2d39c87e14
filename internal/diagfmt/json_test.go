package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/texlab-project/texlab-core/internal/diag"
	"github.com/texlab-project/texlab-core/internal/source"
)

func TestJSONBasic(t *testing.T) {
	report := newReport("test.tex", "\\section{Intro\n", diag.New(
		diag.SevError,
		diag.LexUnterminatedBraceGroup,
		source.Span{Start: 9, End: 14},
		"unterminated brace group",
	))

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
	}
	if err := JSON(&buf, []Report{report}, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if output.Count != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", output.Count)
	}
	d := output.Diagnostics[0]
	if d.Location.File != "test.tex" || d.Location.StartLine != 1 || d.Location.StartCol != 10 {
		t.Fatalf("unexpected location: %+v", d.Location)
	}
	if d.Severity != "ERROR" {
		t.Fatalf("unexpected severity: %q", d.Severity)
	}
}

func TestJSONRespectsMaxAcrossReports(t *testing.T) {
	r1 := newReport("a.tex", "\\section{A\n", diag.New(diag.SevError, diag.LexUnterminatedBraceGroup, source.Span{Start: 9, End: 10}, "a"))
	r2 := newReport("b.tex", "\\section{B\n", diag.New(diag.SevError, diag.LexUnterminatedBraceGroup, source.Span{Start: 9, End: 10}, "b"))

	var buf bytes.Buffer
	if err := JSON(&buf, []Report{r1, r2}, JSONOpts{Max: 1}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if output.Count != 1 {
		t.Fatalf("expected Max to cap output at 1 diagnostic, got %d", output.Count)
	}
}

func TestSarifProducesOneResultPerDiagnostic(t *testing.T) {
	report := newReport("test.bib", "@article{key\n", diag.New(
		diag.SevWarning,
		diag.BibMissingRightDelim,
		source.Span{Start: 0, End: 12},
		"missing closing delimiter",
	))

	var buf bytes.Buffer
	if err := Sarif(&buf, []Report{report}, SarifRunMeta{ToolName: "texlab", ToolVersion: "0.1.0"}); err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"ruleId"`) || !strings.Contains(out, report.Bag.Items()[0].Code.ID()) {
		t.Fatalf("expected a SARIF result referencing the diagnostic's rule id, got:\n%s", out)
	}
	if !strings.Contains(out, `"level": "warning"`) {
		t.Fatalf("expected SARIF level 'warning', got:\n%s", out)
	}
}
