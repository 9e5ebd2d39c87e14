package buildlog

import "testing"

func TestParseLogUndefinedControlSequence(t *testing.T) {
	log := "(./main.tex\n" +
		"! Undefined control sequence.\n" +
		"l.12 \\foo\n" +
		"      bar\n" +
		")\n"
	errs := ParseLog([]byte(log))
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %+v", len(errs), errs)
	}
	e := errs[0]
	if e.Level != LevelError {
		t.Fatalf("expected LevelError, got %v", e.Level)
	}
	if e.Message != "Undefined control sequence." {
		t.Fatalf("unexpected message: %q", e.Message)
	}
	if !e.HasLine || e.Line != 12 {
		t.Fatalf("expected line 12, got %d (has=%v)", e.Line, e.HasLine)
	}
	if e.RelativePath != "./main.tex" {
		t.Fatalf("unexpected relative path: %q", e.RelativePath)
	}
}

func TestParseLogWarningWithInputLine(t *testing.T) {
	log := "(./main.tex\n" +
		"LaTeX Warning: Reference `fig:1' on page 1 undefined on input line 42.\n" +
		")\n"
	errs := ParseLog([]byte(log))
	if len(errs) != 1 {
		t.Fatalf("expected 1 warning, got %d: %+v", len(errs), errs)
	}
	e := errs[0]
	if e.Level != LevelWarning {
		t.Fatalf("expected LevelWarning, got %v", e.Level)
	}
	if e.Message != "Reference `fig:1' on page 1 undefined on input line 42." {
		t.Fatalf("unexpected message: %q", e.Message)
	}
	if !e.HasLine || e.Line != 42 {
		t.Fatalf("expected line 42, got %d (has=%v)", e.Line, e.HasLine)
	}
}

func TestParseLogPackageWarning(t *testing.T) {
	log := "(./main.tex\n" +
		"Package hyperref Warning: Token not allowed in a PDF string on input line 7.\n" +
		")\n"
	errs := ParseLog([]byte(log))
	if len(errs) != 1 {
		t.Fatalf("expected 1 warning, got %d: %+v", len(errs), errs)
	}
	if errs[0].Line != 7 {
		t.Fatalf("expected line 7, got %d", errs[0].Line)
	}
}

func TestParseLogTracksNestedFiles(t *testing.T) {
	log := "(./main.tex\n" +
		"(./chapters/intro.tex\n" +
		"! Missing $ inserted.\n" +
		"l.3 some text\n" +
		")\n" +
		"! Undefined control sequence.\n" +
		"l.20 \\bar\n" +
		")\n"
	errs := ParseLog([]byte(log))
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %+v", len(errs), errs)
	}
	if errs[0].RelativePath != "./chapters/intro.tex" {
		t.Fatalf("expected nested file, got %q", errs[0].RelativePath)
	}
	if errs[1].RelativePath != "./main.tex" {
		t.Fatalf("expected popped back to main.tex, got %q", errs[1].RelativePath)
	}
}

func TestParseLogEmptyInput(t *testing.T) {
	if errs := ParseLog(nil); len(errs) != 0 {
		t.Fatalf("expected no errors for empty input, got %+v", errs)
	}
}

func TestParseLogNoSourceLineFound(t *testing.T) {
	log := "! Emergency stop.\n" +
		"*** (job aborted, no legal \\end found)\n"
	errs := ParseLog([]byte(log))
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].HasLine {
		t.Fatalf("expected no line number, got %d", errs[0].Line)
	}
	if errs[0].RelativePath != "" {
		t.Fatalf("expected empty relative path, got %q", errs[0].RelativePath)
	}
}
