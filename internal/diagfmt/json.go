package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/texlab-project/texlab-core/internal/diag"
	"github.com/texlab-project/texlab-core/internal/source"
)

// LocationJSON is a file location in the JSON diagnostic output.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is an auxiliary note in the JSON diagnostic output.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON is a single fix edit in the JSON diagnostic output.
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

// FixJSON is a fix suggestion in the JSON diagnostic output.
type FixJSON struct {
	ID            string        `json:"id,omitempty"`
	Title         string        `json:"title"`
	Kind          string        `json:"kind"`
	Applicability string        `json:"applicability"`
	IsPreferred   bool          `json:"is_preferred,omitempty"`
	BuildError    string        `json:"build_error,omitempty"`
	Edits         []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON is one diagnostic in the JSON output.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the root structure of the JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(file *source.File, span source.Span, pathMode PathMode, baseDir string, includePositions bool) LocationJSON {
	var path string
	switch pathMode {
	case PathModeAbsolute:
		path = file.FormatPath("absolute", "")
	case PathModeRelative:
		path = file.FormatPath("relative", baseDir)
	case PathModeBasename:
		path = file.FormatPath("basename", "")
	default:
		path = file.FormatPath("auto", "")
	}

	loc := LocationJSON{
		File:      path,
		StartByte: span.Start,
		EndByte:   span.End,
	}

	if includePositions {
		startPos := file.Index.Resolve(span.Start)
		endPos := file.Index.Resolve(span.End)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}

	return loc
}

// BuildDiagnosticsOutput flattens every report's diagnostics into the JSON
// output structure, in report order, without serializing.
func BuildDiagnosticsOutput(reports []Report, opts JSONOpts) DiagnosticsOutput {
	var diagnostics []DiagnosticJSON

	for _, report := range reports {
		file := report.File
		items := report.Bag.Items()
		for _, d := range items {
			if opts.Max > 0 && len(diagnostics) >= opts.Max {
				return DiagnosticsOutput{Diagnostics: diagnostics, Count: len(diagnostics)}
			}

			diagJSON := DiagnosticJSON{
				Severity: d.Severity.String(),
				Code:     d.Code.ID(),
				Message:  d.Message,
				Location: makeLocation(file, d.Primary, opts.PathMode, opts.BaseDir, opts.IncludePositions),
			}

			if opts.IncludeNotes && len(d.Notes) > 0 {
				diagJSON.Notes = make([]NoteJSON, len(d.Notes))
				for j, note := range d.Notes {
					diagJSON.Notes[j] = NoteJSON{
						Message:  note.Msg,
						Location: makeLocation(file, note.Span, opts.PathMode, opts.BaseDir, opts.IncludePositions),
					}
				}
			}

			if opts.IncludeFixes && len(d.Fixes) > 0 {
				fixes := sortedFixes(d.Fixes)
				ctx := diag.FixBuildContext{}
				diagJSON.Fixes = make([]FixJSON, 0, len(fixes))
				for _, fix := range fixes {
					resolved, err := fix.Resolve(ctx)
					fixJSON := FixJSON{
						ID:            resolved.ID,
						Title:         resolved.Title,
						Kind:          resolved.Kind.String(),
						Applicability: resolved.Applicability.String(),
						IsPreferred:   resolved.IsPreferred,
					}
					if err != nil {
						fixJSON.BuildError = err.Error()
					} else if len(resolved.Edits) > 0 {
						fixJSON.Edits = make([]FixEditJSON, len(resolved.Edits))
						for k, edit := range resolved.Edits {
							editJSON := FixEditJSON{
								Location: makeLocation(file, edit.Span, opts.PathMode, opts.BaseDir, opts.IncludePositions),
								NewText:  edit.NewText,
								OldText:  edit.OldText,
							}
							if opts.IncludePreviews {
								if preview, err := buildFixEditPreview(file, edit); err == nil {
									editJSON.BeforeLines = append([]string(nil), preview.before...)
									editJSON.AfterLines = append([]string(nil), preview.after...)
								}
							}
							fixJSON.Edits[k] = editJSON
						}
					}
					diagJSON.Fixes = append(diagJSON.Fixes, fixJSON)
				}
			}

			diagnostics = append(diagnostics, diagJSON)
		}
	}

	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
	}
}

// JSON writes every report's diagnostics as a single JSON document.
func JSON(w io.Writer, reports []Report, opts JSONOpts) error {
	output := BuildDiagnosticsOutput(reports, opts)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
