package diagfmt

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/texlab-project/texlab-core/internal/diag"
	"github.com/texlab-project/texlab-core/internal/source"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// visualWidthUpTo computes the visual width of s up to the given 1-based
// byte column, accounting for tab stops and double-width Unicode runes.
func visualWidthUpTo(s string, byteCol uint32, tabWidth int) int {
	if byteCol <= 1 {
		return 0
	}

	bytePos := 0
	visualPos := 0

	for _, r := range s {
		if bytePos >= int(byteCol-1) {
			break
		}

		if r == '\t' {
			visualPos = (visualPos + tabWidth) / tabWidth * tabWidth
		} else {
			visualPos += runewidth.RuneWidth(r)
		}

		bytePos += len(string(r))
	}

	return visualPos
}

// Pretty formats diagnostics from every report in a human-readable form.
// Each report's bag is expected to already be sorted (Bag.Sort). For each
// diagnostic it prints:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by a line-context block with a "^~~~" underline over the span,
// then Notes and Fixes in the same format. Color is gated by opts.Color.
func Pretty(w io.Writer, reports []Report, opts PrettyOpts) {
	var (
		errorColor     = color.New(color.FgRed, color.Bold)
		warningColor   = color.New(color.FgYellow, color.Bold)
		infoColor      = color.New(color.FgCyan, color.Bold)
		pathColor      = color.New(color.FgWhite, color.Bold)
		codeColor      = color.New(color.FgMagenta)
		lineNumColor   = color.New(color.FgBlue)
		underlineColor = color.New(color.FgRed, color.Bold)
		previewLabel   = color.New(color.FgCyan, color.Bold)
		beforeColor    = color.New(color.FgRed)
		afterColor     = color.New(color.FgGreen)
	)

	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = !opts.Color

	context := opts.Context
	if context <= 0 {
		context = 1
	}

	formatPath := func(f *source.File) string {
		switch opts.PathMode {
		case PathModeAbsolute:
			return f.FormatPath("absolute", "")
		case PathModeRelative:
			return f.FormatPath("relative", opts.BaseDir)
		case PathModeBasename:
			return f.FormatPath("basename", "")
		default:
			return f.FormatPath("auto", "")
		}
	}

	fixLabelColor := infoColor
	first := true

	for _, report := range reports {
		f := report.File
		for _, d := range report.Bag.Items() {
			if !first {
				fmt.Fprintln(w) //nolint:errcheck
			}
			first = false

			lineColStart := f.Index.Resolve(d.Primary.Start)
			lineColEnd := f.Index.Resolve(d.Primary.End)
			displayPath := formatPath(f)

			sevStr := d.Severity.String()
			var sevColored string
			switch d.Severity {
			case diag.SevError:
				sevColored = errorColor.Sprint(sevStr)
			case diag.SevWarning:
				sevColored = warningColor.Sprint(sevStr)
			case diag.SevInfo:
				sevColored = infoColor.Sprint(sevStr)
			default:
				sevColored = sevStr
			}

			fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", //nolint:errcheck
				pathColor.Sprint(displayPath),
				lineColStart.Line,
				lineColStart.Col,
				sevColored,
				codeColor.Sprint(d.Code.ID()),
				d.Message,
			)

			totalLines := f.Index.LineCount()

			startLine := lineColStart.Line
			if startLine > uint32(context) {
				startLine = lineColStart.Line - uint32(context)
			} else {
				startLine = 1
			}
			endLine := min(lineColStart.Line+uint32(context), totalLines)

			if startLine > 1 {
				fmt.Fprintln(w, "...") //nolint:errcheck
			}

			const tabWidth = 8
			lineNumWidth := max(len(fmt.Sprintf("%d", endLine)), 3)

			for lineNum := startLine; lineNum <= endLine; lineNum++ {
				lineText := f.GetLine(lineNum)

				lineNumStr := fmt.Sprintf("%*d", lineNumWidth, lineNum)
				gutter := fmt.Sprintf("%s | ", lineNumColor.Sprint(lineNumStr))
				gutterLen := lineNumWidth + 3

				io.WriteString(w, gutter)   //nolint:errcheck
				io.WriteString(w, lineText) //nolint:errcheck
				io.WriteString(w, "\n")     //nolint:errcheck

				if lineNum == lineColStart.Line {
					startCol := lineColStart.Col
					endCol := lineColEnd.Col
					if lineColEnd.Line > lineColStart.Line {
						endCol = uint32(len(lineText)) + 1
					}

					visualStart := visualWidthUpTo(lineText, startCol, tabWidth)
					visualEnd := visualWidthUpTo(lineText, endCol, tabWidth)

					var underline strings.Builder
					for range gutterLen {
						underline.WriteByte(' ')
					}
					for range visualStart {
						underline.WriteByte(' ')
					}

					spanLen := visualEnd - visualStart
					if spanLen <= 0 {
						underline.WriteByte('^')
					} else {
						for i := range spanLen {
							if i == spanLen-1 {
								underline.WriteByte('^')
							} else {
								underline.WriteByte('~')
							}
						}
					}

					fmt.Fprintln(w, underlineColor.Sprint(underline.String())) //nolint:errcheck
				}
			}

			if endLine < totalLines {
				fmt.Fprintln(w, "...") //nolint:errcheck
			}

			if opts.ShowNotes && len(d.Notes) > 0 {
				for _, note := range d.Notes {
					noteStart := f.Index.Resolve(note.Span.Start)
					fmt.Fprintf( //nolint:errcheck
						w,
						"  %s: %s:%d:%d: %s\n",
						infoColor.Sprint("note"),
						pathColor.Sprint(displayPath),
						noteStart.Line,
						noteStart.Col,
						note.Msg,
					)
				}
			}

			if opts.ShowFixes && len(d.Fixes) > 0 {
				fixes := sortedFixes(d.Fixes)

				ctx := diag.FixBuildContext{}
				for i, fix := range fixes {
					resolved, err := fix.Resolve(ctx)
					if err != nil {
						fmt.Fprintf( //nolint:errcheck
							w,
							"  %s #%d: %s (build error: %v)\n",
							fixLabelColor.Sprint("fix"),
							i+1,
							fix.Title,
							err,
						)
						continue
					}

					meta := []string{
						resolved.Kind.String(),
						resolved.Applicability.String(),
					}
					if resolved.IsPreferred {
						meta = append(meta, "preferred")
					}
					if resolved.ID != "" {
						meta = append(meta, "id="+resolved.ID)
					}
					fmt.Fprintf( //nolint:errcheck
						w,
						"  %s #%d: %s (%s)\n",
						fixLabelColor.Sprint("fix"),
						i+1,
						resolved.Title,
						strings.Join(meta, ", "),
					)

					if len(resolved.Edits) == 0 {
						fmt.Fprintf(w, "      (no edits)\n") //nolint:errcheck
						continue
					}

					for _, edit := range resolved.Edits {
						start := f.Index.Resolve(edit.Span.Start)
						end := f.Index.Resolve(edit.Span.End)
						oldPreview := edit.OldText
						newPreview := edit.NewText
						if len(oldPreview) > 32 {
							oldPreview = oldPreview[:29] + "..."
						}
						if len(newPreview) > 32 {
							newPreview = newPreview[:29] + "..."
						}
						metaParts := []string{}
						if edit.OldText != "" {
							metaParts = append(metaParts, fmt.Sprintf("expect=%q", oldPreview))
						}
						metaParts = append(metaParts, fmt.Sprintf("apply=%q", newPreview))
						fmt.Fprintf( //nolint:errcheck
							w,
							"      %s:%d:%d-%d:%d %s\n",
							pathColor.Sprint(displayPath),
							start.Line,
							start.Col,
							end.Line,
							end.Col,
							strings.Join(metaParts, ", "),
						)

						if opts.ShowPreview {
							preview, err := buildFixEditPreview(f, edit)
							if err != nil {
								fmt.Fprintf(w, "        preview unavailable: %v\n", err) //nolint:errcheck
								continue
							}

							fmt.Fprintf(w, "      %s\n", previewLabel.Sprint("preview:")) //nolint:errcheck

							printPreviewSection := func(label, marker string, lines []string, colorizer *color.Color) {
								if len(lines) == 0 {
									fmt.Fprintf(w, "        %s %s\n", label, colorizer.Sprint("<empty>")) //nolint:errcheck
									return
								}
								fmt.Fprintf(w, "        %s\n", label) //nolint:errcheck
								for _, line := range lines {
									display := line
									if display == "" {
										display = "(blank)"
									}
									fmt.Fprintf(w, "          %s %s\n", colorizer.Sprint(marker), colorizer.Sprint(display)) //nolint:errcheck
								}
							}

							printPreviewSection("before:", "-", preview.before, beforeColor)
							printPreviewSection("after:", "+", preview.after, afterColor)
						}
					}
				}
			}
		}
	}
}

func sortedFixes(fixes []diag.Fix) []diag.Fix {
	out := append([]diag.Fix(nil), fixes...)
	sort.SliceStable(out, func(i, j int) bool {
		fi, fj := out[i], out[j]
		if fi.IsPreferred != fj.IsPreferred {
			return fi.IsPreferred && !fj.IsPreferred
		}
		if fi.Applicability != fj.Applicability {
			return fi.Applicability < fj.Applicability
		}
		if fi.Kind != fj.Kind {
			return fi.Kind < fj.Kind
		}
		if fi.Title != fj.Title {
			return fi.Title < fj.Title
		}
		return fi.ID < fj.ID
	})
	return out
}
