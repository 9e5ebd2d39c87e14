package diagfmt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// UnitSummary is one row of `texlab diagnose --format=table`: one row per
// document texlab analyzed, naming its compilation unit root, its position
// in the project's dependency ordering, and how many diagnostics it got.
type UnitSummary struct {
	URI          string
	Parent       string
	OrderIndex   int
	ErrorCount   int
	WarningCount int
}

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	tableBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)
	tableErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	tableWarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	tableOKStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
)

// Table renders a boxed per-document summary: compilation unit, parent,
// ordering index, and a diagnostic count column colored by severity.
func Table(rows []UnitSummary) string {
	if len(rows) == 0 {
		return tableBorderStyle.Render("no documents analyzed")
	}

	uriWidth, parentWidth := len("document"), len("parent")
	for _, r := range rows {
		uriWidth = max(uriWidth, len(r.URI))
		parentWidth = max(parentWidth, len(r.Parent))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %-6s  %s\n",
		tableHeaderStyle.Render(padRight("document", uriWidth)),
		tableHeaderStyle.Render(padRight("parent", parentWidth)),
		tableHeaderStyle.Render("order"),
		tableHeaderStyle.Render("diagnostics"),
	)

	for _, r := range rows {
		var countStr string
		switch {
		case r.ErrorCount > 0:
			countStr = tableErrorStyle.Render(fmt.Sprintf("%d errors, %d warnings", r.ErrorCount, r.WarningCount))
		case r.WarningCount > 0:
			countStr = tableWarningStyle.Render(fmt.Sprintf("%d warnings", r.WarningCount))
		default:
			countStr = tableOKStyle.Render("clean")
		}

		parent := r.Parent
		if parent == "" {
			parent = "(root)"
		}

		fmt.Fprintf(&b, "%s  %s  %-6d  %s\n",
			padRight(r.URI, uriWidth),
			padRight(parent, parentWidth),
			r.OrderIndex,
			countStr,
		)
	}

	return tableBorderStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
