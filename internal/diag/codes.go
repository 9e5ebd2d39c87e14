package diag

import "fmt"

// Code is a compact numeric diagnostic identifier. Values below 1000 are the
// texlab static-check codes named directly by spec.md §4.5/§8 (kept as small
// literal integers, unlike the LEX/LOG/PRJ ranges below, since those
// scenario numbers are referenced by exact value in the spec's scenarios);
// the 1000+ ranges are this package's own lexical/build-log namespaces.
type Code uint16

const (
	UnknownCode Code = 0

	// LaTeX structural diagnostics (spec.md §4.5): the numeric values are
	// pinned to the "(code N)" annotations spec.md §4.5 gives each check,
	// not declaration order — unexpected "}" is 1, missing "}" is 2,
	// mismatched \begin/\end is 3.
	SynUnexpectedCloseBrace  Code = 1
	SynMissingCloseBrace     Code = 2
	SynMismatchedEnvironment Code = 3

	// BibTeX structural diagnostics (spec.md §4.5).
	BibMissingLeftDelim  Code = 4
	BibMissingKey        Code = 5
	BibMissingRightDelim Code = 6
	BibMissingEquals     Code = 7
	BibMissingValue      Code = 8

	// Lexical diagnostics, own namespace above the single-digit scenario codes.
	LexUnterminatedBraceGroup Code = 1001
	LexTokenTooLong           Code = 1002

	// Build-log derived diagnostics (spec.md §4.5 "Build-log linkage").
	LogLatexError   Code = 1100
	LogLatexWarning Code = 1101
	LogBibtexError  Code = 1102

	// Workspace graph diagnostics.
	ProjIncludeCycle Code = 1200
)

var codeTitles = map[Code]string{
	UnknownCode:               "unknown diagnostic",
	SynMismatchedEnvironment:  "mismatched \\begin/\\end environment name",
	SynUnexpectedCloseBrace:   "unexpected closing brace",
	SynMissingCloseBrace:      "missing closing brace",
	BibMissingLeftDelim:       "BibTeX entry missing opening delimiter",
	BibMissingKey:             "BibTeX entry missing citation key",
	BibMissingRightDelim:      "BibTeX entry missing closing delimiter",
	BibMissingEquals:          "BibTeX field missing '='",
	BibMissingValue:           "BibTeX field missing value",
	LexUnterminatedBraceGroup: "unterminated brace group",
	LexTokenTooLong:           "token exceeds maximum length",
	LogLatexError:             "LaTeX build error",
	LogLatexWarning:           "LaTeX build warning",
	LogBibtexError:            "BibTeX build error",
	ProjIncludeCycle:          "circular \\include/\\input chain",
}

// ID renders a stable namespaced string form, e.g. "TEX0003", "LOG1100".
func (c Code) ID() string {
	switch {
	case c >= 1 && c <= 3:
		return fmt.Sprintf("TEX%04d", uint16(c))
	case c >= 4 && c <= 8:
		return fmt.Sprintf("BIB%04d", uint16(c))
	case uint16(c) < 1000:
		return fmt.Sprintf("TEX%04d", uint16(c))
	case c >= 1000 && c < 1100:
		return fmt.Sprintf("LEX%04d", uint16(c))
	case c >= 1100 && c < 1200:
		return fmt.Sprintf("LOG%04d", uint16(c))
	case c >= 1200 && c < 1300:
		return fmt.Sprintf("PRJ%04d", uint16(c))
	default:
		return fmt.Sprintf("E%04d", uint16(c))
	}
}

// Title returns the human-readable description of the code.
func (c Code) Title() string {
	if t, ok := codeTitles[c]; ok {
		return t
	}
	return codeTitles[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
