package lexer

import (
	"unicode"
)

// isDec reports whether b is an ASCII decimal digit.
func isDec(b byte) bool { return b >= '0' && b <= '9' }

// isLatexCommandLetter reports whether b can continue a multi-letter LaTeX
// command name (\section, \includegraphics, ...). LaTeX command names are
// runs of ASCII letters; a non-letter after '\' is a single-character
// control symbol (\\, \%, \&, ...) instead.
func isLatexCommandLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isLatexWordBreak reports whether b terminates a run of plain Word text.
func isLatexWordBreak(b byte) bool {
	switch b {
	case '\\', '{', '}', '[', ']', '=', ',', '$', '%', ' ', '\t', '\n', 0:
		return true
	default:
		return false
	}
}

// isBibIdentByte reports whether b can appear in a BibTeX entry type, key,
// or field name. BibTeX identifiers are permissive: anything but whitespace
// and the structural delimiters.
func isBibIdentByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '{', '}', '(', ')', '=', ',', '#', '"', '@', 0:
		return false
	default:
		return true
	}
}

// isSpaceRune reports whether r is Unicode whitespace. No scanner in this
// package calls it.
func isSpaceRune(r rune) bool {
	return unicode.IsSpace(r)
}
