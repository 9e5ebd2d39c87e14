// Package source provides the byte-offset geometry shared by every layer of
// the analysis engine: spans into document text and line/column resolution.
package source

import "fmt"

// Span is a contiguous half-open byte range within one document's text.
// Start/End are byte offsets, not rune or UTF-16 offsets; LSP-facing layers
// convert to line/column via LineIndex.
type Span struct {
	Start uint32
	End   uint32
}

// Empty reports whether the span has zero length.
func (s Span) Empty() bool {
	return s.Start == s.End
}

// Len returns the length of the span in bytes.
func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether offset lies within [Start, End).
func (s Span) Contains(offset uint32) bool {
	return offset >= s.Start && offset < s.End
}

// AtEnd returns a zero-length span positioned at s.End, used for
// "missing token" diagnostics that point just past the preceding text.
func (s Span) AtEnd() Span {
	return Span{Start: s.End, End: s.End}
}

// AtStart returns a zero-length span positioned at s.Start.
func (s Span) AtStart() Span {
	return Span{Start: s.Start, End: s.Start}
}

// LineCol is a 1-based human-readable position.
type LineCol struct {
	Line uint32
	Col  uint32
}
