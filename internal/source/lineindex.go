package source

import "sort"

// LineIndex resolves byte offsets into 1-based line/column pairs. Built once
// per document text and cached alongside the source_code input cell.
type LineIndex struct {
	// newlines holds the byte offset of every '\n' in the text, ascending.
	newlines []uint32
	length   uint32
}

// NewLineIndex scans text once and records newline offsets.
func NewLineIndex(text string) *LineIndex {
	idx := &LineIndex{length: uint32(len(text))}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			idx.newlines = append(idx.newlines, uint32(i))
		}
	}
	return idx
}

// Resolve converts a byte offset to a 1-based line/column pair.
func (li *LineIndex) Resolve(off uint32) LineCol {
	if off > li.length {
		off = li.length
	}
	if len(li.newlines) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	i := sort.Search(len(li.newlines), func(k int) bool { return li.newlines[k] >= off })
	if i == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	lineStart := li.newlines[i-1] + 1
	return LineCol{Line: uint32(i + 1), Col: off - lineStart + 1}
}

// Offset converts a 1-based line/column pair back to a byte offset.
func (li *LineIndex) Offset(pos LineCol) uint32 {
	if pos.Line == 0 {
		pos.Line = 1
	}
	var lineStart uint32
	if pos.Line > 1 {
		idx := int(pos.Line) - 2
		if idx >= len(li.newlines) {
			return li.length
		}
		lineStart = li.newlines[idx] + 1
	}
	off := lineStart + (pos.Col - 1)
	if off > li.length {
		off = li.length
	}
	return off
}

// LineCount returns the number of lines in the text.
func (li *LineIndex) LineCount() uint32 {
	return uint32(len(li.newlines)) + 1
}
