package lsp

import (
	"unicode/utf8"

	"fortio.org/safecast"

	"github.com/texlab-project/texlab-core/internal/source"
)

const maxUint32 = ^uint32(0)

// safeUint32 clamps a negative or overflowing int instead of wrapping it,
// the same fortio.org/safecast idiom the teacher's type interners use for
// slot/length conversions.
func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// lineBounds returns the byte range of line (0-based, LSP convention),
// trimmed of its trailing line terminator.
func lineBounds(file *source.File, line uint32) (start, end uint32) {
	start = file.Index.Offset(source.LineCol{Line: line + 1, Col: 1})
	if line+2 <= file.Index.LineCount() {
		end = file.Index.Offset(source.LineCol{Line: line + 2, Col: 1})
		for end > start && (file.Content[end-1] == '\n' || file.Content[end-1] == '\r') {
			end--
		}
	} else {
		end = uint32(len(file.Content))
	}
	return start, end
}

// offsetForPositionInFile converts an LSP position (UTF-16 code units within
// its line) to a byte offset into file.Content. source.LineIndex.Resolve's
// Col is a raw byte-offset column, not UTF-16-aware, so this walks the
// line's bytes itself, counting UTF-16 code units per rune the way
// text.go's offsetForPosition does for a bare buffer with no db.Document
// backing it yet.
func offsetForPositionInFile(file *source.File, pos position) uint32 {
	if file == nil || pos.Line < 0 {
		return 0
	}
	line := safeUint32(pos.Line)
	if line+1 > file.Index.LineCount() {
		return uint32(len(file.Content))
	}
	start, end := lineBounds(file, line)
	character := pos.Character
	if character < 0 {
		character = 0
	}
	units := 0
	off := start
	for off < end {
		r, size := utf8.DecodeRune(file.Content[off:end])
		if r == utf8.RuneError && size == 1 {
			size = 1
		}
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > character {
			break
		}
		units += need
		off += safeUint32(size)
		if units == character {
			break
		}
	}
	return off
}

// positionForOffsetInFile converts a byte offset into an LSP position,
// recovering the UTF-16 column by re-walking the owning line's bytes.
func positionForOffsetInFile(file *source.File, offset uint32) position {
	if file == nil {
		return position{}
	}
	contentLen := uint32(len(file.Content))
	if offset > contentLen {
		offset = contentLen
	}
	lc := file.Index.Resolve(offset)
	line := lc.Line - 1
	start, _ := lineBounds(file, line)
	units := 0
	off := start
	for off < offset {
		r, size := utf8.DecodeRune(file.Content[off:offset])
		if r == utf8.RuneError && size == 1 {
			size = 1
		}
		if off+safeUint32(size) > offset {
			break
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		off += safeUint32(size)
	}
	return position{Line: int(line), Character: units}
}

// rangeForSpan converts a byte-offset source.Span into an LSP range.
func rangeForSpan(file *source.File, span source.Span) lspRange {
	if file == nil {
		return lspRange{}
	}
	return lspRange{
		Start: positionForOffsetInFile(file, span.Start),
		End:   positionForOffsetInFile(file, span.End),
	}
}
