package diagfmt

import (
	"fmt"
	"strings"

	"github.com/texlab-project/texlab-core/internal/diag"
	"github.com/texlab-project/texlab-core/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview renders the before/after text of one fix edit, using
// the edit's own span to locate the affected line block within file.
func buildFixEditPreview(file *source.File, edit diag.TextEdit) (fixEditPreview, error) {
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("nil file")
	}

	startPos := file.Index.Resolve(edit.Span.Start)
	endPos := file.Index.Resolve(edit.Span.End)
	if endPos.Line < startPos.Line {
		endPos.Line = startPos.Line
	}

	blockStart := file.Index.Offset(source.LineCol{Line: startPos.Line, Col: 1})
	blockEnd := lineEndOffsetExclusive(file, endPos.Line)
	if blockEnd < blockStart {
		blockEnd = blockStart
	}

	original := make([]byte, blockEnd-blockStart)
	copy(original, file.Content[blockStart:blockEnd])

	relStart := int(edit.Span.Start - blockStart)
	relEnd := int(edit.Span.End - blockStart)

	if relStart < 0 || relStart > len(original) {
		return fixEditPreview{}, fmt.Errorf("edit span start %d out of range for preview block", relStart)
	}
	if relEnd < relStart || relEnd > len(original) {
		return fixEditPreview{}, fmt.Errorf("edit span end %d out of range for preview block", relEnd)
	}

	after := make([]byte, 0, len(original)+len(edit.NewText))
	after = append(after, original[:relStart]...)
	after = append(after, edit.NewText...)
	after = append(after, original[relEnd:]...)

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	text := strings.TrimRight(string(content), "\n")
	return strings.Split(text, "\n")
}

// lineEndOffsetExclusive returns the byte offset just past the given
// 1-based line, i.e. the start of the following line, or end-of-file for
// the last line.
func lineEndOffsetExclusive(f *source.File, line uint32) uint32 {
	if line < f.Index.LineCount() {
		return f.Index.Offset(source.LineCol{Line: line + 1, Col: 1})
	}
	return uint32(len(f.Content))
}
