package source

// FileFlags records normalization performed when a File was loaded.
type FileFlags uint8

const (
	// FileHadBOM indicates a UTF-8 byte order mark was stripped on load.
	FileHadBOM FileFlags = 1 << iota
	// FileNormalizedCRLF indicates CRLF sequences were collapsed to LF on load.
	FileNormalizedCRLF
)

// File is the content of one document together with its line index, the
// unit the lexer and CST builders operate on. Identity (URI, generation)
// lives one layer up in db.Document; File is purely a content + geometry
// pair handed to a parse for the duration of one call.
type File struct {
	Path    string
	Content []byte
	Index   *LineIndex
	Flags   FileFlags
}

// NewFile normalizes content (CRLF, BOM) and builds its line index.
func NewFile(path string, content []byte) *File {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	var flags FileFlags
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return &File{
		Path:    path,
		Content: content,
		Index:   NewLineIndex(string(content)),
		Flags:   flags,
	}
}

// GetLine returns the 1-based line's text, or "" if out of range.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || lineNum > f.Index.LineCount() {
		return ""
	}
	start := f.Index.Offset(LineCol{Line: lineNum, Col: 1})
	var end uint32
	if lineNum < f.Index.LineCount() {
		end = f.Index.Offset(LineCol{Line: lineNum + 1, Col: 1})
		for end > start && (f.Content[end-1] == '\n' || f.Content[end-1] == '\r') {
			end--
		}
	} else {
		end = uint32(len(f.Content))
	}
	if start > uint32(len(f.Content)) {
		return ""
	}
	if end > uint32(len(f.Content)) {
		end = uint32(len(f.Content))
	}
	return string(f.Content[start:end])
}

// FormatPath renders f.Path per mode: "absolute", "relative", "basename", or
// "auto" (paths under 40 bytes pass through, longer ones collapse to their
// basename). Used by texlab diagnose's human-readable output.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path
	case "relative":
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path
	case "basename":
		return BaseName(f.Path)
	case "auto":
		if len(f.Path) < 40 {
			return f.Path
		}
		return BaseName(f.Path)
	default:
		return f.Path
	}
}
