// Package buildlog scans LaTeX/BibTeX build logs (.log files) for error and
// warning signatures, without building a tree: the log format is a stream of
// engine chatter with no nesting worth modeling structurally (spec.md §4.2).
package buildlog

import (
	"bufio"
	"bytes"
	"regexp"
	"strconv"
	"strings"
)

// Level distinguishes a build error from a build warning.
type Level uint8

const (
	// LevelError is a fatal TeX error, introduced by a line starting "! ".
	LevelError Level = iota
	// LevelWarning is a LaTeX/package/BibTeX warning line.
	LevelWarning
)

func (l Level) String() string {
	if l == LevelWarning {
		return "Warning"
	}
	return "Error"
}

// BuildError is one parsed diagnostic line from a build log.
type BuildError struct {
	Level Level
	// Message is the human-readable text, with the signature prefix stripped.
	Message string
	// Line is the 1-based source line the engine attributed the problem to,
	// exactly as printed in the log ("l.N" or "on input line N").
	// HasLine is false when the log never gave a line number.
	Line    uint32
	HasLine bool
	// RelativePath is the source file open on the engine's file stack at the
	// time the error or warning was printed, interpreted against the
	// producing .aux file's directory (spec.md §4.3's build-log scenario).
	// Empty when the log closed every file marker before the error line.
	RelativePath string
}

var (
	inputLinePattern = regexp.MustCompile(`on input line (\d+)`)
	dotLinePattern   = regexp.MustCompile(`^l\.(\d+)`)
)

// ParseLog scans content line by line for known TeX/LaTeX/BibTeX error and
// warning signatures. It never fails: an unrecognized log still yields an
// empty (possibly zero-length) error list.
func ParseLog(content []byte) []BuildError {
	lines := splitLines(content)
	var stack fileStack
	var errors []BuildError

	for i, line := range lines {
		stack.update(line)

		switch {
		case strings.HasPrefix(line, "! "):
			msg := strings.TrimPrefix(line, "! ")
			lineNo, hasLine := scanForSourceLine(lines, i+1)
			errors = append(errors, BuildError{
				Level: LevelError, Message: msg,
				Line: lineNo, HasLine: hasLine,
				RelativePath: stack.top(),
			})

		case looksLikeWarning(line):
			msg, lineNo, hasLine := parseWarningLine(line)
			errors = append(errors, BuildError{
				Level: LevelWarning, Message: msg,
				Line: lineNo, HasLine: hasLine,
				RelativePath: stack.top(),
			})
		}
	}
	return errors
}

func looksLikeWarning(line string) bool {
	return strings.Contains(line, "LaTeX Warning:") ||
		strings.Contains(line, "Package") && strings.Contains(line, "Warning:") ||
		strings.Contains(line, "Class") && strings.Contains(line, "Warning:") ||
		strings.Contains(line, "BibTeX warning:")
}

// parseWarningLine strips the "... Warning:" signature and, if present,
// extracts a trailing "on input line N." reference.
func parseWarningLine(line string) (msg string, lineNo uint32, hasLine bool) {
	idx := strings.Index(line, "Warning:")
	if idx < 0 {
		idx = strings.Index(line, "warning:")
	}
	msg = line
	if idx >= 0 {
		msg = strings.TrimSpace(line[idx+len("Warning:"):])
	}
	if m := inputLinePattern.FindStringSubmatch(line); m != nil {
		if n, err := strconv.ParseUint(m[1], 10, 32); err == nil {
			return msg, uint32(n), true
		}
	}
	return msg, 0, false
}

// scanForSourceLine looks a few lines ahead of a "! " error for the TeX
// convention "l.<N> <context>" marking the offending source line.
func scanForSourceLine(lines []string, from int) (lineNo uint32, hasLine bool) {
	limit := from + 6
	if limit > len(lines) {
		limit = len(lines)
	}
	for i := from; i < limit; i++ {
		if m := dotLinePattern.FindStringSubmatch(lines[i]); m != nil {
			if n, err := strconv.ParseUint(m[1], 10, 32); err == nil {
				return uint32(n), true
			}
		}
	}
	return 0, false
}

// fileStack tracks which source file TeX currently has open, following the
// engine's convention of printing "(path" when it opens a file and a bare
// ")" when it closes one. The tracking is heuristic, not a real parenthesis
// matcher: TeX logs wrap at 79 columns and parentheses appear in ordinary
// text too, so this only tries to track the common "(./file.tex" shape.
type fileStack struct {
	paths []string
}

func (s *fileStack) top() string {
	if len(s.paths) == 0 {
		return ""
	}
	return s.paths[len(s.paths)-1]
}

func (s *fileStack) update(line string) {
	i := 0
	for i < len(line) {
		switch line[i] {
		case '(':
			path, next := scanPathToken(line, i+1)
			if path != "" {
				s.paths = append(s.paths, path)
			}
			i = next
		case ')':
			if len(s.paths) > 0 {
				s.paths = s.paths[:len(s.paths)-1]
			}
			i++
		default:
			i++
		}
	}
}

// scanPathToken reads a file-path-looking token starting at line[start:],
// stopping at whitespace or a delimiter. Returns "" if the token doesn't
// look like a path (doesn't start with '.', '/', or a letter).
func scanPathToken(line string, start int) (path string, next int) {
	if start >= len(line) {
		return "", start
	}
	c := line[start]
	if c != '.' && c != '/' && !isAlpha(c) {
		return "", start
	}
	end := start
	for end < len(line) {
		c := line[end]
		if c == ' ' || c == '(' || c == ')' || c == '\t' {
			break
		}
		end++
	}
	return line[start:end], end
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func splitLines(content []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}
