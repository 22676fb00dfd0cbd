package metrics

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// maxLineBytes bounds the scanner buffer; minified or generated sources
// can carry very long single lines.
const maxLineBytes = 1024 * 1024

// FileLOC reads a file and counts total, code, blank and comment lines
// using line-oriented heuristics. The functions list stays empty; use the
// semantic analyzer for that.
func FileLOC(path string) (*FileMetrics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return countLines(path, f)
}

// countLines runs the line classification over an already-open source.
func countLines(path string, r io.Reader) (*FileMetrics, error) {
	m := &FileMetrics{Path: path, Functions: []FunctionMetrics{}}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	inBlockComment := false
	for sc.Scan() {
		line := sc.Text()
		m.TotalLines++

		if isBlankLine(line) {
			m.BlankLines++
			continue
		}

		if inBlockComment {
			m.CommentLines++
			if strings.Contains(line, "*/") {
				inBlockComment = false
			}
			continue
		}

		if start := strings.Index(line, "/*"); start >= 0 {
			if !strings.Contains(line[start+2:], "*/") {
				inBlockComment = true
			}
			// Whole-line comment only when nothing precedes the opener
			if firstNonSpace(line) == start {
				m.CommentLines++
				continue
			}
		}

		if isCommentLine(line) {
			m.CommentLines++
		} else {
			m.CodeLines++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return m, nil
}

// ProjectLOC aggregates line metrics across paths. Unreadable files count
// toward TotalFiles but are otherwise skipped.
func ProjectLOC(paths []string) ProjectMetrics {
	project := ProjectMetrics{
		TotalFiles: uint32(len(paths)),
		Files:      []FileMetrics{},
	}
	for _, path := range paths {
		fm, err := FileLOC(path)
		if err != nil {
			continue
		}
		project.TotalLines += fm.TotalLines
		project.TotalCodeLines += fm.CodeLines
		project.Files = append(project.Files, *fm)
	}
	return project
}

func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

// firstNonSpace returns the index of the first byte that is not a space or
// tab, or -1 for whitespace-only lines.
func firstNonSpace(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return i
		}
	}
	return -1
}

// isCommentLine reports whether a line starts with a comment marker.
// Heuristic only: //, #, /* and block continuation lines starting with *.
func isCommentLine(line string) bool {
	i := firstNonSpace(line)
	if i < 0 {
		return false
	}
	switch line[i] {
	case '#', '*':
		return true
	case '/':
		return i+1 < len(line) && (line[i+1] == '/' || line[i+1] == '*')
	}
	return false
}
