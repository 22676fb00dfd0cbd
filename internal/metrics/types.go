// Package metrics computes line and complexity metrics for source files.
//
// Two tiers are provided. The line tier reads files with simple comment
// heuristics and always works. The semantic tier parses files with
// tree-sitter to extract per-function cyclomatic complexity; it needs CGO
// and degrades to the line tier when unavailable.
package metrics

// FunctionMetrics describes one function or method.
type FunctionMetrics struct {
	Name          string `json:"name"`
	QualifiedName string `json:"qualified_name"`
	LineStart     uint32 `json:"line_start"`
	LineEnd       uint32 `json:"line_end"`
	Length        uint32 `json:"length"`

	// CyclomaticComplexity is decision points plus one, never below 1.
	CyclomaticComplexity uint32 `json:"cyclomatic_complexity"`
}

// FileMetrics holds line counts and functions for one source file.
type FileMetrics struct {
	Path         string `json:"path"`
	TotalLines   uint32 `json:"total_lines"`
	CodeLines    uint32 `json:"code_lines"`
	BlankLines   uint32 `json:"blank_lines"`
	CommentLines uint32 `json:"comment_lines"`

	// Functions is populated by the semantic tier only.
	Functions []FunctionMetrics `json:"functions"`
}

// ProjectMetrics aggregates metrics across files.
//
// TotalFiles counts every path handed to the analyzer; Files holds only
// those that could actually be read, so the two can disagree.
type ProjectMetrics struct {
	TotalFiles     uint32        `json:"total_files"`
	TotalLines     uint32        `json:"total_lines"`
	TotalCodeLines uint32        `json:"total_code_lines"`
	TotalFunctions uint32        `json:"total_functions"`
	Files          []FileMetrics `json:"files"`
}
