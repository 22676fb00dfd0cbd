//go:build !cgo

package metrics

import "context"

// Analyzer is the line-tier fallback used when tree-sitter support is not
// compiled in. Function extraction and complexity are unavailable; line
// metrics behave identically to the semantic build.
type Analyzer struct{}

// NewAnalyzer creates a line-tier analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// TierName reports which analysis tier this build provides.
func (a *Analyzer) TierName() string { return "line" }

// IsAvailable reports whether semantic analysis was compiled in.
func IsAvailable() bool { return false }

// AnalyzeFile computes line metrics for one source file.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*FileMetrics, error) {
	return FileLOC(path)
}

// AnalyzeProject aggregates line metrics over every path.
func (a *Analyzer) AnalyzeProject(ctx context.Context, paths []string) (ProjectMetrics, error) {
	if err := ctx.Err(); err != nil {
		return ProjectMetrics{}, err
	}
	return ProjectLOC(paths), nil
}
