//go:build cgo

package metrics

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/python"
)

// Language identifies a parser grammar.
type Language string

const (
	LangCpp    Language = "cpp"
	LangPython Language = "python"
)

// LanguageForExtension maps a file extension to its grammar.
func LanguageForExtension(ext string) (Language, bool) {
	switch strings.ToLower(ext) {
	case ".cpp", ".cxx", ".cc", ".c", ".hpp", ".hxx", ".h", ".hh":
		return LangCpp, true
	case ".py", ".pyw", ".pyi":
		return LangPython, true
	default:
		return "", false
	}
}

func grammar(lang Language) *sitter.Language {
	switch lang {
	case LangCpp:
		return cpp.GetLanguage()
	case LangPython:
		return python.GetLanguage()
	default:
		return nil
	}
}

// Analyzer is the semantic tier: it parses source files with tree-sitter
// and extracts per-function cyclomatic complexity on top of the line
// metrics. Files the parser cannot handle fall back to line metrics.
type Analyzer struct {
	parser *sitter.Parser
}

// NewAnalyzer creates a semantic analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{parser: sitter.NewParser()}
}

// TierName reports which analysis tier this build provides.
func (a *Analyzer) TierName() string { return "semantic" }

// IsAvailable reports whether semantic analysis was compiled in.
func IsAvailable() bool { return true }

// AnalyzeFile computes full metrics for one source file. The line counts
// are always present; functions are filled in only when the language is
// supported and the parse succeeds.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*FileMetrics, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m, err := countLines(path, bytes.NewReader(source))
	if err != nil {
		return nil, err
	}

	lang, ok := LanguageForExtension(filepath.Ext(path))
	if !ok {
		return m, nil
	}

	a.parser.SetLanguage(grammar(lang))
	tree, err := a.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		// Parse failure degrades this file to the line tier
		return m, nil
	}

	root := tree.RootNode()
	for _, fn := range findNodes(root, functionNodeTypes(lang)) {
		m.Functions = append(m.Functions, analyzeFunction(fn, source, lang))
	}

	return m, nil
}

// AnalyzeProject runs AnalyzeFile over every path. TotalFiles counts all
// attempted paths; unreadable files are skipped from the per-file list.
func (a *Analyzer) AnalyzeProject(ctx context.Context, paths []string) (ProjectMetrics, error) {
	project := ProjectMetrics{
		TotalFiles: uint32(len(paths)),
		Files:      []FileMetrics{},
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return project, err
		}
		fm, err := a.AnalyzeFile(ctx, path)
		if err != nil {
			continue
		}
		project.TotalLines += fm.TotalLines
		project.TotalCodeLines += fm.CodeLines
		project.TotalFunctions += uint32(len(fm.Functions))
		project.Files = append(project.Files, *fm)
	}
	return project, nil
}

func functionNodeTypes(lang Language) []string {
	switch lang {
	case LangCpp:
		return []string{"function_definition", "lambda_expression"}
	case LangPython:
		return []string{"function_definition", "lambda"}
	default:
		return nil
	}
}

// decisionNodeTypes lists the node types that add one to cyclomatic
// complexity: if/elif, loops, case labels, ternaries and short-circuit
// boolean operators.
func decisionNodeTypes(lang Language) []string {
	switch lang {
	case LangCpp:
		return []string{
			"if_statement",
			"for_statement",
			"for_range_loop",
			"while_statement",
			"do_statement",
			"case_statement",
			"conditional_expression", // ternary
			"binary_expression",      // filtered to && and ||
		}
	case LangPython:
		return []string{
			"if_statement",
			"elif_clause",
			"for_statement",
			"while_statement",
			"case_clause",            // match statements
			"conditional_expression", // x if c else y
			"boolean_operator",       // and, or
		}
	default:
		return nil
	}
}

func analyzeFunction(node *sitter.Node, source []byte, lang Language) FunctionMetrics {
	name := functionName(node, source, lang)
	start := node.StartPoint().Row + 1
	end := node.EndPoint().Row + 1

	return FunctionMetrics{
		Name:                 name,
		QualifiedName:        name,
		LineStart:            start,
		LineEnd:              end,
		Length:               end - start + 1,
		CyclomaticComplexity: cyclomaticComplexity(node, source, lang),
	}
}

// cyclomaticComplexity counts decision points plus one.
func cyclomaticComplexity(node *sitter.Node, source []byte, lang Language) uint32 {
	complexity := uint32(1)

	for _, dn := range findNodes(node, decisionNodeTypes(lang)) {
		switch dn.Type() {
		case "binary_expression", "boolean_operator":
			if isShortCircuit(dn, source, lang) {
				complexity++
			}
		case "case_statement":
			// default: labels share the node type but are not branches
			if isCaseLabel(dn, source) {
				complexity++
			}
		default:
			complexity++
		}
	}

	return complexity
}

// isShortCircuit reports whether a binary expression is && or ||
// (and/or in Python).
func isShortCircuit(node *sitter.Node, source []byte, lang Language) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch lang {
		case LangPython:
			if t := child.Type(); t == "and" || t == "or" {
				return true
			}
		default:
			op := string(source[child.StartByte():child.EndByte()])
			if op == "&&" || op == "||" {
				return true
			}
		}
	}
	return false
}

func isCaseLabel(node *sitter.Node, source []byte) bool {
	first := node.Child(0)
	if first == nil {
		return false
	}
	return string(source[first.StartByte():first.EndByte()]) == "case"
}

// functionName extracts the declared name, or a placeholder for lambdas.
func functionName(node *sitter.Node, source []byte, lang Language) string {
	switch lang {
	case LangPython:
		if name := node.ChildByFieldName("name"); name != nil {
			return string(source[name.StartByte():name.EndByte()])
		}
	case LangCpp:
		if decl := node.ChildByFieldName("declarator"); decl != nil {
			if name := findDeclaratorName(decl, source); name != "" {
				return name
			}
		}
	}

	switch node.Type() {
	case "lambda", "lambda_expression":
		return "<lambda>"
	}
	return "<unknown>"
}

// findDeclaratorName descends a C++ declarator chain to the innermost
// identifier: pointer, reference and function declarators all nest.
func findDeclaratorName(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "identifier", "field_identifier", "qualified_identifier",
		"destructor_name", "operator_name":
		return string(source[node.StartByte():node.EndByte()])
	}
	if inner := node.ChildByFieldName("declarator"); inner != nil {
		return findDeclaratorName(inner, source)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if name := findDeclaratorName(child, source); name != "" {
			return name
		}
	}
	return ""
}

// findNodes walks the subtree collecting nodes whose type is in types.
func findNodes(root *sitter.Node, types []string) []*sitter.Node {
	var result []*sitter.Node

	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		for _, t := range types {
			if node.Type() == t {
				result = append(result, node)
				break
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}

	walk(root)
	return result
}
