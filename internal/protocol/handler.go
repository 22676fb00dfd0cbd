package protocol

import (
	"context"

	"github.com/JesusRamosMembrive/AEGIS/internal/config"
	"github.com/JesusRamosMembrive/AEGIS/internal/logging"
	"github.com/JesusRamosMembrive/AEGIS/internal/metrics"
	"github.com/JesusRamosMembrive/AEGIS/internal/scanner"
)

// Handler dispatches parsed requests to the scanner and analyzer.
type Handler struct {
	analyzer *metrics.Analyzer
	defaults config.ScannerConfig
	log      *logging.Logger
}

// NewHandler wires a handler with the given analyzer and the scanner
// defaults used when a request supplies no extension list.
func NewHandler(analyzer *metrics.Analyzer, defaults config.ScannerConfig, log *logging.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		defaults: defaults,
		log:      log,
	}
}

// Handle processes one request line and returns the response to write
// back. done is true after a shutdown request; the caller stops serving.
func (h *Handler) Handle(ctx context.Context, line []byte) (resp []byte, done bool) {
	req, err := ParseRequest(line)
	if err != nil {
		h.log.Warn("rejected request", map[string]interface{}{
			"error": err.Error(),
		})
		return ErrorResponse("", "Invalid request format"), false
	}

	switch req.Method {
	case MethodAnalyze:
		return h.handleAnalyze(ctx, req), false
	case MethodFileTree:
		return h.handleFileTree(req), false
	case MethodShutdown:
		h.log.Info("shutdown requested", map[string]interface{}{
			"request_id": req.ID,
		})
		return SuccessResponse(req.ID, ShutdownResult{Status: "shutdown"}), true
	}

	// Unreachable: ParseRequest rejects unknown methods
	return ErrorResponse(req.ID, "Unknown request type"), false
}

func (h *Handler) handleAnalyze(ctx context.Context, req *Request) []byte {
	files := scanner.New(h.scanConfig(req.Params)).Scan()

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}

	project, err := h.analyzer.AnalyzeProject(ctx, paths)
	if err != nil {
		return ErrorResponse(req.ID, "analysis failed: "+err.Error())
	}

	h.log.Info("analyze completed", map[string]interface{}{
		"request_id":  req.ID,
		"root":        req.Params.Root,
		"total_files": project.TotalFiles,
		"analyzed":    len(project.Files),
	})

	return SuccessResponse(req.ID, project)
}

func (h *Handler) handleFileTree(req *Request) []byte {
	files := scanner.New(h.scanConfig(req.Params)).Scan()

	result := FileTreeResult{
		Files:      make([]string, 0, len(files)),
		TotalFiles: len(files),
	}
	for _, f := range files {
		result.Files = append(result.Files, f.Path)
	}

	h.log.Info("file_tree completed", map[string]interface{}{
		"request_id":  req.ID,
		"root":        req.Params.Root,
		"total_files": result.TotalFiles,
	})

	return SuccessResponse(req.ID, result)
}

// scanConfig builds a scanner configuration from the configured defaults,
// with the request's extension list taking precedence when present.
func (h *Handler) scanConfig(params Params) scanner.Config {
	cfg := scanner.Config{
		Root:           params.Root,
		Extensions:     scanner.NewStringSet(h.defaults.Extensions...),
		ExcludedDirs:   scanner.NewStringSet(h.defaults.ExcludedDirs...),
		ExcludeGlobs:   h.defaults.ExcludeGlobs,
		FollowSymlinks: h.defaults.FollowSymlinks,
	}
	if len(params.Extensions) > 0 {
		cfg.Extensions = scanner.NewStringSet(params.Extensions...)
	}
	return cfg
}
