package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/JesusRamosMembrive/AEGIS/internal/metrics"
	"github.com/JesusRamosMembrive/AEGIS/internal/scanner"
)

var analyzeExtensions []string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <root>",
	Short: "Analyze a source tree and print project metrics as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		scanCfg := scanner.Config{
			Root:           args[0],
			Extensions:     scanner.NewStringSet(cfg.Scanner.Extensions...),
			ExcludedDirs:   scanner.NewStringSet(cfg.Scanner.ExcludedDirs...),
			ExcludeGlobs:   cfg.Scanner.ExcludeGlobs,
			FollowSymlinks: cfg.Scanner.FollowSymlinks,
		}
		if len(analyzeExtensions) > 0 {
			scanCfg.Extensions = scanner.NewStringSet(analyzeExtensions...)
		}

		files := scanner.New(scanCfg).Scan()
		paths := make([]string, 0, len(files))
		for _, f := range files {
			paths = append(paths, f.Path)
		}

		analyzer := metrics.NewAnalyzer()
		project, err := analyzer.AnalyzeProject(cmd.Context(), paths)
		if err != nil {
			return err
		}

		logger.Debug("analysis finished", map[string]interface{}{
			"root":        args[0],
			"total_files": project.TotalFiles,
			"tier":        analyzer.TierName(),
		})

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(project)
	},
}

func init() {
	analyzeCmd.Flags().StringSliceVar(&analyzeExtensions, "extensions", nil,
		"File extensions to include (default from config)")
	rootCmd.AddCommand(analyzeCmd)
}
