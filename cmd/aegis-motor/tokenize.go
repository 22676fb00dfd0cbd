package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JesusRamosMembrive/AEGIS/internal/tokenizer"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Normalize a source file and print its token stream as JSON",
	Long: `Tokenize reads one source file, normalizes it for clone detection and
prints the token stream with line-category counters. Identifiers and
literals carry placeholder hashes; keywords, operators and punctuation
keep exact hashes. Supported languages: ` +
		strings.Join(tokenizer.SupportedExtensions(), " ") + `.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		norm, ok := tokenizer.ForExtension(filepath.Ext(path))
		if !ok {
			return fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
		}

		source, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		result := norm.Normalize(string(source))
		result.Path = path

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
}
