package tokenizer

import (
	"sort"
	"strings"
)

// Normalizer converts raw source text into a normalized token stream.
// Implementations are stateless across calls; all mutable scan state lives
// in a per-call cursor.
type Normalizer interface {
	// Normalize tokenizes the source and returns the token stream plus
	// line-category counters.
	Normalize(source string) *TokenizedFile

	// LanguageName returns a display name such as "C++" or "Python".
	LanguageName() string

	// SupportedExtensions returns the extensions (with leading dot) the
	// normalizer handles.
	SupportedExtensions() []string
}

// Factory constructs a normalizer.
type Factory func() Normalizer

var registry = map[string]Factory{}

// Register adds a normalizer factory for every extension it supports.
// Later registrations win, which lets callers override a built-in.
func Register(factory Factory) {
	probe := factory()
	for _, ext := range probe.SupportedExtensions() {
		registry[strings.ToLower(ext)] = factory
	}
}

// ForExtension returns a normalizer for the given file extension
// (including the leading dot), or false when the language is unsupported.
func ForExtension(ext string) (Normalizer, bool) {
	factory, ok := registry[strings.ToLower(ext)]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// SupportedExtensions lists every registered extension, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func init() {
	Register(NewCppNormalizer)
	Register(NewPythonNormalizer)
}
