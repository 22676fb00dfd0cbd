// Package scanner discovers source files under a project root.
//
// Discovery is deterministic: results are sorted by path so repeated scans
// of an unchanged tree produce identical output.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileRecord describes a discovered source file.
type FileRecord struct {
	// Path is the file path as discovered (absolute when root is absolute)
	Path string `json:"path"`

	// SizeBytes is the file size; 0 when the size could not be read
	SizeBytes int64 `json:"size_bytes"`
}

// Config controls what the scanner includes.
type Config struct {
	// Root is the directory to scan
	Root string

	// Extensions holds the file extensions to include, with leading dot
	Extensions map[string]struct{}

	// ExcludedDirs holds directory (and file) names excluded wherever they
	// appear as a path segment
	ExcludedDirs map[string]struct{}

	// ExcludeGlobs holds doublestar patterns matched against the path
	// relative to Root; matching files are excluded
	ExcludeGlobs []string

	// FollowSymlinks enables descending into symlinked directories
	FollowSymlinks bool
}

// DefaultConfig returns a scanner configuration for C/C++ sources with the
// usual VCS and build directories excluded.
func DefaultConfig(root string) Config {
	return Config{
		Root: root,
		Extensions: NewStringSet(
			".c", ".h", ".cpp", ".hpp", ".cc", ".cxx", ".hxx",
		),
		ExcludedDirs: NewStringSet(
			".git", ".svn", ".hg",
			"node_modules", "__pycache__", ".venv", "venv",
			"build", "cmake-build-debug", "cmake-build-release",
			".idea", ".vscode",
		),
	}
}

// NewStringSet builds a set from the given values.
func NewStringSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Scanner walks a directory tree looking for source files.
type Scanner struct {
	config Config
}

// New creates a scanner with the given configuration.
func New(config Config) *Scanner {
	return &Scanner{config: config}
}

// Config returns the scanner configuration.
func (s *Scanner) Config() Config {
	return s.config
}

// Scan walks the configured root and returns matching files sorted by path.
//
// A non-existent root yields an empty result, not an error. Unreadable
// directories are skipped silently.
func (s *Scanner) Scan() []FileRecord {
	var files []FileRecord

	info, err := os.Stat(s.config.Root)
	if err != nil || !info.IsDir() {
		return files
	}

	s.walk(s.config.Root, 0, &files)

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files
}

// maxSymlinkDepth bounds traversal through symlinked directories so a
// self-referencing link cannot loop the walk forever.
const maxSymlinkDepth = 40

func (s *Scanner) walk(dir string, depth int, files *[]FileRecord) {
	if depth > maxSymlinkDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// Permission denied and the like: skip silently
		return
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		isDir := entry.IsDir()
		if !isDir && entry.Type()&os.ModeSymlink != 0 && s.config.FollowSymlinks {
			if target, err := os.Stat(path); err == nil && target.IsDir() {
				isDir = true
			}
		}

		if isDir {
			if s.excludedSegment(entry.Name()) {
				continue
			}
			s.walk(path, depth+1, files)
			continue
		}

		if s.shouldExclude(path) {
			continue
		}
		if !s.hasValidExtension(path) {
			continue
		}

		record := FileRecord{Path: path}
		if info, err := entry.Info(); err == nil {
			record.SizeBytes = info.Size()
		}
		*files = append(*files, record)
	}
}

// shouldExclude applies the segment rules to every component of path, then
// the configured glob patterns to the root-relative path.
func (s *Scanner) shouldExclude(path string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if s.excludedSegment(segment) {
			return true
		}
	}

	if len(s.config.ExcludeGlobs) > 0 {
		rel, err := filepath.Rel(s.config.Root, path)
		if err == nil {
			rel = filepath.ToSlash(rel)
			for _, pattern := range s.config.ExcludeGlobs {
				if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
					return true
				}
			}
		}
	}

	return false
}

// excludedSegment reports whether a single path segment is excluded.
// Hidden segments (leading dot, other than the bare "." marker) are
// excluded unconditionally, independent of the configured set.
func (s *Scanner) excludedSegment(name string) bool {
	if name == "" {
		return false
	}
	if name[0] == '.' && name != "." {
		return true
	}
	_, excluded := s.config.ExcludedDirs[name]
	return excluded
}

func (s *Scanner) hasValidExtension(path string) bool {
	_, ok := s.config.Extensions[filepath.Ext(path)]
	return ok
}
