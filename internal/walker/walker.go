// Package walker discovers candidate files under a repository root and
// decides which of them are worth indexing.
package walker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/randalmurphy/qs/internal/repolayout"
)

// Walker traverses a repository's file tree, calling fn for every
// candidate file path. Directory exclusion happens during the walk;
// per-file extension filtering is a separate concern (see ShouldIndex).
type Walker interface {
	Walk(root string, fn func(path string) error) error
}

var hardExcludedDirs = map[string]bool{
	".git":                   true,
	repolayout.StateDirName:  true,
	"node_modules":           true,
	"__pycache__":            true,
	".venv":                  true,
	"venv":                   true,
	"dist":                   true,
	"build":                  true,
	"target":                 true,
	".idea":                  true,
	".vscode":                true,
}

// DefaultWalker skips .git, the repository's own state directory, common
// build/dependency output directories, and any hidden entry (dotfile or
// dotdir) unconditionally, then consults the repo root's .gitignore (if
// any) and the repository's configured ignore_paths glob patterns.
type DefaultWalker struct {
	ignorePaths []string
	gitignore   *ignore.GitIgnore
}

// NewDefaultWalker creates a walker honoring the given ignore_paths
// doublestar glob patterns (matched against slash-separated paths
// relative to the walk root). If root's .gitignore exists, its rules
// are loaded and consulted alongside ignorePaths.
func NewDefaultWalker(root string, ignorePaths []string) *DefaultWalker {
	w := &DefaultWalker{ignorePaths: ignorePaths}
	if data, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
		w.gitignore = ignore.CompileIgnoreLines(strings.Split(string(data), "\n")...)
	}
	return w
}

func (w *DefaultWalker) Walk(root string, fn func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if hardExcludedDirs[d.Name()] || isHidden(d.Name()) || w.matches(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if isHidden(d.Name()) || w.matches(relPath) {
			return nil
		}

		return fn(path)
	})
}

// isHidden reports whether name is a dotfile/dotdir other than "." or
// "..", mirroring the walker's "skip hidden entries" rule.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func (w *DefaultWalker) matches(relPath string) bool {
	if w.gitignore != nil && w.gitignore.MatchesPath(relPath) {
		return true
	}
	for _, pattern := range w.ignorePaths {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}

var _ Walker = (*DefaultWalker)(nil)
