package walker

import (
	"path/filepath"
	"strings"

	"github.com/randalmurphy/qs/internal/config"
)

// textExtensions is the set of file extensions treated as indexable text
// by default, absent an explicit include_extensions list: common
// programming languages, web, shell, config, and data/doc formats.
var textExtensions = set(
	"txt", "md", "markdown", "rst", "adoc",
	"rs", "py", "pyi", "js", "jsx", "mjs", "cjs", "ts", "tsx", "mts", "cts",
	"go", "java", "kt", "kts", "scala", "rb", "php", "swift", "cs",
	"c", "h", "cpp", "cc", "cxx", "hpp", "hxx", "hh",
	"html", "htm", "css", "scss", "sass", "less", "vue", "svelte",
	"sh", "bash", "zsh", "fish", "ps1",
	"json", "yaml", "yml", "toml", "ini", "cfg", "conf", "xml",
	"sql", "graphql", "proto",
	"dockerfile", "makefile", "cmake",
	"lua", "r", "jl", "ex", "exs", "erl", "hs", "clj", "zig", "nim",
)

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, item := range items {
		m[item] = true
	}
	return m
}

func isTextExtension(ext string) bool {
	return textExtensions[ext]
}

// ShouldIndex decides whether path is eligible for indexing under cfg.
// Exclude_extensions always wins. Otherwise, a non-empty
// include_extensions list is authoritative; absent that, path is eligible
// iff its extension is a recognized text type.
func ShouldIndex(path string, cfg *config.Config) bool {
	ext := extensionOf(path)

	for _, excluded := range cfg.ExcludeExtensions {
		if strings.EqualFold(excluded, ext) {
			return false
		}
	}

	if len(cfg.IncludeExtensions) > 0 {
		for _, included := range cfg.IncludeExtensions {
			if strings.EqualFold(included, ext) {
				return true
			}
		}
		return false
	}

	return isTextExtension(ext)
}

func extensionOf(path string) string {
	ext := filepath.Ext(path)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
