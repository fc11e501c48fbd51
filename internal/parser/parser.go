// Package parser provides tree-sitter based parsing for extracting
// syntax-aware chunks (and, for a subset of languages, symbols and
// relationships) from source code.
package parser

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language identifies a supported programming language.
type Language string

const (
	LanguageRust       Language = "rust"
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageGo         Language = "go"
	LanguageJava       Language = "java"
	LanguageC          Language = "c"
	LanguageCpp        Language = "cpp"
)

// definitionKinds maps each language to the tree-sitter node kinds that
// stand on their own as a chunk: top-level definitions such as functions,
// types, and classes.
var definitionKinds = map[Language]map[string]bool{
	LanguageRust: set(
		"function_item", "impl_item", "struct_item", "enum_item",
		"trait_item", "mod_item", "const_item", "static_item",
		"type_item", "macro_definition",
	),
	LanguagePython: set(
		"function_definition", "class_definition", "decorated_definition",
	),
	LanguageJavaScript: set(
		"function_declaration", "class_declaration", "method_definition",
		"arrow_function", "function", "export_statement", "lexical_declaration",
	),
	LanguageTypeScript: set(
		"function_declaration", "class_declaration", "method_definition",
		"arrow_function", "function", "export_statement", "lexical_declaration",
	),
	LanguageGo: set(
		"function_declaration", "method_declaration", "type_declaration",
		"const_declaration", "var_declaration",
	),
	LanguageJava: set(
		"class_declaration", "interface_declaration", "enum_declaration",
		"method_declaration", "constructor_declaration",
	),
	LanguageC: set(
		"function_definition", "struct_specifier", "enum_specifier",
		"class_specifier", "namespace_definition",
	),
	LanguageCpp: set(
		"function_definition", "struct_specifier", "enum_specifier",
		"class_specifier", "namespace_definition",
	),
}

func set(kinds ...string) map[string]bool {
	m := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		m[k] = true
	}
	return m
}

// Chunk is one syntax-aware slice of a source file: a definition node's
// exact source text plus its 1-indexed line span.
type Chunk struct {
	Text      string
	StartLine int
	EndLine   int
	Index     int
}

// Parser wraps a tree-sitter parser configured for one language.
type Parser struct {
	language Language
	parser   *sitter.Parser
}

// NewParser creates a parser for the given language.
func NewParser(lang Language) (*Parser, error) {
	sl, err := languageBinding(lang)
	if err != nil {
		return nil, err
	}

	p := sitter.NewParser()
	p.SetLanguage(sl)

	return &Parser{language: lang, parser: p}, nil
}

// ParseChunks parses source and extracts definition-level chunks.
//
// It first looks at the root node's direct children for a kind in the
// language's definition set. If none match, it falls back to a recursive
// descendant scan. If that still produces nothing and source is not
// entirely whitespace, the whole file becomes a single chunk.
func (p *Parser) ParseChunks(source []byte) ([]Chunk, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	kinds := definitionKinds[p.language]
	root := tree.RootNode()

	var chunks []Chunk
	appendChunk := func(node *sitter.Node) {
		chunks = append(chunks, Chunk{
			Text:      nodeContent(node, source),
			StartLine: int(node.StartPoint().Row) + 1,
			EndLine:   int(node.EndPoint().Row) + 1,
			Index:     len(chunks),
		})
	}

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if kinds[child.Type()] {
			appendChunk(child)
		}
	}

	if len(chunks) == 0 {
		extractRecursive(root, kinds, appendChunk)
	}

	if len(chunks) == 0 && !isAllWhitespace(source) {
		chunks = append(chunks, Chunk{
			Text:      string(source),
			StartLine: 1,
			EndLine:   int(root.EndPoint().Row) + 1,
			Index:     0,
		})
	}

	return chunks, nil
}

func extractRecursive(node *sitter.Node, kinds map[string]bool, emit func(*sitter.Node)) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if kinds[child.Type()] {
			emit(child)
			continue
		}
		extractRecursive(child, kinds, emit)
	}
}

func isAllWhitespace(source []byte) bool {
	for _, r := range string(source) {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// DetectLanguage determines a Language from a file extension, mirroring
// the extension table used to pick a tree-sitter grammar.
func DetectLanguage(filePath string) (Language, bool) {
	switch {
	case hasExtension(filePath, ".rs"):
		return LanguageRust, true
	case hasExtension(filePath, ".py", ".pyi"):
		return LanguagePython, true
	case hasExtension(filePath, ".js", ".jsx", ".mjs", ".cjs"):
		return LanguageJavaScript, true
	case hasExtension(filePath, ".ts", ".tsx", ".mts", ".cts"):
		return LanguageTypeScript, true
	case hasExtension(filePath, ".go"):
		return LanguageGo, true
	case hasExtension(filePath, ".java"):
		return LanguageJava, true
	case hasExtension(filePath, ".c", ".h"):
		return LanguageC, true
	case hasExtension(filePath, ".cpp", ".cc", ".cxx", ".hpp", ".hxx", ".hh"):
		return LanguageCpp, true
	default:
		return "", false
	}
}

func hasExtension(path string, exts ...string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
