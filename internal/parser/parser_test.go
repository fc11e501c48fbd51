package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	cases := map[string]Language{
		"main.rs":   LanguageRust,
		"script.py": LanguagePython,
		"types.pyi": LanguagePython,
		"app.js":    LanguageJavaScript,
		"app.jsx":   LanguageJavaScript,
		"app.mjs":   LanguageJavaScript,
		"app.ts":    LanguageTypeScript,
		"app.tsx":   LanguageTypeScript,
		"main.go":   LanguageGo,
		"Main.java": LanguageJava,
		"lib.c":     LanguageC,
		"lib.h":     LanguageC,
		"lib.cpp":   LanguageCpp,
		"lib.hpp":   LanguageCpp,
		"readme.md": "",
		"data.json": "",
	}

	for path, want := range cases {
		lang, ok := DetectLanguage(path)
		if want == "" {
			assert.False(t, ok, path)
			continue
		}
		require.True(t, ok, path)
		assert.Equal(t, want, lang, path)
	}
}

func TestUnsupportedLanguage(t *testing.T) {
	_, err := NewParser("cobol")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
}

func TestParseChunksRustTopLevelDefinitions(t *testing.T) {
	p, err := NewParser(LanguageRust)
	require.NoError(t, err)

	source := []byte(`
fn add(a: i32, b: i32) -> i32 {
    a + b
}

struct Point {
    x: i32,
    y: i32,
}

impl Point {
    fn origin() -> Point {
        Point { x: 0, y: 0 }
    }
}
`)

	chunks, err := p.ParseChunks(source)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Contains(t, chunks[0].Text, "fn add")
	assert.Contains(t, chunks[1].Text, "struct Point")
	assert.Contains(t, chunks[2].Text, "impl Point")
}

func TestParseChunksPythonTopLevelDefinitions(t *testing.T) {
	p, err := NewParser(LanguagePython)
	require.NoError(t, err)

	source := []byte(`
def greet(name):
    return f"hello {name}"

class Greeter:
    def __init__(self, name):
        self.name = name
`)

	chunks, err := p.ParseChunks(source)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0].Text, "def greet")
	assert.Contains(t, chunks[1].Text, "class Greeter")
}

func TestParseChunksGoFallsBackToWholeFileWhenNoTopLevelMatch(t *testing.T) {
	p, err := NewParser(LanguageGo)
	require.NoError(t, err)

	// A bare package clause has no function/type/const/var declarations,
	// so neither the top-level nor the recursive pass find anything, and
	// the whole (non-blank) file becomes a single chunk.
	source := []byte("package main\n")

	chunks, err := p.ParseChunks(source)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "package main\n", chunks[0].Text)
}

func TestParseChunksEmptyWhitespaceProducesNoChunks(t *testing.T) {
	p, err := NewParser(LanguageGo)
	require.NoError(t, err)

	chunks, err := p.ParseChunks([]byte("   \n\t\n"))
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestParseChunksGoFunctionDeclarations(t *testing.T) {
	p, err := NewParser(LanguageGo)
	require.NoError(t, err)

	source := []byte(`package main

func add(a, b int) int {
	return a + b
}

type Point struct {
	X, Y int
}
`)

	chunks, err := p.ParseChunks(source)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0].Text, "func add")
	assert.Contains(t, chunks[1].Text, "type Point struct")
}
