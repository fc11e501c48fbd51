package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

func getJavaLanguage() *sitter.Language {
	return java.GetLanguage()
}
