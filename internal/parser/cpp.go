package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
)

func getCppLanguage() *sitter.Language {
	return cpp.GetLanguage()
}
