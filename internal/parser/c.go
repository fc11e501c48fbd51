package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

func getCLanguage() *sitter.Language {
	return c.GetLanguage()
}
