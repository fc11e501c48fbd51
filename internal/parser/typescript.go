package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

func getTypeScriptLanguage() *sitter.Language {
	return typescript.GetLanguage()
}
