package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

func getGoLanguage() *sitter.Language {
	return golang.GetLanguage()
}
