package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

func getRustLanguage() *sitter.Language {
	return rust.GetLanguage()
}
