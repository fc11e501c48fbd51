package parser

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// languageBinding resolves a Language to its tree-sitter grammar.
func languageBinding(lang Language) (*sitter.Language, error) {
	switch lang {
	case LanguageRust:
		return getRustLanguage(), nil
	case LanguagePython:
		return getPythonLanguage(), nil
	case LanguageJavaScript:
		return getJavaScriptLanguage(), nil
	case LanguageTypeScript:
		return getTypeScriptLanguage(), nil
	case LanguageGo:
		return getGoLanguage(), nil
	case LanguageJava:
		return getJavaLanguage(), nil
	case LanguageC:
		return getCLanguage(), nil
	case LanguageCpp:
		return getCppLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}
