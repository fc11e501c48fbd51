package parser

// SymbolKind classifies a named code symbol extracted for the
// relationship graph supplement.
type SymbolKind string

const (
	SymbolFunction SymbolKind = "function"
	SymbolClass    SymbolKind = "class"
	SymbolMethod   SymbolKind = "method"
	SymbolVariable SymbolKind = "variable"
)

// Symbol is a named declaration found while walking a file's AST for the
// relationship graph. Unlike Chunk, a Symbol always has a name and may
// nest inside a parent (a method's parent is its class).
type Symbol struct {
	Name      string     `json:"name"`
	Kind      SymbolKind `json:"kind"`
	FilePath  string     `json:"file_path"`
	StartLine int        `json:"start_line"`
	EndLine   int        `json:"end_line"`
	Content   string     `json:"content"`
	Docstring string     `json:"docstring,omitempty"`
	Parent    string     `json:"parent,omitempty"`
	Signature string     `json:"signature,omitempty"`
}
