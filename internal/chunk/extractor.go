package chunk

import (
	"github.com/randalmurphy/qs/internal/parser"
	"github.com/randalmurphy/qs/internal/security"
)

// Extractor turns a file's raw bytes into a sequence of Chunks.
type Extractor struct {
	chunkSize      int
	chunkOverlap   int
	secretDetector *security.SecretDetector
}

// NewExtractor creates an Extractor using the given fallback-chunker
// target size and overlap (in bytes), matching the repository's
// configured chunk_size/chunk_overlap.
func NewExtractor(chunkSize, chunkOverlap int) *Extractor {
	return &Extractor{
		chunkSize:      chunkSize,
		chunkOverlap:   chunkOverlap,
		secretDetector: security.NewSecretDetector(),
	}
}

// Extract produces chunks for filePath's content.
//
// It tries a tree-sitter grammar for the file's language first; any
// resulting chunk larger than twice the configured chunk size is
// re-split with the fallback chunker so no single chunk dominates an
// embedding batch. If no grammar is available, or the grammar produced
// nothing, the whole file goes through the fallback chunker. Detected
// secrets are redacted from chunk text before it is returned.
func (e *Extractor) Extract(filePath string, source []byte) ([]Chunk, error) {
	text := string(source)

	var chunks []Chunk
	if lang, ok := parser.DetectLanguage(filePath); ok {
		if p, err := parser.NewParser(lang); err == nil {
			if parsed, err := p.ParseChunks(source); err == nil && len(parsed) > 0 {
				chunks = fromParserChunks(parsed)
			}
		}
	}

	if len(chunks) > 0 {
		chunks = e.resplitOversized(chunks)
	} else {
		chunks = ChunkText(text, e.chunkSize, e.chunkOverlap)
	}

	for i := range chunks {
		chunks[i].FilePath = filePath
		chunks[i].Index = i
		if e.secretDetector.HasSecrets(chunks[i].Text) {
			secrets := e.secretDetector.Detect(chunks[i].Text)
			chunks[i].Text = e.secretDetector.Redact(chunks[i].Text, secrets)
			chunks[i].HasSecrets = true
		}
	}

	return chunks, nil
}

func fromParserChunks(parsed []parser.Chunk) []Chunk {
	out := make([]Chunk, len(parsed))
	for i, p := range parsed {
		out[i] = Chunk{
			Text:      p.Text,
			StartLine: p.StartLine,
			EndLine:   p.EndLine,
			Index:     p.Index,
		}
	}
	return out
}

// resplitOversized re-chunks any definition whose text exceeds twice the
// configured chunk size, shifting the fallback chunker's relative line
// numbers by the original definition's start line.
func (e *Extractor) resplitOversized(chunks []Chunk) []Chunk {
	cap := e.chunkSize * 2

	var out []Chunk
	for _, c := range chunks {
		if len(c.Text) <= cap {
			out = append(out, c)
			continue
		}

		for _, sub := range ChunkText(c.Text, e.chunkSize, e.chunkOverlap) {
			out = append(out, Chunk{
				Text:      sub.Text,
				StartLine: c.StartLine - 1 + sub.StartLine,
				EndLine:   c.StartLine - 1 + sub.EndLine,
			})
		}
	}
	return out
}
