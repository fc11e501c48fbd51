package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractChunksFromPython(t *testing.T) {
	code := `
def get_user(user_id):
    """Fetch user by ID."""
    return {"id": user_id}

class UserService:
    """Service for user operations."""

    def __init__(self, db):
        self.db = db
`

	extractor := NewExtractor(2000, 200)
	chunks, err := extractor.Extract("users.py", []byte(code))
	require.NoError(t, err)

	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0].Text, "def get_user")
	assert.Contains(t, chunks[1].Text, "class UserService")
	for i, c := range chunks {
		assert.Equal(t, "users.py", c.FilePath)
		assert.Equal(t, i, c.Index)
	}
}

func TestExtractFallsBackForUnsupportedExtension(t *testing.T) {
	extractor := NewExtractor(2000, 200)

	chunks, err := extractor.Extract("notes.txt", []byte("just some plain text\nacross two lines\n"))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "just some plain text\nacross two lines\n", chunks[0].Text)
}

func TestExtractEmptyFileProducesNoChunks(t *testing.T) {
	extractor := NewExtractor(2000, 200)

	chunks, err := extractor.Extract("empty.py", []byte(""))
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestExtractResplitsOversizedDefinition(t *testing.T) {
	// A single function body long enough to exceed 2x a tiny chunk size
	// must be re-split by the fallback chunker instead of indexed whole.
	var body strings.Builder
	body.WriteString("def big():\n")
	for i := 0; i < 50; i++ {
		body.WriteString("    x = 1\n")
	}

	extractor := NewExtractor(20, 5)
	chunks, err := extractor.Extract("big.py", []byte(body.String()))
	require.NoError(t, err)
	assert.Greater(t, len(chunks), 1)
}

func TestExtractRedactsSecrets(t *testing.T) {
	code := "def config():\n    api_key = \"sk-1234567890abcdef1234567890abcdef\"\n    return api_key\n"

	extractor := NewExtractor(2000, 200)
	chunks, err := extractor.Extract("config.py", []byte(code))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.True(t, chunks[0].HasSecrets)
	assert.NotContains(t, chunks[0].Text, "sk-1234567890abcdef1234567890abcdef")
}

func TestChunkTokenEstimate(t *testing.T) {
	c := Chunk{Text: "1234567890123456"} // 16 chars
	assert.Equal(t, 4, c.TokenEstimate())
}
