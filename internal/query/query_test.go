package query

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphy/qs/internal/manifest"
	"github.com/randalmurphy/qs/internal/store"
)

type fakeEmbedder struct {
	dimension int
	calls     int
	lastTexts []string
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	f.lastTexts = texts
	out := make([][]float32, len(texts))
	for i := range texts {
		v := make([]float32, f.dimension)
		v[0] = float32(len(texts[i]))
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimension() int { return f.dimension }

type fakeStore struct {
	mu      sync.Mutex
	results []store.SearchResult
	calls   int
}

func (s *fakeStore) EnsureCollection(context.Context, int) error { return nil }
func (s *fakeStore) Dimension(context.Context) (int, error)      { return 0, nil }
func (s *fakeStore) Upsert(context.Context, []store.Point) error { return nil }
func (s *fakeStore) Delete(context.Context, []uint64) error      { return nil }

func (s *fakeStore) Search(_ context.Context, _ []float32, limit int) ([]store.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if limit < len(s.results) {
		return s.results[:limit], nil
	}
	return s.results, nil
}

func (s *fakeStore) Count(context.Context) (uint64, error) { return 0, nil }
func (s *fakeStore) Flush(context.Context) error           { return nil }
func (s *fakeStore) Close() error                          { return nil }

func newTestEngine(t *testing.T, results []store.SearchResult) (*Engine, *fakeStore) {
	t.Helper()
	root := t.TempDir()
	m := manifest.New()
	require.NoError(t, manifest.Save(m, filepath.Join(root, "manifest.json")))

	emb := &fakeEmbedder{dimension: 4}
	st := &fakeStore{results: results}
	eng := New(filepath.Join(root, "manifest.json"), "test-model", emb, st, nil, nil, nil, nil)
	return eng, st
}

func TestSearchReturnsStoreResultsInOrder(t *testing.T) {
	want := []store.SearchResult{
		{Score: 0.9, Payload: store.ChunkPayload{Path: "a.py", Text: "def a(): pass"}},
		{Score: 0.5, Payload: store.ChunkPayload{Path: "b.py", Text: "def b(): pass"}},
	}
	eng, st := newTestEngine(t, want)

	results, err := eng.Search(context.Background(), "find the a function", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a.py", results[0].Payload.Path)
	assert.Equal(t, float32(0.9), results[0].Score)
	assert.Equal(t, "b.py", results[1].Payload.Path)
	assert.Equal(t, 1, st.calls)
}

func TestSimilarReadsFileAndSearches(t *testing.T) {
	want := []store.SearchResult{
		{Score: 1.0, Payload: store.ChunkPayload{Path: "a.py", Text: "def a(): pass"}},
	}
	eng, st := newTestEngine(t, want)

	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("def a():\n    return 1\n"), 0o644))

	results, err := eng.Similar(context.Background(), path, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a.py", results[0].Payload.Path)
	assert.Equal(t, 1, st.calls)
}

func TestRelatedWithoutGraphStoreErrors(t *testing.T) {
	eng, _ := newTestEngine(t, nil)

	_, err := eng.Related(context.Background(), "a.py", 5)
	assert.Error(t, err)
}
