package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQdrantStoreUpsertSearchDelete(t *testing.T) {
	if os.Getenv("QDRANT_URL") == "" {
		t.Skip("QDRANT_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewQdrantStore(os.Getenv("QDRANT_URL"))
	require.NoError(t, err)
	defer s.Close()

	_ = s.DeleteCollection(ctx)
	require.NoError(t, s.EnsureCollection(ctx, 4))
	defer s.DeleteCollection(ctx)

	vec := []float32{1, 0, 0, 0}
	err = s.Upsert(ctx, []Point{
		{
			ID:     0,
			Vector: vec,
			Payload: ChunkPayload{
				Path:       "test.py",
				ChunkIndex: 0,
				StartLine:  1,
				EndLine:    3,
				Text:       "def f(): pass",
				FileHash:   "hash-a",
			},
		},
	})
	require.NoError(t, err)
	require.NoError(t, s.Flush(ctx))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	results, err := s.Search(ctx, vec, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "test.py", results[0].Payload.Path)
	assert.Equal(t, "hash-a", results[0].Payload.FileHash)

	require.NoError(t, s.Delete(ctx, []uint64{0}))
	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestQdrantStoreDimension(t *testing.T) {
	if os.Getenv("QDRANT_URL") == "" {
		t.Skip("QDRANT_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewQdrantStore(os.Getenv("QDRANT_URL"))
	require.NoError(t, err)
	defer s.Close()

	_ = s.DeleteCollection(ctx)
	defer s.DeleteCollection(ctx)

	dim, err := s.Dimension(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, dim)

	require.NoError(t, s.EnsureCollection(ctx, 768))

	dim, err = s.Dimension(ctx)
	require.NoError(t, err)
	assert.Equal(t, 768, dim)
}
