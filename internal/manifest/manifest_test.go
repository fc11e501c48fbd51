package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingReturnsEmpty(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "files.json"))
	require.NoError(t, err)
	assert.Empty(t, m.Files)
	assert.Equal(t, uint64(0), m.NextID)
}

func TestReserveAssignsContiguousDisjointRanges(t *testing.T) {
	m := New()

	a := m.Reserve("a.go", "hash-a", 100, 3)
	b := m.Reserve("b.go", "hash-b", 100, 5)

	assert.Equal(t, uint64(0), a.StartID)
	assert.Equal(t, uint64(3), a.EndID())
	assert.Equal(t, uint64(3), b.StartID)
	assert.Equal(t, uint64(8), b.EndID())
	assert.Equal(t, uint64(8), m.NextID)
}

func TestReserveZeroChunksDoesNotAdvanceNextID(t *testing.T) {
	m := New()
	m.Reserve("a.go", "hash-a", 100, 3)
	entry := m.Reserve("empty.go", "hash-empty", 100, 0)

	assert.Equal(t, uint64(3), entry.StartID)
	assert.Equal(t, uint64(3), m.NextID)
}

func TestRemoveThenReserveDoesNotReclaimIDs(t *testing.T) {
	m := New()
	m.Reserve("a.go", "hash-a", 100, 3)

	removed, ok := m.Remove("a.go")
	require.True(t, ok)
	assert.Equal(t, uint64(0), removed.StartID)

	_, ok = m.Remove("a.go")
	assert.False(t, ok)

	next := m.Reserve("c.go", "hash-c", 100, 2)
	assert.Equal(t, uint64(3), next.StartID, "NextID must never decrease even after removal")
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "files.json")

	m := New()
	m.Reserve("a.go", "hash-a", 100, 3)
	m.Reserve("b.go", "hash-b", 200, 5)

	require.NoError(t, Save(m, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.NextID, loaded.NextID)
	assert.Equal(t, m.Files, loaded.Files)
}

func TestHashesReflectsCurrentEntries(t *testing.T) {
	m := New()
	m.Reserve("a.go", "hash-a", 100, 1)
	m.Reserve("b.go", "hash-b", 100, 1)

	hashes := m.Hashes()
	assert.Equal(t, map[string]string{"a.go": "hash-a", "b.go": "hash-b"}, hashes)
}
