// Package manifest tracks, per indexed file, the content hash and the
// contiguous range of vector-store point ids that file owns. It is the
// single source of truth the indexer diffs against on every run.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/randalmurphy/qs/internal/qserr"
)

// FileEntry is the recorded state of one indexed file.
type FileEntry struct {
	Hash       string `json:"hash"`
	ModTime    int64  `json:"mtime"`
	ChunkCount int    `json:"chunk_count"`
	StartID    uint64 `json:"start_id"`
}

// EndID returns the exclusive upper bound of this file's id range:
// [StartID, EndID).
func (f FileEntry) EndID() uint64 {
	return f.StartID + uint64(f.ChunkCount)
}

// Manifest is the full state of .qs/files.json: one entry per indexed
// file, plus the next unused point id. Entries' id ranges are
// [StartID, StartID+ChunkCount), contiguous per file and disjoint across
// files; NextID never decreases across saves.
type Manifest struct {
	Files  map[string]FileEntry `json:"files"`
	NextID uint64               `json:"next_id"`
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{Files: make(map[string]FileEntry)}
}

// Load reads the manifest at path, returning an empty manifest if the
// file does not exist yet.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, qserr.Wrap(qserr.Io, err, "read %s", path)
	}

	m := New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, qserr.Wrap(qserr.Serialization, err, "parse %s", path)
	}
	if m.Files == nil {
		m.Files = make(map[string]FileEntry)
	}
	return m, nil
}

// Save writes the manifest as pretty-printed JSON to path, atomically.
// Callers must save the manifest only after every vector-store mutation
// for the run has completed, and before the store is flushed.
func Save(m *Manifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return qserr.Wrap(qserr.Serialization, err, "marshal manifest")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return qserr.Wrap(qserr.Io, err, "create %s", filepath.Dir(path))
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return qserr.Wrap(qserr.Io, err, "write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return qserr.Wrap(qserr.Io, err, "rename %s to %s", tmp, path)
	}
	return nil
}

// Reserve allocates a contiguous id range of size chunkCount for relPath,
// recording the entry and advancing NextID. It does not touch any
// previously assigned range; callers must have already deleted a stale
// range (via the vector store) before calling Reserve for a changed file.
func (m *Manifest) Reserve(relPath, hash string, modTime int64, chunkCount int) FileEntry {
	entry := FileEntry{
		Hash:       hash,
		ModTime:    modTime,
		ChunkCount: chunkCount,
		StartID:    m.NextID,
	}
	m.Files[relPath] = entry
	m.NextID += uint64(chunkCount)
	return entry
}

// Remove deletes relPath's entry, if any, returning it and whether it
// existed. It does not reclaim the id range: NextID never decreases.
func (m *Manifest) Remove(relPath string) (FileEntry, bool) {
	entry, ok := m.Files[relPath]
	if ok {
		delete(m.Files, relPath)
	}
	return entry, ok
}

// Hashes returns the recorded hash for every file currently tracked, for
// collaborators (such as the relationship graph) that need to detect
// staleness without touching the manifest's id bookkeeping.
func (m *Manifest) Hashes() map[string]string {
	out := make(map[string]string, len(m.Files))
	for path, entry := range m.Files {
		out[path] = entry.Hash
	}
	return out
}
