// Package indexer orchestrates the incremental indexing pipeline: walk the
// working tree, diff against the manifest, extract chunks, embed them, and
// commit the result to the vector store and manifest together.
package indexer

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"lukechampine.com/blake3"

	"github.com/randalmurphy/qs/internal/chunk"
	"github.com/randalmurphy/qs/internal/config"
	"github.com/randalmurphy/qs/internal/embedding"
	"github.com/randalmurphy/qs/internal/graph"
	"github.com/randalmurphy/qs/internal/manifest"
	"github.com/randalmurphy/qs/internal/metrics"
	"github.com/randalmurphy/qs/internal/parser"
	"github.com/randalmurphy/qs/internal/repolayout"
	"github.com/randalmurphy/qs/internal/store"
	"github.com/randalmurphy/qs/internal/walker"
)

// ProgressKind distinguishes the two progress events a run emits.
type ProgressKind string

const (
	ProgressScanning ProgressKind = "scanning"
	ProgressIndexing ProgressKind = "indexing"
)

// ProgressEvent is delivered to the progress callback as a run proceeds.
type ProgressEvent struct {
	Kind    ProgressKind
	Count   int // ProgressScanning: files scanned so far
	Current int // ProgressIndexing: 1-based position in the queued batch
	Total   int // ProgressIndexing: size of the queued batch
	Path    string
}

// IndexStats summarizes one indexing run.
type IndexStats struct {
	FilesScanned   int
	FilesIndexed   int
	FilesSkipped   int
	FilesUnchanged int
	ChunksCreated  int
	Duration       time.Duration
}

// Indexer coordinates file discovery, chunk extraction, embedding, and
// storage for a single repository. It exclusively owns the Manifest,
// Embedder, Store, and Extractor for the duration of a run.
type Indexer struct {
	root      string
	paths     repolayout.Paths
	cfg       *config.Config
	extractor *chunk.Extractor
	embedder  embedding.Embedder
	vecStore  store.Store
	walker    walker.Walker

	graphStore    *graph.Neo4jStore // optional
	metricsLogger *metrics.Logger   // optional

	logger   *slog.Logger
	progress func(ProgressEvent)
}

// NewIndexer creates an Indexer rooted at an already-discovered repository.
func NewIndexer(root string, cfg *config.Config, embedder embedding.Embedder, vecStore store.Store) *Indexer {
	return &Indexer{
		root:      root,
		paths:     repolayout.PathsFor(root),
		cfg:       cfg,
		extractor: chunk.NewExtractor(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder:  embedder,
		vecStore:  vecStore,
		walker:    walker.NewDefaultWalker(root, cfg.IgnorePaths),
		logger:    slog.Default(),
	}
}

// SetProgressCallback registers cb to receive progress events during Index.
func (idx *Indexer) SetProgressCallback(cb func(ProgressEvent)) {
	idx.progress = cb
}

// SetGraphStore wires an optional relationship graph collaborator. Passing
// nil disables the supplement.
func (idx *Indexer) SetGraphStore(g *graph.Neo4jStore) {
	idx.graphStore = g
}

// SetMetricsLogger wires an optional metrics collaborator.
func (idx *Indexer) SetMetricsLogger(m *metrics.Logger) {
	idx.metricsLogger = m
}

// SetWalker overrides the default file walker, e.g. in tests.
func (idx *Indexer) SetWalker(w walker.Walker) {
	idx.walker = w
}

func (idx *Indexer) emit(e ProgressEvent) {
	if idx.progress != nil {
		idx.progress(e)
	}
}

// Count returns the number of points the vector store currently holds.
func (idx *Indexer) Count(ctx context.Context) (uint64, error) {
	return idx.vecStore.Count(ctx)
}

type queuedFile struct {
	relPath string
	absPath string
	hash    string
	modTime int64
}

// Index walks subPath (relative to the repository root; "" for the whole
// tree), diffs it against the manifest, and brings the vector store and
// manifest back into agreement with the current file contents.
func (idx *Indexer) Index(ctx context.Context, subPath string) (*IndexStats, error) {
	start := time.Now()
	stats := &IndexStats{}

	if err := idx.vecStore.EnsureCollection(ctx, idx.cfg.Dimension); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	m, err := manifest.Load(idx.paths.Manifest)
	if err != nil {
		return nil, err
	}

	walkRoot := idx.root
	if subPath != "" {
		walkRoot = filepath.Join(idx.root, subPath)
	}

	var queued []queuedFile

	walkErr := idx.walker.Walk(walkRoot, func(absPath string) error {
		stats.FilesScanned++
		idx.emit(ProgressEvent{Kind: ProgressScanning, Count: stats.FilesScanned, Path: absPath})

		relPath, err := filepath.Rel(idx.root, absPath)
		if err != nil {
			stats.FilesSkipped++
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if !walker.ShouldIndex(relPath, idx.cfg) {
			stats.FilesSkipped++
			return nil
		}

		info, err := os.Stat(absPath)
		if err != nil {
			stats.FilesSkipped++
			return nil
		}
		if idx.cfg.MaxFileSize > 0 && info.Size() > idx.cfg.MaxFileSize {
			stats.FilesSkipped++
			return nil
		}

		content, err := os.ReadFile(absPath)
		if err != nil {
			stats.FilesSkipped++
			return nil
		}

		sum := blake3.Sum256(content)
		hash := hex.EncodeToString(sum[:])

		if existing, ok := m.Files[relPath]; ok {
			if existing.Hash == hash {
				stats.FilesUnchanged++
				return nil
			}
			if err := idx.vecStore.Delete(ctx, idsInRange(existing.StartID, existing.EndID())); err != nil {
				idx.logger.Warn("failed to delete stale points", "path", relPath, "error", err)
			}
		}

		queued = append(queued, queuedFile{
			relPath: relPath,
			absPath: absPath,
			hash:    hash,
			modTime: info.ModTime().Unix(),
		})
		return nil
	})
	if walkErr != nil {
		return stats, fmt.Errorf("walk %s: %w", walkRoot, walkErr)
	}

	for i, qf := range queued {
		idx.emit(ProgressEvent{Kind: ProgressIndexing, Current: i + 1, Total: len(queued), Path: qf.relPath})

		n, err := idx.indexOne(ctx, m, qf)
		if err != nil {
			idx.logger.Warn("failed to index file", "path", qf.relPath, "error", err)
			stats.FilesSkipped++
			continue
		}
		if n == 0 {
			continue
		}
		stats.FilesIndexed++
		stats.ChunksCreated += n
	}

	if err := manifest.Save(m, idx.paths.Manifest); err != nil {
		return stats, err
	}
	if err := idx.vecStore.Flush(ctx); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)

	if idx.metricsLogger != nil {
		idx.metricsLogger.LogIndexRun(stats.FilesScanned, stats.FilesIndexed, stats.FilesSkipped, stats.FilesUnchanged, stats.ChunksCreated, stats.Duration)
	}

	return stats, nil
}

// indexOne extracts, embeds, and upserts a single queued file, then records
// its new id range in the manifest. Returns the chunk count produced.
func (idx *Indexer) indexOne(ctx context.Context, m *manifest.Manifest, qf queuedFile) (int, error) {
	source, err := os.ReadFile(qf.absPath)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", qf.relPath, err)
	}
	if !utf8.Valid(source) {
		return 0, fmt.Errorf("%s is not valid UTF-8", qf.relPath)
	}

	chunks, err := idx.extractor.Extract(qf.relPath, source)
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", qf.relPath, err)
	}
	if len(chunks) == 0 {
		m.Remove(qf.relPath)
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %s: %w", qf.relPath, err)
	}

	entry := m.Reserve(qf.relPath, qf.hash, qf.modTime, len(chunks))

	points := make([]store.Point, len(chunks))
	for i, c := range chunks {
		points[i] = store.Point{
			ID:     entry.StartID + uint64(i),
			Vector: vectors[i],
			Payload: store.ChunkPayload{
				Path:       qf.relPath,
				ChunkIndex: c.Index,
				StartLine:  c.StartLine,
				EndLine:    c.EndLine,
				Text:       c.Text,
				FileHash:   qf.hash,
				HasSecrets: c.HasSecrets,
			},
		}
	}

	if err := idx.vecStore.Upsert(ctx, points); err != nil {
		m.Remove(qf.relPath)
		return 0, fmt.Errorf("upsert %s: %w", qf.relPath, err)
	}

	if idx.graphStore != nil {
		idx.indexRelationships(ctx, qf, source)
	}

	return len(chunks), nil
}

// indexRelationships extracts import/call/extends edges for languages that
// support symbol-level parsing and records them in the relationship graph.
// Best-effort: failures are logged, never fatal to the run.
func (idx *Indexer) indexRelationships(ctx context.Context, qf queuedFile, source []byte) {
	lang, ok := parser.DetectLanguage(qf.relPath)
	if !ok {
		return
	}
	p, err := parser.NewParser(lang)
	if err != nil {
		return
	}
	result, err := p.ParseWithRelationships(source, qf.relPath)
	if err != nil {
		idx.logger.Debug("relationship parse failed", "path", qf.relPath, "error", err)
		return
	}

	if err := idx.graphStore.UpsertFile(ctx, graph.File{
		Path:        qf.relPath,
		Hash:        qf.hash,
		LastIndexed: time.Now(),
	}); err != nil {
		idx.logger.Debug("graph upsert file failed", "path", qf.relPath, "error", err)
	}

	symbolsByName := make(map[string]parser.Symbol, len(result.Symbols))
	for _, sym := range result.Symbols {
		symbolsByName[sym.Name] = sym
	}

	for _, rel := range result.Relationships {
		var err error
		switch rel.Kind {
		case parser.RelationshipImports:
			err = idx.graphStore.CreateImportRelationship(ctx, rel.SourceFile, rel.TargetPath)
		case parser.RelationshipCalls:
			if target, ok := symbolsByName[rel.TargetName]; ok {
				err = idx.graphStore.CreateCallRelationship(ctx,
					graph.Symbol{Name: rel.SourceName, FilePath: rel.SourceFile, StartLine: rel.SourceLine},
					graph.Symbol{Name: target.Name, FilePath: target.FilePath, StartLine: target.StartLine})
			}
		case parser.RelationshipExtends:
			if target, ok := symbolsByName[rel.TargetName]; ok {
				err = idx.graphStore.CreateExtendsRelationship(ctx,
					graph.Symbol{Name: rel.SourceName, FilePath: rel.SourceFile, StartLine: rel.SourceLine},
					graph.Symbol{Name: target.Name, FilePath: target.FilePath, StartLine: target.StartLine})
			}
		}
		if err != nil {
			idx.logger.Debug("graph relationship write failed", "kind", rel.Kind, "error", err)
		}
	}
}

func idsInRange(start, end uint64) []uint64 {
	ids := make([]uint64, 0, end-start)
	for id := start; id < end; id++ {
		ids = append(ids, id)
	}
	return ids
}
