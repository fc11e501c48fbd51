// Package query implements the Query Engine: embedding a query (or a
// file's content) and searching the vector store for nearest neighbors,
// with an optional result cache and an optional relationship-graph
// pass-through for file-to-file traversal.
package query

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/randalmurphy/qs/internal/cache"
	"github.com/randalmurphy/qs/internal/embedding"
	"github.com/randalmurphy/qs/internal/graph"
	"github.com/randalmurphy/qs/internal/manifest"
	"github.com/randalmurphy/qs/internal/metrics"
	"github.com/randalmurphy/qs/internal/qserr"
	"github.com/randalmurphy/qs/internal/store"
)

// defaultCacheTTL bounds how long a cached result set survives before the
// engine re-embeds and re-searches regardless of whether next_id changed.
const defaultCacheTTL = 10 * time.Minute

// Result is one nearest-neighbor hit, payload plus similarity score.
type Result struct {
	Score   float32            `json:"score"`
	Payload store.ChunkPayload `json:"payload"`
}

// RelatedFile is one graph neighbor of a queried file.
type RelatedFile struct {
	Path        string    `json:"path"`
	Hash        string    `json:"hash"`
	LastIndexed time.Time `json:"last_indexed"`
}

// Engine answers search/similar/related queries against a repository's
// index. It holds no mutable indexing state of its own; the manifest is
// read fresh on every call so NextID-derived cache keys stay correct
// across concurrent index runs.
type Engine struct {
	manifestPath string
	model        string
	embedder     embedding.Embedder
	vecStore     store.Store
	graphStore   *graph.Neo4jStore
	queryCache   *cache.RedisCache
	metricsLog   *metrics.Logger
	logger       *slog.Logger
}

// New creates a Query Engine. graphStore, queryCache, and metricsLog are
// all optional collaborators; pass nil for any not configured.
func New(manifestPath, model string, embedder embedding.Embedder, vecStore store.Store, graphStore *graph.Neo4jStore, queryCache *cache.RedisCache, metricsLog *metrics.Logger, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		manifestPath: manifestPath,
		model:        model,
		embedder:     embedder,
		vecStore:     vecStore,
		graphStore:   graphStore,
		queryCache:   queryCache,
		metricsLog:   metricsLog,
		logger:       logger,
	}
}

// Search embeds queryText and returns up to limit nearest-neighbor chunks,
// ordered by descending similarity.
func (e *Engine) Search(ctx context.Context, queryText string, limit int) ([]Result, error) {
	start := time.Now()
	cacheKey := e.cacheKeyFor(queryText)

	if cached, ok := e.readCache(ctx, cacheKey); ok {
		e.logSearch(queryText, len(cached), start, true)
		return cached, nil
	}

	vectors, err := e.embedder.EmbedBatch(ctx, []string{queryText})
	if err != nil {
		return nil, qserr.Wrap(qserr.Embedding, err, "embed query")
	}

	results, err := e.search(ctx, vectors[0], limit)
	if err != nil {
		return nil, err
	}

	e.writeCache(ctx, cacheKey, results)
	e.logSearch(queryText, len(results), start, false)
	return results, nil
}

// Similar reads filePath's entire content, embeds it as one vector, and
// returns its nearest neighbors — including, typically, the file itself.
func (e *Engine) Similar(ctx context.Context, filePath string, limit int) ([]Result, error) {
	start := time.Now()
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, qserr.Wrap(qserr.Io, err, "read %s", filePath)
	}

	cacheKey := e.cacheKeyFor(string(content))
	if cached, ok := e.readCache(ctx, cacheKey); ok {
		e.logSearch(filePath, len(cached), start, true)
		return cached, nil
	}

	vectors, err := e.embedder.EmbedBatch(ctx, []string{string(content)})
	if err != nil {
		return nil, qserr.Wrap(qserr.Embedding, err, "embed %s", filePath)
	}

	results, err := e.search(ctx, vectors[0], limit)
	if err != nil {
		return nil, err
	}

	e.writeCache(ctx, cacheKey, results)
	e.logSearch(filePath, len(results), start, false)
	return results, nil
}

// Related returns files connected to filePath in the relationship graph
// (imports, importers, and call-connected files), nearest first. Returns
// an error if no Relationship Graph is configured.
func (e *Engine) Related(ctx context.Context, filePath string, limit int) ([]RelatedFile, error) {
	if e.graphStore == nil {
		return nil, qserr.New(qserr.Config, "no relationship graph configured (set storage.neo4j_url)")
	}

	files, err := e.graphStore.FindRelatedFiles(ctx, filePath, limit)
	if err != nil {
		return nil, qserr.Wrap(qserr.Storage, err, "find related files for %s", filePath)
	}

	out := make([]RelatedFile, len(files))
	for i, f := range files {
		out[i] = RelatedFile{Path: f.Path, Hash: f.Hash, LastIndexed: f.LastIndexed}
	}
	return out, nil
}

func (e *Engine) search(ctx context.Context, vector []float32, limit int) ([]Result, error) {
	hits, err := e.vecStore.Search(ctx, vector, limit)
	if err != nil {
		return nil, qserr.Wrap(qserr.Storage, err, "vector search")
	}

	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{Score: h.Score, Payload: h.Payload}
	}
	return results, nil
}

// cacheKeyFor derives a cache key from text, the embedding model, and the
// manifest's current NextID, which stands in for an index version: any
// index run that reserves new ids invalidates every key computed before
// it, without a separate version counter.
func (e *Engine) cacheKeyFor(text string) string {
	if e.queryCache == nil {
		return ""
	}

	m, err := manifest.Load(e.manifestPath)
	if err != nil {
		return ""
	}

	sum := sha256.Sum256([]byte(text))
	return cache.QueryCacheKey(hex.EncodeToString(sum[:]), e.model, m.NextID)
}

func (e *Engine) readCache(ctx context.Context, key string) ([]Result, bool) {
	if e.queryCache == nil || key == "" {
		return nil, false
	}

	raw, err := e.queryCache.Get(ctx, key)
	if err != nil || raw == "" {
		return nil, false
	}

	var results []Result
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return nil, false
	}
	return results, true
}

func (e *Engine) writeCache(ctx context.Context, key string, results []Result) {
	if e.queryCache == nil || key == "" {
		return
	}

	data, err := json.Marshal(results)
	if err != nil {
		return
	}

	if err := e.queryCache.Set(ctx, key, string(data), defaultCacheTTL); err != nil {
		e.logger.Warn("failed to cache query result", "error", err)
	}
}

func (e *Engine) logSearch(query string, resultCount int, start time.Time, cacheHit bool) {
	if e.metricsLog == nil {
		return
	}
	e.metricsLog.LogSearch(query, resultCount, time.Since(start).Milliseconds(), cacheHit)
}
