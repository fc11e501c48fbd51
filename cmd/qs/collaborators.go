package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/randalmurphy/qs/internal/cache"
	"github.com/randalmurphy/qs/internal/config"
	"github.com/randalmurphy/qs/internal/embedding"
	"github.com/randalmurphy/qs/internal/graph"
	"github.com/randalmurphy/qs/internal/metrics"
	"github.com/randalmurphy/qs/internal/repolayout"
	"github.com/randalmurphy/qs/internal/store"
)

// repo bundles a discovered repository's layout and config.
type repo struct {
	paths repolayout.Paths
	cfg   *config.Config
}

// discoverRepo walks up from cwd looking for .qs, then loads its config.
func discoverRepo() (*repo, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get cwd: %w", err)
	}

	root, err := repolayout.Discover(cwd)
	if err != nil {
		return nil, err
	}

	paths := repolayout.PathsFor(root)
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return nil, err
	}

	return &repo{paths: paths, cfg: cfg}, nil
}

// globalConfigPath is where deployment settings for the optional
// collaborators (vector store transport, cache, graph) live, shared
// across every repository on the machine.
func globalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".qs-global.json"
	}
	return filepath.Join(home, ".config", "qs", "config.json")
}

func loadGlobalConfig() (*config.GlobalConfig, error) {
	return config.LoadGlobalConfig(globalConfigPath())
}

// newEmbedder builds the HTTP embedding client from environment variables,
// mirroring how teacher's commands read VOYAGE_API_KEY.
func newEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	baseURL := os.Getenv("QS_EMBEDDING_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("QS_EMBEDDING_URL is not set")
	}
	apiKey := os.Getenv("QS_EMBEDDING_API_KEY")

	return embedding.NewHTTPClient(baseURL, apiKey, cfg.Model)
}

func newVectorStore(gcfg *config.GlobalConfig) (store.Store, error) {
	return store.NewQdrantStore(gcfg.Storage.QdrantURL)
}

// newGraphStore connects to Neo4j if configured. Returns nil, nil when the
// deployment has no graph store wired, which every caller must tolerate.
func newGraphStore(gcfg *config.GlobalConfig) (*graph.Neo4jStore, error) {
	if gcfg.Storage.Neo4jURL == "" {
		return nil, nil
	}

	user := os.Getenv("NEO4J_USER")
	if user == "" {
		user = "neo4j"
	}
	pass := os.Getenv("NEO4J_PASSWORD")
	if pass == "" {
		return nil, nil
	}

	g, err := graph.NewNeo4jStore(gcfg.Storage.Neo4jURL, user, pass)
	if err != nil {
		return nil, nil
	}
	return g, nil
}

// newQueryCache connects to Redis if configured. Returns nil, nil when
// absent, which every caller must tolerate.
func newQueryCache(gcfg *config.GlobalConfig) *cache.RedisCache {
	if gcfg.Storage.RedisURL == "" {
		return nil
	}
	c, err := cache.NewRedisCache(gcfg.Storage.RedisURL)
	if err != nil {
		return nil
	}
	return c
}

// newMetricsLogger opens the shared JSONL event log under the user's state
// directory. Returns nil on any failure, which every caller must tolerate.
func newMetricsLogger() *metrics.Logger {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	path := filepath.Join(home, ".local", "share", "qs", "metrics.jsonl")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil
	}
	l, err := metrics.NewLogger(path)
	if err != nil {
		return nil
	}
	return l
}
