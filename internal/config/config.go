// Package config holds the typed, defaulted settings persisted in
// .qs/config.json, plus the global deployment config for optional
// collaborators (vector store location, cache, graph).
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/randalmurphy/qs/internal/qserr"
)

const (
	// DefaultModel is the code-optimized embedding model used by default.
	DefaultModel = "jina-embeddings-v2-base-code"
	// DefaultDimension is the vector width for DefaultModel.
	DefaultDimension = 768
	// DefaultChunkSize is the fallback chunker's target chunk size in characters.
	DefaultChunkSize = 2000
	// DefaultChunkOverlap is the fallback chunker's target overlap in characters.
	DefaultChunkOverlap = 200
	// DefaultMaxFileSize is the largest file (in bytes) eligible for indexing.
	DefaultMaxFileSize = 1 << 20
)

// Config is the per-repository configuration stored at .qs/config.json.
// Unknown fields are ignored on load; every field is defaulted on absence.
type Config struct {
	Model             string   `json:"model"`
	Dimension         int      `json:"dimension"`
	ChunkSize         int      `json:"chunk_size"`
	ChunkOverlap      int      `json:"chunk_overlap"`
	MaxFileSize       int64    `json:"max_file_size"`
	IncludeExtensions []string `json:"include_extensions"`
	ExcludeExtensions []string `json:"exclude_extensions"`
	IgnorePaths       []string `json:"ignore_paths"`
}

// Default returns a Config populated with spec defaults.
func Default() *Config {
	return &Config{
		Model:             DefaultModel,
		Dimension:         DefaultDimension,
		ChunkSize:         DefaultChunkSize,
		ChunkOverlap:      DefaultChunkOverlap,
		MaxFileSize:       DefaultMaxFileSize,
		IncludeExtensions: nil,
		ExcludeExtensions: nil,
		IgnorePaths:       nil,
	}
}

// Load reads config.json at path, returning defaults if it does not exist.
// Fields present in the file override the defaults; fields absent from the
// file keep their default value.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, qserr.Wrap(qserr.Io, err, "read %s", path)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, qserr.Wrap(qserr.Serialization, err, "parse %s", path)
	}

	if cfg.ChunkOverlap >= cfg.ChunkSize {
		// Per spec: overlap >= size degenerates to no-overlap advancement,
		// not a load-time error.
		cfg.ChunkOverlap = 0
	}

	return cfg, nil
}

// Save writes cfg as pretty-printed JSON to path, creating parent
// directories as needed. The write is atomic: write-to-temp then rename.
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return qserr.Wrap(qserr.Serialization, err, "marshal config")
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

// ValidateDimension checks that cfg.Dimension matches an existing store's
// vector size. Changing dimension after points exist is a fatal
// configuration error raised at store-open time.
func ValidateDimension(cfg *Config, existingDimension int) error {
	if existingDimension > 0 && cfg.Dimension != existingDimension {
		return qserr.New(qserr.Config,
			"configured dimension %d does not match existing store dimension %d",
			cfg.Dimension, existingDimension)
	}
	return nil
}

// GlobalConfig is process-wide deployment configuration: where the optional
// collaborators (vector store transport, cache, relationship graph) live.
// It is not part of any repository's .qs state.
type GlobalConfig struct {
	Storage StorageConfig `json:"storage"`
	Logging LoggingConfig `json:"logging"`
}

// StorageConfig locates the vector store and optional auxiliary stores.
type StorageConfig struct {
	QdrantURL string `json:"qdrant_url"`
	RedisURL  string `json:"redis_url"`
	Neo4jURL  string `json:"neo4j_url"`
}

// LoggingConfig controls the ambient structured logger.
type LoggingConfig struct {
	Level string `json:"level"` // error|warn|info|debug
}

// DefaultGlobalConfig returns sensible defaults for local development.
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Storage: StorageConfig{
			QdrantURL: "localhost:6334",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadGlobalConfig loads the global config from path, or returns defaults
// if it does not exist.
func LoadGlobalConfig(path string) (*GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, qserr.Wrap(qserr.Io, err, "read %s", path)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, qserr.Wrap(qserr.Serialization, err, "parse %s", path)
	}
	return cfg, nil
}
