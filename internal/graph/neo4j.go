// Package graph provides the relationship graph collaborator: an optional
// Neo4j-backed store of which files import which, and which symbols call or
// extend which. It is a supplement to the vector store — absent entirely, a
// repository indexes and searches with no relationship awareness.
package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jStore handles graph storage in Neo4j. One store serves exactly one
// qs repository; there is no multi-repository namespacing.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
}

// File is a source file node: path, content hash, and the time it was last
// indexed.
type File struct {
	Path        string
	Hash        string
	LastIndexed time.Time
}

// Symbol is a named code element (function, class, method) used to anchor
// CALLS/EXTENDS edges.
type Symbol struct {
	Name      string
	FilePath  string
	StartLine int
}

// NewNeo4jStore opens a driver against uri and verifies connectivity.
func NewNeo4jStore(uri, username, password string) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
	}

	return &Neo4jStore{driver: driver}, nil
}

// Close closes the Neo4j driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// EnsureSchema creates the constraints and indexes the store relies on.
// Idempotent: safe to call on every process start.
func (s *Neo4jStore) EnsureSchema(ctx context.Context) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT file_path IF NOT EXISTS FOR (f:File) REQUIRE f.path IS UNIQUE",
		"CREATE CONSTRAINT symbol_id IF NOT EXISTS FOR (s:Symbol) REQUIRE (s.file_path, s.name, s.start_line) IS UNIQUE",
	}
	indexes := []string{
		"CREATE INDEX file_hash IF NOT EXISTS FOR (f:File) ON (f.hash)",
		"CREATE INDEX symbol_name IF NOT EXISTS FOR (s:Symbol) ON (s.name)",
	}

	for _, stmt := range constraints {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("failed to create constraint: %w", err)
		}
	}
	for _, stmt := range indexes {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// UpsertFile creates or updates a file node, keyed on path.
func (s *Neo4jStore) UpsertFile(ctx context.Context, file File) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.Run(ctx, `
		MERGE (f:File {path: $path})
		SET f.hash = $hash, f.last_indexed = $last_indexed
	`, map[string]interface{}{
		"path":         file.Path,
		"hash":         file.Hash,
		"last_indexed": file.LastIndexed.Unix(),
	})

	return err
}

// CreateImportRelationship creates an IMPORTS edge between two file nodes.
// Best-effort: targetPath may name a module outside the repository, in
// which case no matching node exists and the merge is a no-op.
func (s *Neo4jStore) CreateImportRelationship(ctx context.Context, sourcePath, targetPath string) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.Run(ctx, `
		MATCH (source:File {path: $source_path})
		MATCH (target:File {path: $target_path})
		MERGE (source)-[:IMPORTS]->(target)
	`, map[string]interface{}{
		"source_path": sourcePath,
		"target_path": targetPath,
	})

	return err
}

// CreateCallRelationship creates a CALLS edge between symbol nodes,
// creating either endpoint if it does not already exist.
func (s *Neo4jStore) CreateCallRelationship(ctx context.Context, caller, callee Symbol) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.Run(ctx, `
		MERGE (caller:Symbol {file_path: $caller_file, name: $caller_name, start_line: $caller_line})
		MERGE (callee:Symbol {file_path: $callee_file, name: $callee_name, start_line: $callee_line})
		MERGE (caller)-[:CALLS]->(callee)
	`, map[string]interface{}{
		"caller_file": caller.FilePath,
		"caller_name": caller.Name,
		"caller_line": caller.StartLine,
		"callee_file": callee.FilePath,
		"callee_name": callee.Name,
		"callee_line": callee.StartLine,
	})

	return err
}

// CreateExtendsRelationship creates an EXTENDS edge between symbol nodes.
func (s *Neo4jStore) CreateExtendsRelationship(ctx context.Context, child, parent Symbol) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.Run(ctx, `
		MERGE (child:Symbol {file_path: $child_file, name: $child_name, start_line: $child_line})
		MERGE (parent:Symbol {file_path: $parent_file, name: $parent_name, start_line: $parent_line})
		MERGE (child)-[:EXTENDS]->(parent)
	`, map[string]interface{}{
		"child_file":   child.FilePath,
		"child_name":   child.Name,
		"child_line":   child.StartLine,
		"parent_file":  parent.FilePath,
		"parent_name":  parent.Name,
		"parent_line":  parent.StartLine,
	})

	return err
}

// FindRelatedFiles returns files connected to path by one import or
// call/extends hop in either direction: importers and imports, plus files
// containing symbols that call into or are called from path's symbols.
func (s *Neo4jStore) FindRelatedFiles(ctx context.Context, path string, limit int) ([]File, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (f:File {path: $path})
		OPTIONAL MATCH (f)-[:IMPORTS]->(imported:File)
		OPTIONAL MATCH (importer:File)-[:IMPORTS]->(f)
		OPTIONAL MATCH (s:Symbol {file_path: $path})-[:CALLS]->(callee:Symbol)
		OPTIONAL MATCH (caller:Symbol)-[:CALLS]->(s2:Symbol {file_path: $path})
		WITH COLLECT(DISTINCT imported) + COLLECT(DISTINCT importer) AS related,
		     COLLECT(DISTINCT callee.file_path) + COLLECT(DISTINCT caller.file_path) AS related_paths
		UNWIND related AS r
		WITH related_paths, r WHERE r IS NOT NULL
		WITH related_paths, COLLECT(DISTINCT r.path) AS direct_paths
		UNWIND (direct_paths + related_paths) AS p
		WITH DISTINCT p WHERE p IS NOT NULL
		MATCH (f:File {path: p})
		RETURN f.path AS path, f.hash AS hash, f.last_indexed AS last_indexed
		LIMIT $limit
	`, map[string]interface{}{
		"path":  path,
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}

	var files []File
	for result.Next(ctx) {
		record := result.Record()
		files = append(files, File{
			Path:        getString(record, "path"),
			Hash:        getString(record, "hash"),
			LastIndexed: time.Unix(getInt64(record, "last_indexed"), 0),
		})
	}

	return files, nil
}

// GetAllFileHashes returns every tracked file's recorded hash, for
// diagnostics comparing graph state against the manifest.
func (s *Neo4jStore) GetAllFileHashes(ctx context.Context) (map[string]string, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `MATCH (f:File) RETURN f.path AS path, f.hash AS hash`, nil)
	if err != nil {
		return nil, err
	}

	hashes := make(map[string]string)
	for result.Next(ctx) {
		record := result.Record()
		path := getString(record, "path")
		hash := getString(record, "hash")
		if path != "" && hash != "" {
			hashes[path] = hash
		}
	}

	return hashes, nil
}

func getString(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

func getInt64(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return i
	}
	return 0
}
