package graph

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeo4jStore_Integration(t *testing.T) {
	neo4jURL := os.Getenv("NEO4J_URL")
	if neo4jURL == "" {
		t.Skip("NEO4J_URL not set, skipping integration test")
	}

	username := os.Getenv("NEO4J_USER")
	if username == "" {
		username = "neo4j"
	}
	password := os.Getenv("NEO4J_PASSWORD")
	if password == "" {
		password = "password"
	}

	ctx := context.Background()

	store, err := NewNeo4jStore(neo4jURL, username, password)
	require.NoError(t, err)
	defer store.Close(ctx)

	require.NoError(t, store.EnsureSchema(ctx))

	t.Run("UpsertFile", func(t *testing.T) {
		err := store.UpsertFile(ctx, File{
			Path:        "core/utils/helpers.py",
			Hash:        "abc123",
			LastIndexed: time.Now(),
		})
		assert.NoError(t, err)
	})

	t.Run("CreateCallRelationship", func(t *testing.T) {
		caller := Symbol{Name: "processData", FilePath: "core/utils/helpers.py", StartLine: 10}
		callee := Symbol{Name: "validateInput", FilePath: "core/utils/helpers.py", StartLine: 30}
		err := store.CreateCallRelationship(ctx, caller, callee)
		assert.NoError(t, err)
	})

	t.Run("CreateExtendsRelationship", func(t *testing.T) {
		child := Symbol{Name: "Derived", FilePath: "core/utils/helpers.py", StartLine: 50}
		parent := Symbol{Name: "Base", FilePath: "core/utils/base.py", StartLine: 1}
		err := store.CreateExtendsRelationship(ctx, child, parent)
		assert.NoError(t, err)
	})

	t.Run("FindRelatedFiles", func(t *testing.T) {
		err := store.UpsertFile(ctx, File{
			Path:        "core/main.py",
			Hash:        "def456",
			LastIndexed: time.Now(),
		})
		require.NoError(t, err)

		err = store.CreateImportRelationship(ctx, "core/main.py", "core/utils/helpers.py")
		require.NoError(t, err)

		related, err := store.FindRelatedFiles(ctx, "core/utils/helpers.py", 10)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, len(related), 1)
	})

	t.Run("GetAllFileHashes", func(t *testing.T) {
		hashes, err := store.GetAllFileHashes(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "abc123", hashes["core/utils/helpers.py"])
	})
}

func TestNeo4jStore_ConnectionFailure(t *testing.T) {
	_, err := NewNeo4jStore("bolt://nonexistent:7687", "user", "pass")
	assert.Error(t, err)
}
