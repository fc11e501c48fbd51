package repolayout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphy/qs/internal/qserr"
)

func TestDiscoverFindsAncestorStateDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, StateDirName), 0o755))

	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := Discover(nested)
	require.NoError(t, err)

	wantRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, found)
}

func TestDiscoverNotInRepo(t *testing.T) {
	root := t.TempDir()

	_, err := Discover(root)
	require.Error(t, err)
	assert.True(t, qserr.Is(err, qserr.NotInRepo))
}

func TestInitFailsIfAlreadyInitialized(t *testing.T) {
	root := t.TempDir()

	_, err := Init(root)
	require.NoError(t, err)

	_, err = Init(root)
	require.Error(t, err)
	assert.True(t, qserr.Is(err, qserr.AlreadyInitialized))
}

func TestPathsFor(t *testing.T) {
	paths := PathsFor("/repo")
	assert.Equal(t, "/repo/.qs", paths.StateDir)
	assert.Equal(t, "/repo/.qs/config.json", paths.Config)
	assert.Equal(t, "/repo/.qs/files.json", paths.Manifest)
	assert.Equal(t, "/repo/.qs/shard", paths.ShardDir)
}
