// Package repolayout locates and creates the .qs state directory that
// marks a qs repository root, and resolves the paths of its contents.
package repolayout

import (
	"os"
	"path/filepath"

	"github.com/randalmurphy/qs/internal/qserr"
)

// StateDirName is the name of the hidden state directory, analogous to .git.
const StateDirName = ".qs"

// Paths holds the resolved locations of a repository's state.
type Paths struct {
	Root     string // repository root (parent of the state directory)
	StateDir string // <root>/.qs
	Config   string // <root>/.qs/config.json
	Manifest string // <root>/.qs/files.json
	ShardDir string // <root>/.qs/shard
}

// Discover canonicalizes start and walks parents until a directory
// containing the state directory is found. Returns qserr.NotInRepo if the
// filesystem root is reached without finding one.
func Discover(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", qserr.Wrap(qserr.Io, err, "resolve start path %s", start)
	}
	current, err := filepath.EvalSymlinks(abs)
	if err != nil {
		current = abs
	}

	for {
		candidate := filepath.Join(current, StateDirName)
		info, err := os.Stat(candidate)
		if err == nil && info.IsDir() {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", qserr.New(qserr.NotInRepo, "no %s directory found above %s", StateDirName, start)
		}
		current = parent
	}
}

// PathsFor resolves the state directory's contents relative to root.
// It does not require any of the paths to exist.
func PathsFor(root string) Paths {
	stateDir := filepath.Join(root, StateDirName)
	return Paths{
		Root:     root,
		StateDir: stateDir,
		Config:   filepath.Join(stateDir, "config.json"),
		Manifest: filepath.Join(stateDir, "files.json"),
		ShardDir: filepath.Join(stateDir, "shard"),
	}
}

// Init creates the state directory under cwd. It fails with
// qserr.AlreadyInitialized if the directory already exists.
func Init(cwd string) (Paths, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return Paths{}, qserr.Wrap(qserr.Io, err, "resolve cwd %s", cwd)
	}

	paths := PathsFor(abs)
	if _, err := os.Stat(paths.StateDir); err == nil {
		return Paths{}, qserr.New(qserr.AlreadyInitialized, "%s already exists", paths.StateDir)
	}

	if err := os.MkdirAll(paths.StateDir, 0o755); err != nil {
		return Paths{}, qserr.Wrap(qserr.Io, err, "create %s", paths.StateDir)
	}

	return paths, nil
}
