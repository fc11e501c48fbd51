package main

import (
	"context"
	"fmt"
	"os"

	"github.com/randalmurphy/qs/internal/indexer"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index the repository (or a subpath of it)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

// updateCmd is an alias for index with no argument: re-running over the
// whole tree re-indexes only what changed, since the walk diffs every
// file's hash against the manifest regardless of which command invoked it.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Re-index the repository, skipping unchanged files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIndex(cmd, nil)
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(updateCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	subPath := ""
	if len(args) == 1 {
		subPath = args[0]
	}

	r, err := discoverRepo()
	if err != nil {
		return err
	}

	gcfg, err := loadGlobalConfig()
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(r.cfg)
	if err != nil {
		return err
	}

	vecStore, err := newVectorStore(gcfg)
	if err != nil {
		return err
	}
	defer vecStore.Close()

	idx := indexer.NewIndexer(r.paths.Root, r.cfg, embedder, vecStore)

	if graphStore, err := newGraphStore(gcfg); err == nil && graphStore != nil {
		defer graphStore.Close(cmd.Context())
		idx.SetGraphStore(graphStore)
	}

	if metricsLogger := newMetricsLogger(); metricsLogger != nil {
		defer metricsLogger.Close()
		idx.SetMetricsLogger(metricsLogger)
	}

	idx.SetProgressCallback(func(e indexer.ProgressEvent) {
		switch e.Kind {
		case indexer.ProgressScanning:
			fmt.Fprintf(os.Stderr, "\rscanning... %d files", e.Count)
		case indexer.ProgressIndexing:
			fmt.Fprintf(os.Stderr, "\rindexing %d/%d: %s", e.Current, e.Total, e.Path)
		}
	})

	stats, err := idx.Index(context.Background(), subPath)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	fmt.Printf("scanned %d, indexed %d, skipped %d, unchanged %d, chunks %d, took %s\n",
		stats.FilesScanned, stats.FilesIndexed, stats.FilesSkipped, stats.FilesUnchanged,
		stats.ChunksCreated, stats.Duration.Round(1e6))
	return nil
}
