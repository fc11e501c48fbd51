package main

import (
	"context"
	"fmt"

	"github.com/randalmurphy/qs/internal/query"
	"github.com/spf13/cobra"
)

var (
	relatedLimit int
	relatedDepth int
)

// relatedCmd is a supplement to the spec's CLI surface: a pass-through to
// the relationship graph, absent gracefully when no graph is configured.
var relatedCmd = &cobra.Command{
	Use:   "related FILE",
	Short: "Find files connected to FILE by import/call relationships",
	Args:  cobra.ExactArgs(1),
	RunE:  runRelated,
}

func init() {
	relatedCmd.Flags().IntVarP(&relatedLimit, "limit", "n", 10, "maximum results to return")
	relatedCmd.Flags().IntVar(&relatedDepth, "depth", 1, "graph traversal depth (reserved for future multi-hop expansion)")
	rootCmd.AddCommand(relatedCmd)
}

func runRelated(cmd *cobra.Command, args []string) error {
	filePath := args[0]

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

	graphStore, _ := newGraphStore(gcfg)
	if graphStore == nil {
		return fmt.Errorf("no relationship graph configured (set storage.neo4j_url in %s)", globalConfigPath())
	}
	defer graphStore.Close(cmd.Context())

	engine := query.New(r.paths.Manifest, r.cfg.Model, embedder, vecStore, graphStore, nil, nil, nil)

	related, err := engine.Related(context.Background(), filePath, relatedLimit)
	if err != nil {
		return err
	}

	for i, f := range related {
		fmt.Printf("%d. %s (indexed %s)\n", i+1, f.Path, f.LastIndexed.Format("2006-01-02 15:04:05"))
	}
	return nil
}
