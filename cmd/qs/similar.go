package main

import (
	"context"

	"github.com/randalmurphy/qs/internal/query"
	"github.com/spf13/cobra"
)

var similarLimit int

var similarCmd = &cobra.Command{
	Use:   "similar FILE",
	Short: "Find files nearest to FILE by vector similarity",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimilar,
}

func init() {
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 10, "maximum results to return")
	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
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
	if graphStore != nil {
		defer graphStore.Close(cmd.Context())
	}
	queryCache := newQueryCache(gcfg)
	metricsLogger := newMetricsLogger()
	if metricsLogger != nil {
		defer metricsLogger.Close()
	}

	engine := query.New(r.paths.Manifest, r.cfg.Model, embedder, vecStore, graphStore, queryCache, metricsLogger, nil)

	results, err := engine.Similar(context.Background(), filePath, similarLimit)
	if err != nil {
		return err
	}

	printResults(results, 0)
	return nil
}
