package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/randalmurphy/qs/internal/query"
	"github.com/spf13/cobra"
)

var (
	searchLimit   int
	searchContext int
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Search the index by natural-language query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum results to return")
	searchCmd.Flags().IntVarP(&searchContext, "context", "C", 2, "lines of context around each result")
	rootCmd.AddCommand(searchCmd)

	rootCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum results to return")
	rootCmd.Flags().IntVarP(&searchContext, "context", "C", 2, "lines of context around each result")
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runSearch(cmd, args)
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	queryText := strings.Join(args, " ")

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

	results, err := engine.Search(context.Background(), queryText, searchLimit)
	if err != nil {
		return err
	}

	printResults(results, searchContext)
	return nil
}

func printResults(results []query.Result, ctxLines int) {
	for i, res := range results {
		fmt.Printf("%d. %s:%d-%d (score %.4f)\n", i+1, res.Payload.Path, res.Payload.StartLine, res.Payload.EndLine, res.Score)
		printSnippet(res.Payload.Text, ctxLines)
		fmt.Println()
	}
}

// printSnippet prints a chunk's text, trimmed to ctxLines at the head and
// tail when the chunk is long. It never re-reads the file: the stored
// chunk text is the only content the query engine has to show.
func printSnippet(text string, ctxLines int) {
	lines := strings.Split(text, "\n")
	if ctxLines <= 0 || len(lines) <= ctxLines*2 {
		fmt.Println(text)
		return
	}

	for _, l := range lines[:ctxLines] {
		fmt.Println("  " + l)
	}
	fmt.Println("  ...")
	for _, l := range lines[len(lines)-ctxLines:] {
		fmt.Println("  " + l)
	}
}
