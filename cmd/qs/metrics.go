package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/randalmurphy/qs/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	metricsSince       time.Duration
	metricsZeroResults bool
	metricsJSON        bool
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Summarize the search metrics log",
	Args:  cobra.NoArgs,
	RunE:  runMetrics,
}

func init() {
	metricsCmd.Flags().DurationVar(&metricsSince, "since", 24*time.Hour, "how far back to summarize")
	metricsCmd.Flags().BoolVar(&metricsZeroResults, "zero-results", false, "list queries that returned no results")
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(metricsCmd)
}

func metricsLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "qs", "metrics.jsonl"), nil
}

func runMetrics(cmd *cobra.Command, args []string) error {
	path, err := metricsLogPath()
	if err != nil {
		return err
	}

	analyzer := metrics.NewAnalyzer(path)

	if metricsZeroResults {
		queries, err := analyzer.GetZeroResultQueries(metricsSince)
		if err != nil {
			return err
		}
		return printMetrics(queries)
	}

	summary, err := analyzer.Analyze(metricsSince)
	if err != nil {
		return err
	}
	return printMetrics(summary)
}

func printMetrics(v interface{}) error {
	if metricsJSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	switch val := v.(type) {
	case *metrics.Summary:
		fmt.Printf("period:        %s\n", val.Period)
		fmt.Printf("searches:      %d\n", val.TotalSearches)
		fmt.Printf("avg latency:   %dms\n", val.AvgLatencyMs)
		fmt.Printf("zero results:  %d\n", val.ZeroResultCount)
		fmt.Printf("cache hits:    %d\n", val.CacheHits)
		for i, q := range val.TopQueries {
			fmt.Printf("  %d. %q (%d)\n", i+1, q.Query, q.Count)
		}
	case []metrics.QueryCount:
		for i, q := range val {
			fmt.Printf("%d. %q (%d)\n", i+1, q.Query, q.Count)
		}
	}
	return nil
}
