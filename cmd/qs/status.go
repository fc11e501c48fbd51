package main

import (
	"context"
	"fmt"

	"github.com/randalmurphy/qs/internal/manifest"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the repository root, config, and index size",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	r, err := discoverRepo()
	if err != nil {
		return err
	}

	gcfg, err := loadGlobalConfig()
	if err != nil {
		return err
	}

	m, err := manifest.Load(r.paths.Manifest)
	if err != nil {
		return err
	}

	var chunkCount uint64
	if vecStore, err := newVectorStore(gcfg); err == nil {
		defer vecStore.Close()
		if n, err := vecStore.Count(context.Background()); err == nil {
			chunkCount = n
		}
	}

	fmt.Printf("root:        %s\n", r.paths.Root)
	fmt.Printf("model:       %s (dimension %d)\n", r.cfg.Model, r.cfg.Dimension)
	fmt.Printf("chunk size:  %d (overlap %d)\n", r.cfg.ChunkSize, r.cfg.ChunkOverlap)
	fmt.Printf("max file:    %d bytes\n", r.cfg.MaxFileSize)
	fmt.Printf("files:       %d\n", len(m.Files))
	fmt.Printf("chunks:      %d\n", chunkCount)
	return nil
}
