package main

import (
	"fmt"
	"os"

	"github.com/randalmurphy/qs/internal/config"
	"github.com/randalmurphy/qs/internal/repolayout"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a .qs state directory at path (default: current directory)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	paths, err := repolayout.Init(target)
	if err != nil {
		return err
	}

	if err := config.Save(config.Default(), paths.Config); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "initialized %s\n", paths.StateDir)
	return nil
}
