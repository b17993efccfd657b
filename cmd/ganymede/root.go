package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ganymede",
	Short: "Ganymede - metrics registry and exposition engine",
	Long: `Ganymede is the metrics core used by Mercator services: a concurrent,
cardinality-bounded registry of counters, gauges, and histograms with a
Prometheus-compatible text exposition endpoint.

It provides:
  - Lock-free instrument updates on the hot path
  - Per-family and global cardinality ceilings with overflow aggregation
  - Deterministic text exposition with a TTL scrape cache
  - Hot-reloadable limits via configuration file watching`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
