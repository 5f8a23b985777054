package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rollup-graphx [command]",
	Short: "Aggregate infrastructure dependency graphs across repositories",
	Long: `rollup-graphx merges per-repository infrastructure scans into a single
unified dependency graph. Configurable matching strategies identify the same
logical resource declared in different repositories, and the merged graph can
be exported as JSON, Cypher, or DOT, or pushed to a Neo4j database.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
