package cmd

import (
	"rollup-graphx/internal/config"
	"rollup-graphx/internal/runner"

	"github.com/spf13/cobra"
)

var rollupCmd = &cobra.Command{
	Use:   "rollup [scan_file...]",
	Short: "Merge repository scans into a unified dependency graph",
	Long: `rollup-graphx rollup loads one or more repository scan files, runs the
configured matching strategies to identify resources shared across
repositories, and merges them into a unified graph.

Matching strategies and their priorities are configured in
.rollup-graphx.yaml; sensible defaults apply when no matchers are configured.

Examples:
  # Aggregate two repositories and output JSON
  rollup-graphx rollup repo1.json repo2.json > graph.json

  # Output the unified graph as Cypher statements
  rollup-graphx rollup --format=cypher repo1.json repo2.json

  # Push the unified graph to a Neo4j database
  rollup-graphx rollup --update repo1.json repo2.json`,
	RunE: runRollup,
}

func runRollup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadAndMerge(cmd, args)
	if err != nil {
		return err
	}

	return runner.Run(cfg)
}

func init() {
	rootCmd.AddCommand(rollupCmd)
	registerRollupFlags(rollupCmd)
}

func registerRollupFlags(cmd *cobra.Command) {
	// Output format flags
	cmd.Flags().String("format", "json", "Output format for the graph (json, cypher, dot)")
	cmd.Flags().Int("concurrency", 0, "Number of parallel comparison workers (0 = default)")

	// Neo4j integration flags
	cmd.Flags().Bool("update", false, "Update a Neo4j database with the graph")
	cmd.Flags().String("neo4j-uri", "bolt://localhost:7687", "URI for the Neo4j database")
	cmd.Flags().String("neo4j-user", "neo4j", "Username for the Neo4j database")
	cmd.Flags().String("neo4j-pass", "", "Password for the Neo4j database")
}
