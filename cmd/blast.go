package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"rollup-graphx/internal/blast"
	"rollup-graphx/internal/formatter"

	"github.com/spf13/cobra"
)

var blastCmd = &cobra.Command{
	Use:   "blast [graph_file]",
	Short: "Compute the blast radius of resources in a unified graph",
	Long: `rollup-graphx blast loads a unified graph produced by 'rollup-graphx rollup'
and reports the blast radius of one or more seed resources.

For every seed it reports two directions:
  - forward:  everything affected if the seed changes
  - reverse:  everything whose change could affect the seed

Each reached node carries its distance in hops and the shortest dependency
path connecting it to the seed.

Examples:
  # What breaks if the shared VPC changes?
  rollup-graphx blast graph.json --seed merged-vpc-id

  # Limit the analysis to two hops over explicit dependencies
  rollup-graphx blast graph.json --seed merged-vpc-id --max-depth 2 --relation depends_on`,
	Args: cobra.ExactArgs(1),
	RunE: runBlast,
}

func runBlast(cmd *cobra.Command, args []string) error {
	seeds, _ := cmd.Flags().GetStringSlice("seed")
	if len(seeds) == 0 {
		return fmt.Errorf("at least one --seed is required")
	}
	maxDepth, _ := cmd.Flags().GetInt("max-depth")
	relations, _ := cmd.Flags().GetStringSlice("relation")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read graph file: %w", err)
	}

	g, err := formatter.FromJSON(data)
	if err != nil {
		return fmt.Errorf("failed to parse graph file: %w", err)
	}

	report, err := blast.Analyze(g, blast.Query{
		Seeds:     seeds,
		MaxDepth:  maxDepth,
		Relations: relations,
	})
	if err != nil {
		return fmt.Errorf("blast analysis failed: %w", err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	fmt.Println(string(out))
	return nil
}

func init() {
	rootCmd.AddCommand(blastCmd)

	blastCmd.Flags().StringSlice("seed", nil, "Merged node id to analyze (repeatable)")
	blastCmd.Flags().Int("max-depth", 0, "Maximum number of hops to traverse (0 = unbounded)")
	blastCmd.Flags().StringSlice("relation", nil, "Restrict traversal to edges with this relation (repeatable)")
}
