package runner

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"rollup-graphx/internal/config"
	"rollup-graphx/internal/formatter"
	"rollup-graphx/internal/graph"
	"rollup-graphx/internal/matcher"
	"rollup-graphx/internal/neo4j"
	"rollup-graphx/internal/parser"
	"rollup-graphx/internal/rollup"
)

// Run executes the main logic of rollup-graphx: load repository scans,
// aggregate them into a unified graph, then emit the result in the
// configured format or push it to Neo4j.
func Run(cfg *config.Config) error {
	if len(cfg.ScanFiles) == 0 {
		return fmt.Errorf("no scan files provided: pass them as arguments or set scan_files in %s.%s", config.ConfigFileName, config.ConfigFileType)
	}

	if cfg.Update {
		// Validate Neo4j configuration early, before doing any work
		if err := validateNeo4jConfig(&cfg.Neo4j); err != nil {
			return err
		}
	}

	log.Printf("Loading %d scan file(s)...", len(cfg.ScanFiles))
	scans, err := parser.LoadScans(cfg.ScanFiles)
	if err != nil {
		return fmt.Errorf("failed to load scans: %w", err)
	}

	log.Println("Aggregating repository scans...")
	result, err := aggregate(context.Background(), cfg, scans)
	if err != nil {
		return err
	}

	if stats := result.Graph.Stats; stats != nil {
		log.Printf("Aggregation complete: %d merged nodes, %d edges, %d merge groups, %d matches accepted.",
			stats.TotalNodes, stats.TotalEdges, stats.MergedGroups, len(result.Matches))
	}

	if cfg.Update {
		return updateNeo4jDatabase(result.Graph, &cfg.Neo4j)
	}

	return emit(result.Graph, cfg.Format)
}

// aggregate builds the matcher set from configuration and runs the executor.
func aggregate(ctx context.Context, cfg *config.Config, scans []graph.RepositoryScan) (*rollup.Result, error) {
	factory := matcher.NewFactory()
	executor := rollup.NewExecutor(factory, rollup.Options{
		Concurrency: cfg.Concurrency,
	})

	result, err := executor.Execute(ctx, scans, cfg.Matchers)
	if err != nil {
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}
	return result, nil
}

// emit writes the unified graph to stdout in the requested format.
func emit(g *graph.UnifiedGraph, format string) error {
	var out string
	var err error

	switch strings.ToLower(format) {
	case "", "json":
		out, err = formatter.ToJSON(g)
	case "cypher":
		out, err = formatter.ToCypher(g)
	case "dot":
		out, err = formatter.ToDOT(g)
	default:
		return fmt.Errorf("unknown output format %q (expected json, cypher, or dot)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to format graph: %w", err)
	}

	fmt.Fprintln(os.Stdout, out)
	return nil
}

func updateNeo4jDatabase(g *graph.UnifiedGraph, neo4jCfg *config.Neo4jConfig) error {
	log.Printf("Connecting to Neo4j at %s...", neo4jCfg.URI)
	ctx := context.Background()

	client, err := neo4j.NewClient(neo4jCfg.URI, neo4jCfg.User, neo4jCfg.Password)
	if err != nil {
		return fmt.Errorf("failed to create neo4j client: %w", err)
	}
	defer client.Close(ctx)

	if err := client.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	log.Println("Updating Neo4j database...")
	if err := client.UpdateGraph(ctx, g); err != nil {
		return fmt.Errorf("failed to update neo4j graph: %w", err)
	}

	log.Println("Successfully updated Neo4j database.")
	return nil
}

func validateNeo4jConfig(cfg *config.Neo4jConfig) error {
	if cfg.URI == "" || cfg.User == "" || cfg.Password == "" {
		return fmt.Errorf("neo4j-uri, neo4j-user, and neo4j-pass are required when using --update. Please configure them in %s.%s or pass them as flags", config.ConfigFileName, config.ConfigFileType)
	}
	return nil
}
