// Package parser loads repository scan files: the typed node/edge
// collections produced by the external IaC scanners (Terraform, Helm,
// Terragrunt, ArgoCD). This engine never parses raw infrastructure sources;
// it consumes the scanners' JSON envelope.
package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"rollup-graphx/internal/graph"
)

// ParseScan unmarshals one repository scan from a byte slice and validates
// its envelope.
func ParseScan(data []byte) (*graph.RepositoryScan, error) {
	var scan graph.RepositoryScan
	if err := json.Unmarshal(data, &scan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scan JSON: %w", err)
	}
	if err := validate(&scan); err != nil {
		return nil, err
	}
	return &scan, nil
}

// LoadScan reads and parses a scan file.
func LoadScan(path string) (*graph.RepositoryScan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan file %s: %w", path, err)
	}
	scan, err := ParseScan(data)
	if err != nil {
		return nil, fmt.Errorf("invalid scan file %s: %w", path, err)
	}
	return scan, nil
}

// LoadScans reads a set of scan files. Repository ids must be unique across
// the set: two scans of the same repository cannot take part in one
// aggregation run.
func LoadScans(paths []string) ([]graph.RepositoryScan, error) {
	seen := make(map[string]string, len(paths))
	scans := make([]graph.RepositoryScan, 0, len(paths))

	for _, path := range paths {
		scan, err := LoadScan(path)
		if err != nil {
			return nil, err
		}
		if previous, ok := seen[scan.RepositoryID]; ok {
			return nil, fmt.Errorf("repository %q appears in both %s and %s", scan.RepositoryID, previous, path)
		}
		seen[scan.RepositoryID] = path
		scans = append(scans, *scan)
	}

	return scans, nil
}

func validate(scan *graph.RepositoryScan) error {
	if scan.RepositoryID == "" {
		return fmt.Errorf("scan is missing repository_id")
	}
	if scan.ScanID == "" {
		return fmt.Errorf("scan is missing scan_id")
	}

	ids := make(map[string]bool, len(scan.Nodes))
	for _, node := range scan.Nodes {
		if node.ID == "" {
			return fmt.Errorf("scan %s contains a node without an id", scan.ScanID)
		}
		if ids[node.ID] {
			return fmt.Errorf("scan %s contains duplicate node id %q", scan.ScanID, node.ID)
		}
		ids[node.ID] = true
	}

	for _, edge := range scan.Edges {
		if !ids[edge.From] || !ids[edge.To] {
			return fmt.Errorf("scan %s has edge %s -> %s referencing unknown nodes", scan.ScanID, edge.From, edge.To)
		}
	}

	return nil
}
