package parser

import (
	"os"
	"path/filepath"
	"testing"

	"rollup-graphx/internal/graph"
)

const sampleScan = `{
  "repository_id": "platform-network",
  "scan_id": "scan-0042",
  "nodes": [
    {
      "id": "aws_vpc.main",
      "type": "terraform_resource",
      "name": "main",
      "source_file": "vpc.tf",
      "source_line": 12,
      "metadata": {"resource_type": "aws_vpc", "cidr_block": "10.0.0.0/16"}
    },
    {
      "id": "aws_subnet.public",
      "type": "terraform_resource",
      "name": "public",
      "metadata": {"resource_type": "aws_subnet"}
    }
  ],
  "edges": [
    {"from": "aws_subnet.public", "to": "aws_vpc.main", "relation": "DEPENDS_ON"}
  ]
}`

func TestParseScan(t *testing.T) {
	scan, err := ParseScan([]byte(sampleScan))
	if err != nil {
		t.Fatalf("ParseScan failed: %v", err)
	}

	if scan.RepositoryID != "platform-network" {
		t.Errorf("Expected repository_id 'platform-network', got %q", scan.RepositoryID)
	}
	if len(scan.Nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(scan.Nodes))
	}
	if scan.Nodes[0].Type != graph.NodeTypeTerraformResource {
		t.Errorf("Expected terraform_resource node type, got %q", scan.Nodes[0].Type)
	}
	if scan.Nodes[0].Metadata["resource_type"] != "aws_vpc" {
		t.Errorf("Expected resource_type metadata 'aws_vpc', got %v", scan.Nodes[0].Metadata["resource_type"])
	}
	if len(scan.Edges) != 1 {
		t.Fatalf("Expected 1 edge, got %d", len(scan.Edges))
	}
}

func TestParseScanValidation(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"missing repository id", `{"scan_id": "s", "nodes": []}`},
		{"missing scan id", `{"repository_id": "r", "nodes": []}`},
		{"duplicate node id", `{"repository_id": "r", "scan_id": "s",
			"nodes": [{"id": "a", "type": "terraform_resource"}, {"id": "a", "type": "terraform_resource"}]}`},
		{"dangling edge", `{"repository_id": "r", "scan_id": "s",
			"nodes": [{"id": "a", "type": "terraform_resource"}],
			"edges": [{"from": "a", "to": "ghost", "relation": "DEPENDS_ON"}]}`},
		{"malformed json", `{`},
	}

	for _, tc := range cases {
		if _, err := ParseScan([]byte(tc.data)); err == nil {
			t.Errorf("%s: expected an error, got none", tc.name)
		}
	}
}

func TestLoadScansRejectsDuplicateRepositories(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "one.json")
	second := filepath.Join(dir, "two.json")
	for _, path := range []string{first, second} {
		if err := os.WriteFile(path, []byte(sampleScan), 0644); err != nil {
			t.Fatalf("Failed to write test file: %v", err)
		}
	}

	if _, err := LoadScans([]string{first, second}); err == nil {
		t.Error("Expected duplicate repository error, got none")
	}

	scans, err := LoadScans([]string{first})
	if err != nil {
		t.Fatalf("LoadScans failed: %v", err)
	}
	if len(scans) != 1 {
		t.Errorf("Expected 1 scan, got %d", len(scans))
	}
}
