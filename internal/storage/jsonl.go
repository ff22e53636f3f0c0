// Package storage handles graph snapshots in JSONL and the SQLite query cache.
package storage

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ai4socialgood/orgnet/internal/graph"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
// Long bios are the usual reason for big lines.
const MaxJSONLLineCapacity = 1024 * 1024

// readJSONL decodes every non-empty line of path into a T.
// A missing file yields an empty slice.
func readJSONL[T any](path, what string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s file: %w", what, err)
	}
	defer f.Close()

	var out []T
	scanner := bufio.NewScanner(f)

	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var v T
		if err := json.Unmarshal(line, &v); err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", what, lineNum, err)
		}
		out = append(out, v)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s file: %w", what, err)
	}

	return out, nil
}

// writeJSONL writes one JSON document per line to path, replacing existing content.
func writeJSONL[T any](path, what string, items []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s file: %w", what, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encoding %s %d: %w", what, i, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing %s %d: %w", what, i, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	return w.Flush()
}

// ReadNodes reads node records ({"id", "bio"}) from a JSONL file.
func ReadNodes(path string) ([]graph.Node, error) {
	return readJSONL[graph.Node](path, "nodes")
}

// ReadEdges reads follow edges ({"source", "target"}) from a JSONL file.
func ReadEdges(path string) ([]graph.Edge, error) {
	return readJSONL[graph.Edge](path, "edges")
}

// WriteNodes writes node records to a JSONL file.
func WriteNodes(path string, nodes []graph.Node) error {
	return writeJSONL(path, "nodes", nodes)
}

// WriteEdges writes follow edges to a JSONL file.
func WriteEdges(path string, edges []graph.Edge) error {
	return writeJSONL(path, "edges", edges)
}

// LoadGraphJSONL builds a graph directly from the two snapshot files.
func LoadGraphJSONL(nodesPath, edgesPath string) (*graph.Graph, error) {
	nodes, err := ReadNodes(nodesPath)
	if err != nil {
		return nil, err
	}
	edges, err := ReadEdges(edgesPath)
	if err != nil {
		return nil, err
	}
	return graph.Build(nodes, edges), nil
}

// OrphanedEdge is an edge whose endpoint has no node record.
type OrphanedEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Reason string `json:"reason"` // "missing_source", "missing_target", or "missing_both"
}

// DetectOrphanedEdges finds edges that reference handles without a node record.
func DetectOrphanedEdges(nodes []graph.Node, edges []graph.Edge) []OrphanedEdge {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[graph.NormalizeID(n.ID)] = true
	}

	var orphaned []OrphanedEdge
	for _, e := range edges {
		sourceOK := known[graph.NormalizeID(e.Source)]
		targetOK := known[graph.NormalizeID(e.Target)]
		if sourceOK && targetOK {
			continue
		}

		o := OrphanedEdge{Source: e.Source, Target: e.Target}
		switch {
		case !sourceOK && !targetOK:
			o.Reason = "missing_both"
		case !sourceOK:
			o.Reason = "missing_source"
		default:
			o.Reason = "missing_target"
		}
		orphaned = append(orphaned, o)
	}
	return orphaned
}

// FindDuplicateEdges counts edges that appear more than once after handle
// normalization. Only duplicated edges are returned.
func FindDuplicateEdges(edges []graph.Edge) map[graph.Edge]int {
	counts := make(map[graph.Edge]int)
	for _, e := range edges {
		counts[graph.Edge{Source: graph.NormalizeID(e.Source), Target: graph.NormalizeID(e.Target)}]++
	}

	duplicates := make(map[graph.Edge]int)
	for key, count := range counts {
		if count > 1 {
			duplicates[key] = count
		}
	}
	return duplicates
}

// FindSelfLoops returns the edges whose source and target are the same account.
func FindSelfLoops(edges []graph.Edge) []graph.Edge {
	var loops []graph.Edge
	for _, e := range edges {
		if graph.NormalizeID(e.Source) == graph.NormalizeID(e.Target) {
			loops = append(loops, e)
		}
	}
	return loops
}

// ComputeSnapshotHash returns a SHA256 over the contents of the given files,
// in order. A missing file or an empty path hashes as empty.
func ComputeSnapshotHash(paths ...string) (string, error) {
	h := sha256.New()
	for _, path := range paths {
		if err := hashFile(h, path); err != nil {
			return "", err
		}
		// Separator so that moving bytes between files changes the hash.
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(w io.Writer, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	return nil
}
