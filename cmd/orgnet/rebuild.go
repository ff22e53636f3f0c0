package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ai4socialgood/orgnet/internal/cluster"
	"github.com/ai4socialgood/orgnet/internal/config"
	"github.com/ai4socialgood/orgnet/internal/dashboard"
	"github.com/ai4socialgood/orgnet/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the SQLite cache from snapshot files",
	Long: `Rebuild the SQLite cache from the JSONL snapshots and cluster files.

Once an organization is in the cache, serve and render load it from there
instead of parsing the snapshots. Run this after replacing snapshot files.`,
	RunE: runRebuild,
}

// RebuildOrgResult reports what was cached for one organization.
type RebuildOrgResult struct {
	Org        string `json:"org"`
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
	Structural int    `json:"structural"`
	Semantic   int    `json:"semantic"`
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status string             `json:"status"`
	Path   string             `json:"path"`
	Orgs   []RebuildOrgResult `json:"orgs"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	dbPath := cfg.CachePath()
	if dbPath == "" {
		exitWithError(ExitConfigError, "cache_db is not configured")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	db, err := storage.OpenDB(dbPath)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	defer db.Close()

	result := RebuildResult{Status: "rebuilt", Path: dbPath}
	for _, oc := range cfg.Orgs {
		r, err := rebuildOrg(cfg, db, oc)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		result.Orgs = append(result.Orgs, r)
	}

	if humanOutput {
		outputHuman("Rebuilt %s\n", dbPath)
		for _, r := range result.Orgs {
			outputHuman("  %-12s %6d nodes %7d edges %6d structural %6d semantic\n",
				r.Org, r.Nodes, r.Edges, r.Structural, r.Semantic)
		}
		return nil
	}
	return outputJSON(result)
}

// rebuildOrg reads the cluster files of one organization and replaces its
// cache entry. A missing cluster file is cached as an empty assignment.
func rebuildOrg(cfg *config.Config, db *storage.DB, oc config.OrgConfig) (RebuildOrgResult, error) {
	snap := dashboard.SnapshotFiles(cfg, oc)

	assignments := make(map[cluster.Source]*cluster.Assignment, 2)
	for _, s := range []struct {
		path   string
		key    string
		source cluster.Source
	}{
		{snap.Structural, oc.StructuralKey, cluster.SourceStructural},
		{snap.Semantic, "", cluster.SourceSemantic},
	} {
		if s.path == "" {
			continue
		}
		a, err := cluster.LoadFile(s.path, s.key, s.source)
		switch {
		case err == nil:
			assignments[s.source] = a
		case errors.Is(err, cluster.ErrAssignmentNotFound):
			fmt.Fprintf(os.Stderr, "warning: org %s: %v\n", oc.Slug, err)
		default:
			return RebuildOrgResult{Org: oc.Slug}, fmt.Errorf("org %s: %w", oc.Slug, err)
		}
	}

	counts, err := db.RebuildOrg(oc.Slug, snap, assignments[cluster.SourceStructural], assignments[cluster.SourceSemantic])
	if err != nil {
		return RebuildOrgResult{Org: oc.Slug}, fmt.Errorf("org %s: rebuilding cache: %w", oc.Slug, err)
	}
	return RebuildOrgResult{
		Org:        oc.Slug,
		Nodes:      counts.Nodes,
		Edges:      counts.Edges,
		Structural: counts.Structural,
		Semantic:   counts.Semantic,
	}, nil
}
