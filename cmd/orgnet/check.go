package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/ai4socialgood/orgnet/internal/cluster"
	"github.com/ai4socialgood/orgnet/internal/config"
	"github.com/ai4socialgood/orgnet/internal/dashboard"
	"github.com/ai4socialgood/orgnet/internal/graph"
	"github.com/ai4socialgood/orgnet/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify snapshot integrity",
	Long: `Verify snapshot integrity for every configured organization.

Reports a missing root handle, edges whose endpoints have no node record,
duplicate edges, self-follows, and cluster assignments naming accounts that
are not in the graph. Exits with a data error when the root is missing.`,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status string       `json:"status"`
	Orgs   []OrgCheck   `json:"orgs"`
	Issues []CheckIssue `json:"issues"`
}

// OrgCheck summarizes the snapshot of one organization.
type OrgCheck struct {
	Org   string `json:"org"`
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
}

// CheckIssue represents a single issue found during check.
type CheckIssue struct {
	Org      string `json:"org"`
	Type     string `json:"type"`
	ID       string `json:"id,omitempty"`
	SourceID string `json:"source_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	var db *storage.DB
	if path := cfg.CachePath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			db, err = storage.OpenDB(path)
			if err != nil {
				exitWithError(ExitError, "opening database: %v", err)
			}
			defer db.Close()
		}
	}

	result := CheckResult{Status: "ok", Issues: []CheckIssue{}}
	fatal := false
	for _, oc := range cfg.Orgs {
		summary, issues, err := checkOrg(cfg, oc)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		if db != nil {
			issue, err := checkCache(cfg, db, oc)
			if err != nil {
				exitWithError(ExitError, "%v", err)
			}
			if issue != nil {
				issues = append(issues, *issue)
			}
		}
		result.Orgs = append(result.Orgs, summary)
		result.Issues = append(result.Issues, issues...)
		for _, issue := range issues {
			if issue.Type == "missing_root" {
				fatal = true
			}
		}
	}
	if len(result.Issues) > 0 {
		result.Status = "issues_found"
	}

	if humanOutput {
		for _, o := range result.Orgs {
			outputHuman("%s: %d nodes, %d edges\n", o.Org, o.Nodes, o.Edges)
		}
		if len(result.Issues) == 0 {
			outputHuman("No issues found\n")
		}
		for _, issue := range result.Issues {
			outputHuman("  [%s] %s: %s\n", issue.Org, issue.Type, describeIssue(issue))
		}
	} else {
		outputJSON(result)
	}

	if fatal {
		os.Exit(ExitDataError)
	}
	return nil
}

// checkOrg inspects the snapshot files of one organization. Only unreadable
// files are returned as errors; everything else is an issue.
func checkOrg(cfg *config.Config, oc config.OrgConfig) (OrgCheck, []CheckIssue, error) {
	nodes, err := storage.ReadNodes(cfg.ResolveData(oc.Nodes))
	if err != nil {
		return OrgCheck{}, nil, fmt.Errorf("org %s: %w", oc.Slug, err)
	}
	edges, err := storage.ReadEdges(cfg.ResolveData(oc.Edges))
	if err != nil {
		return OrgCheck{}, nil, fmt.Errorf("org %s: %w", oc.Slug, err)
	}
	g := graph.Build(nodes, edges)
	summary := OrgCheck{Org: oc.Slug, Nodes: g.NodeCount(), Edges: g.EdgeCount()}

	var issues []CheckIssue
	add := func(issue CheckIssue) {
		issue.Org = oc.Slug
		issues = append(issues, issue)
	}

	if !g.HasNode(oc.Handle) {
		add(CheckIssue{Type: "missing_root", ID: graph.NormalizeID(oc.Handle), Reason: graph.ErrRootNotFound.Error()})
	}

	for _, o := range storage.DetectOrphanedEdges(nodes, edges) {
		add(CheckIssue{Type: "orphaned_edge", SourceID: o.Source, TargetID: o.Target, Reason: o.Reason})
	}
	duplicates := storage.FindDuplicateEdges(edges)
	keys := make([]graph.Edge, 0, len(duplicates))
	for key := range duplicates {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Source != keys[j].Source {
			return keys[i].Source < keys[j].Source
		}
		return keys[i].Target < keys[j].Target
	})
	for _, key := range keys {
		add(CheckIssue{Type: "duplicate_edge", SourceID: key.Source, TargetID: key.Target, Reason: fmt.Sprintf("count=%d", duplicates[key])})
	}
	for _, e := range storage.FindSelfLoops(edges) {
		add(CheckIssue{Type: "self_loop", SourceID: e.Source, TargetID: e.Target})
	}

	for _, s := range []struct {
		path, key string
		source    cluster.Source
	}{
		{oc.Structural, oc.StructuralKey, cluster.SourceStructural},
		{oc.Semantic, "", cluster.SourceSemantic},
	} {
		if s.path == "" {
			continue
		}
		a, err := cluster.LoadFile(cfg.ResolveData(s.path), s.key, s.source)
		if err != nil {
			add(CheckIssue{Type: "unreadable_clusters", ID: s.path, Reason: err.Error()})
			continue
		}
		for _, handle := range a.Missing(g) {
			add(CheckIssue{Type: "unknown_cluster_member", ID: handle, Reason: string(s.source)})
		}
	}

	return summary, issues, nil
}

// checkCache reports an organization whose cache entry no longer matches its
// snapshot or cluster files.
func checkCache(cfg *config.Config, db *storage.DB, oc config.OrgConfig) (*CheckIssue, error) {
	cached, err := db.HasOrg(oc.Slug)
	if err != nil || !cached {
		return nil, err
	}
	stale, err := db.NeedsSync(oc.Slug, dashboard.SnapshotFiles(cfg, oc))
	if err != nil || !stale {
		return nil, err
	}
	return &CheckIssue{Org: oc.Slug, Type: "stale_cache", Reason: "run 'orgnet rebuild'"}, nil
}

func describeIssue(issue CheckIssue) string {
	switch {
	case issue.SourceID != "":
		if issue.Reason == "" {
			return fmt.Sprintf("%s -> %s", issue.SourceID, issue.TargetID)
		}
		return fmt.Sprintf("%s -> %s (%s)", issue.SourceID, issue.TargetID, issue.Reason)
	case issue.Reason != "":
		return fmt.Sprintf("%s (%s)", issue.ID, issue.Reason)
	default:
		return issue.ID
	}
}
