package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ai4socialgood/orgnet/internal/cluster"
	"github.com/ai4socialgood/orgnet/internal/config"
	"github.com/ai4socialgood/orgnet/internal/dashboard"
	"github.com/ai4socialgood/orgnet/internal/graph"
	"github.com/ai4socialgood/orgnet/internal/storage"
)

func writeProject(t *testing.T, nodes []graph.Node, edges []graph.Edge, semantic string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	orgDir := filepath.Join(dir, "data", "demo")
	if err := os.MkdirAll(orgDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := storage.WriteNodes(filepath.Join(orgDir, "nodes.jsonl"), nodes); err != nil {
		t.Fatal(err)
	}
	if err := storage.WriteEdges(filepath.Join(orgDir, "edges.jsonl"), edges); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(orgDir, "semantic.json"), []byte(semantic), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Orgs = []config.OrgConfig{{
		Slug:     "demo",
		Name:     "Demo",
		Handle:   "demo",
		Nodes:    "demo/nodes.jsonl",
		Edges:    "demo/edges.jsonl",
		Semantic: "demo/semantic.json",
	}}
	cfg.SetRoot(dir)
	return cfg
}

func TestCheckOrg(t *testing.T) {
	cfg := writeProject(t,
		[]graph.Node{{ID: "demo"}, {ID: "a"}},
		[]graph.Edge{
			{Source: "demo", Target: "a"},
			{Source: "Demo", Target: "a"},
			{Source: "a", Target: "a"},
			{Source: "a", Target: "ghost"},
		},
		`{"a": 0, "stranger": 1}`,
	)

	summary, issues, err := checkOrg(cfg, cfg.Orgs[0])
	if err != nil {
		t.Fatalf("checkOrg failed: %v", err)
	}
	if summary.Nodes != 3 || summary.Edges != 2 {
		t.Errorf("summary = %+v, want 3 nodes 2 edges", summary)
	}

	counts := make(map[string]int)
	for _, issue := range issues {
		if issue.Org != "demo" {
			t.Errorf("issue without org: %+v", issue)
		}
		counts[issue.Type]++
	}
	want := map[string]int{
		"orphaned_edge":          1,
		"duplicate_edge":         1,
		"self_loop":              1,
		"unknown_cluster_member": 1,
	}
	for typ, n := range want {
		if counts[typ] != n {
			t.Errorf("%s issues = %d, want %d (all: %v)", typ, counts[typ], n, counts)
		}
	}
	if counts["missing_root"] != 0 {
		t.Error("root is present but reported missing")
	}
}

func TestCheckOrg_MissingRoot(t *testing.T) {
	cfg := writeProject(t, []graph.Node{{ID: "a"}}, nil, `{}`)

	_, issues, err := checkOrg(cfg, cfg.Orgs[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 1 || issues[0].Type != "missing_root" || issues[0].ID != "demo" {
		t.Errorf("issues = %+v", issues)
	}
}

func TestRebuildOrg(t *testing.T) {
	cfg := writeProject(t,
		[]graph.Node{{ID: "demo"}, {ID: "a"}},
		[]graph.Edge{{Source: "demo", Target: "a"}, {Source: "b", Target: "demo"}},
		`{"a": 0, "b": 1}`,
	)
	cfg.Orgs[0].Structural = "demo/missing.csv"

	db, err := storage.OpenDB(filepath.Join(t.TempDir(), "orgnet.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	r, err := rebuildOrg(cfg, db, cfg.Orgs[0])
	if err != nil {
		t.Fatalf("rebuildOrg failed: %v", err)
	}
	want := RebuildOrgResult{Org: "demo", Nodes: 3, Edges: 2, Structural: 0, Semantic: 2}
	if r != want {
		t.Errorf("rebuildOrg() = %+v, want %+v", r, want)
	}

	counts, err := db.Counts("demo")
	if err != nil {
		t.Fatal(err)
	}
	if counts.Semantic != 2 || counts.Nodes != 3 {
		t.Errorf("cache counts = %+v", counts)
	}
}

func TestClusterCounts(t *testing.T) {
	cfg := writeProject(t,
		[]graph.Node{{ID: "demo"}},
		[]graph.Edge{{Source: "demo", Target: "a"}, {Source: "a", Target: "b"}},
		`{"a": 0, "b": 0, "far": 1}`,
	)
	catalog, err := dashboard.Load(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	d, err := catalog.Get("demo")
	if err != nil {
		t.Fatal(err)
	}

	got := clusterCounts(d, dashboard.ViewSemantic)
	want := []ClusterCount{
		{Cluster: 0, Assigned: 2, Neighborhood: 2},
		{Cluster: 1, Assigned: 1, Neighborhood: 0},
	}
	if fmt.Sprint(got.Clusters) != fmt.Sprint(want) {
		t.Errorf("Clusters = %+v, want %+v", got.Clusters, want)
	}
	if got.Unclustered != 1 {
		t.Errorf("Unclustered = %d, want 1 (the root)", got.Unclustered)
	}

	if got := clusterCounts(d, dashboard.ViewStructural); len(got.Clusters) != 0 || got.Unclustered != 3 {
		t.Errorf("structural counts = %+v", got)
	}
	if d.Assignment(dashboard.ViewStructural).Source != cluster.SourceStructural {
		t.Error("empty structural assignment has wrong source")
	}
}

func TestCheckCache(t *testing.T) {
	cfg := writeProject(t, []graph.Node{{ID: "demo"}}, []graph.Edge{{Source: "demo", Target: "a"}}, `{}`)
	oc := cfg.Orgs[0]

	db, err := storage.OpenDB(filepath.Join(t.TempDir(), "orgnet.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if issue, err := checkCache(cfg, db, oc); err != nil || issue != nil {
		t.Errorf("uncached org: issue=%v err=%v", issue, err)
	}

	tests := []struct {
		name string
		edit func() error
	}{
		{"edited edges", func() error {
			return storage.WriteEdges(cfg.ResolveData(oc.Edges), nil)
		}},
		{"edited semantic clusters", func() error {
			return os.WriteFile(cfg.ResolveData(oc.Semantic), []byte(`{"a": 3}`), 0644)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := rebuildOrg(cfg, db, oc); err != nil {
				t.Fatal(err)
			}
			if issue, err := checkCache(cfg, db, oc); err != nil || issue != nil {
				t.Fatalf("fresh cache: issue=%v err=%v", issue, err)
			}

			if err := tt.edit(); err != nil {
				t.Fatal(err)
			}
			issue, err := checkCache(cfg, db, oc)
			if err != nil {
				t.Fatal(err)
			}
			if issue == nil || issue.Type != "stale_cache" {
				t.Errorf("issue=%v, want stale_cache", issue)
			}
		})
	}
}

func TestSyncTimes(t *testing.T) {
	cfg := writeProject(t, []graph.Node{{ID: "demo"}}, []graph.Edge{{Source: "demo", Target: "a"}}, `{}`)

	synced, err := syncTimes(cfg)
	if err != nil || len(synced) != 0 {
		t.Fatalf("no cache: syncTimes() = %v, %v", synced, err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.CachePath()), 0755); err != nil {
		t.Fatal(err)
	}
	db, err := storage.OpenDB(cfg.CachePath())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rebuildOrg(cfg, db, cfg.Orgs[0]); err != nil {
		t.Fatal(err)
	}
	db.Close()

	synced, err = syncTimes(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if ts, ok := synced["demo"]; !ok || ts.IsZero() {
		t.Errorf("syncTimes() = %v, want a time for demo", synced)
	}
}
