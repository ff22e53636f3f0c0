package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ai4socialgood/orgnet/internal/cluster"
	"github.com/ai4socialgood/orgnet/internal/graph"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_RebuildAndLoadGraph(t *testing.T) {
	db := openTestDB(t)
	g := graph.Build(
		[]graph.Node{{ID: "acar", Bio: "research"}, {ID: "b"}},
		[]graph.Edge{{Source: "acar", Target: "b"}, {Source: "c", Target: "acar"}},
	)

	if err := db.RebuildGraph("acar", g); err != nil {
		t.Fatalf("RebuildGraph failed: %v", err)
	}

	loaded, err := db.LoadGraph("acar")
	if err != nil {
		t.Fatalf("LoadGraph failed: %v", err)
	}
	if !reflect.DeepEqual(loaded.Nodes(), g.Nodes()) {
		t.Errorf("nodes differ: %v vs %v", loaded.Nodes(), g.Nodes())
	}
	if !reflect.DeepEqual(loaded.Edges(), g.Edges()) {
		t.Errorf("edges differ: %v vs %v", loaded.Edges(), g.Edges())
	}

	// Rebuilding replaces rather than appends.
	if err := db.RebuildGraph("acar", graph.Build([]graph.Node{{ID: "only"}}, nil)); err != nil {
		t.Fatal(err)
	}
	counts, err := db.Counts("acar")
	if err != nil {
		t.Fatal(err)
	}
	if counts.Nodes != 1 || counts.Edges != 0 {
		t.Errorf("after rebuild got %+v", counts)
	}
}

func TestDB_LoadGraph_NotCached(t *testing.T) {
	db := openTestDB(t)

	_, err := db.LoadGraph("asf")
	if !errors.Is(err, ErrOrgNotCached) {
		t.Errorf("expected ErrOrgNotCached, got %v", err)
	}
	ok, err := db.HasOrg("asf")
	if err != nil || ok {
		t.Errorf("HasOrg() = %v, %v; want false, nil", ok, err)
	}
}

func TestDB_OrgsAreIsolated(t *testing.T) {
	db := openTestDB(t)
	if err := db.RebuildGraph("one", graph.Build([]graph.Node{{ID: "a"}}, nil)); err != nil {
		t.Fatal(err)
	}
	if err := db.RebuildGraph("two", graph.Build([]graph.Node{{ID: "b"}, {ID: "c"}}, nil)); err != nil {
		t.Fatal(err)
	}

	g, err := db.LoadGraph("one")
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("org one has %d nodes, want 1", g.NodeCount())
	}
}

func TestDB_Clusters(t *testing.T) {
	db := openTestDB(t)

	structural := cluster.FromMap(cluster.SourceStructural, map[string]int{"a": 0, "b": 1})
	semantic := cluster.FromMap(cluster.SourceSemantic, map[string]int{"a": 2})

	if n, err := db.RebuildClusters("autismbc", structural); err != nil || n != 2 {
		t.Fatalf("RebuildClusters(structural) = %d, %v", n, err)
	}
	if n, err := db.RebuildClusters("autismbc", semantic); err != nil || n != 1 {
		t.Fatalf("RebuildClusters(semantic) = %d, %v", n, err)
	}

	loaded, err := db.LoadAssignment("autismbc", cluster.SourceStructural)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded.Members, structural.Members) {
		t.Errorf("structural members = %v, want %v", loaded.Members, structural.Members)
	}
	if loaded.Source != cluster.SourceStructural {
		t.Errorf("Source = %q", loaded.Source)
	}

	loaded, err = db.LoadAssignment("autismbc", cluster.SourceSemantic)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Lookup("a") != 2 || loaded.Lookup("b") != cluster.Unclustered {
		t.Errorf("semantic members = %v", loaded.Members)
	}

	counts, err := db.Counts("autismbc")
	if err != nil {
		t.Fatal(err)
	}
	if counts.Structural != 2 || counts.Semantic != 1 {
		t.Errorf("Counts() = %+v", counts)
	}
}

// writeSnapshot writes a two-node snapshot with a semantic assignment file.
func writeSnapshot(t *testing.T) Snapshot {
	t.Helper()
	dir := t.TempDir()
	snap := Snapshot{
		Nodes:    filepath.Join(dir, "nodes.jsonl"),
		Edges:    filepath.Join(dir, "edges.jsonl"),
		Semantic: filepath.Join(dir, "semantic.json"),
	}
	if err := WriteNodes(snap.Nodes, []graph.Node{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatal(err)
	}
	if err := WriteEdges(snap.Edges, []graph.Edge{{Source: "a", Target: "b"}}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(snap.Semantic, []byte(`{"a": 0}`), 0644); err != nil {
		t.Fatal(err)
	}
	return snap
}

func TestDB_RebuildOrg(t *testing.T) {
	snap := writeSnapshot(t)
	db := openTestDB(t)

	semantic := cluster.FromMap(cluster.SourceSemantic, map[string]int{"a": 0})
	counts, err := db.RebuildOrg("x", snap, nil, semantic)
	if err != nil {
		t.Fatalf("RebuildOrg failed: %v", err)
	}
	want := OrgCounts{Nodes: 2, Edges: 1, Structural: 0, Semantic: 1}
	if counts != want {
		t.Errorf("RebuildOrg() = %+v, want %+v", counts, want)
	}
	if stored, err := db.Counts("x"); err != nil || stored != want {
		t.Errorf("Counts() = %+v, %v, want %+v", stored, err, want)
	}
}

func TestDB_NeedsSync(t *testing.T) {
	snap := writeSnapshot(t)
	db := openTestDB(t)

	if stale, err := db.NeedsSync("x", snap); err != nil || !stale {
		t.Fatalf("uncached org: stale=%v err=%v, want stale", stale, err)
	}
	if ts, err := db.LastSync("x"); err != nil || !ts.IsZero() {
		t.Errorf("LastSync() before rebuild = %v, %v", ts, err)
	}

	if _, err := db.RebuildOrg("x", snap, nil, nil); err != nil {
		t.Fatal(err)
	}
	if stale, err := db.NeedsSync("x", snap); err != nil || stale {
		t.Errorf("fresh cache: stale=%v err=%v", stale, err)
	}
	if ts, err := db.LastSync("x"); err != nil || ts.IsZero() {
		t.Errorf("LastSync() after rebuild = %v, %v", ts, err)
	}

	tests := []struct {
		name string
		edit func() error
	}{
		{"edited edges", func() error {
			return WriteEdges(snap.Edges, []graph.Edge{{Source: "a", Target: "c"}})
		}},
		{"edited cluster file", func() error {
			return os.WriteFile(snap.Semantic, []byte(`{"a": 1, "b": 1}`), 0644)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := db.RebuildOrg("x", snap, nil, nil); err != nil {
				t.Fatal(err)
			}
			if err := tt.edit(); err != nil {
				t.Fatal(err)
			}
			if stale, err := db.NeedsSync("x", snap); err != nil || !stale {
				t.Errorf("stale=%v err=%v, want stale", stale, err)
			}
		})
	}
}

func TestDB_RebuildOrg_FailureLeavesCacheUntouched(t *testing.T) {
	snap := writeSnapshot(t)
	db := openTestDB(t)

	if _, err := db.RebuildOrg("x", snap, nil, nil); err != nil {
		t.Fatal(err)
	}
	before, err := db.LastSync("x")
	if err != nil {
		t.Fatal(err)
	}

	if err := WriteEdges(snap.Edges, []graph.Edge{{Source: "a", Target: "b"}, {Source: "b", Target: "c"}}); err != nil {
		t.Fatal(err)
	}
	// Break the cluster step, which runs after the graph is rewritten.
	if _, err := db.db.Exec("DROP TABLE clusters"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.RebuildOrg("x", snap, nil, nil); err == nil {
		t.Fatal("expected RebuildOrg to fail without a clusters table")
	}

	g, err := db.LoadGraph("x")
	if err != nil {
		t.Fatal(err)
	}
	if got := g.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount() = %d, want the previous 1", got)
	}
	if after, err := db.LastSync("x"); err != nil || !after.Equal(before) {
		t.Errorf("LastSync() = %v, %v, want unchanged %v", after, err, before)
	}
	if stale, err := db.NeedsSync("x", snap); err != nil || !stale {
		t.Errorf("stale=%v err=%v, want stale after failed rebuild", stale, err)
	}
}
