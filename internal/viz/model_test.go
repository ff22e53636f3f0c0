package viz

import (
	"reflect"
	"testing"

	"github.com/ai4socialgood/orgnet/internal/cluster"
	"github.com/ai4socialgood/orgnet/internal/graph"
)

func testSelection(t *testing.T) (*graph.Graph, *graph.Neighborhood) {
	t.Helper()
	g := graph.Build(
		[]graph.Node{{ID: "a", Bio: "the org"}, {ID: "b"}, {ID: "c", Bio: "parent"}, {ID: "d"}, {ID: "far"}},
		[]graph.Edge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
			{Source: "a", Target: "d"},
			{Source: "c", Target: "far"},
		},
	)
	n, err := graph.ComputeNeighborhood(g, "a")
	if err != nil {
		t.Fatal(err)
	}
	return g, n
}

func TestBuildRenderModel_DegreeView(t *testing.T) {
	g, sel := testSelection(t)
	assignment := cluster.FromMap(cluster.SourceStructural, map[string]int{"a": 0, "b": 1, "c": 2, "d": 7})

	m, err := BuildRenderModel(g, sel, assignment, DegreeColors{}, ClusterShapes{})
	if err != nil {
		t.Fatalf("BuildRenderModel failed: %v", err)
	}

	want := []Node{
		{ID: "a", Label: "a", Bio: "the org", Class: graph.ClassRoot, Cluster: 0, Color: ColorRed, Shape: ShapeDot},
		{ID: "b", Label: "b", Class: graph.ClassFirst, Cluster: 1, Color: ColorBlue, Shape: ShapeSquare},
		{ID: "c", Label: "c", Bio: "parent", Class: graph.ClassSecond, Cluster: 2, Color: ColorGreen, Shape: ShapeTriangle},
		{ID: "d", Label: "d", Class: graph.ClassFirst, Cluster: 7, Color: ColorBlue, Shape: ShapeDot},
	}
	if !reflect.DeepEqual(m.Nodes, want) {
		t.Errorf("Nodes =\n%+v\nwant\n%+v", m.Nodes, want)
	}

	wantEdges := []Edge{{Source: "a", Target: "b"}, {Source: "a", Target: "d"}, {Source: "b", Target: "c"}}
	if !reflect.DeepEqual(m.Edges, wantEdges) {
		t.Errorf("Edges = %v, want %v", m.Edges, wantEdges)
	}
	if m.Root != "a" {
		t.Errorf("Root = %q", m.Root)
	}
}

func TestBuildRenderModel_UnclusteredDefaults(t *testing.T) {
	g := graph.Build([]graph.Node{{ID: "x"}, {ID: "y"}, {ID: "z"}},
		[]graph.Edge{{Source: "x", Target: "y"}, {Source: "z", Target: "x"}})
	sel, err := graph.ComputeNeighborhood(g, "x")
	if err != nil {
		t.Fatal(err)
	}
	assignment := cluster.FromMap(cluster.SourceSemantic, map[string]int{"x": 0, "y": 1})

	m, err := BuildRenderModel(g, sel, assignment, ClusterColors{}, ClusterShapes{})
	if err != nil {
		t.Fatalf("BuildRenderModel failed: %v", err)
	}

	z, ok := m.NodeByID("z")
	if !ok {
		t.Fatal("z missing from model")
	}
	if z.Cluster != cluster.Unclustered || z.Color != ColorGray || z.Shape != ShapeDot {
		t.Errorf("z = %+v, want unclustered gray dot", z)
	}

	m, err = BuildRenderModel(g, sel, nil, ClusterColors{}, UniformShape{})
	if err != nil {
		t.Fatalf("BuildRenderModel with nil assignment failed: %v", err)
	}
	for _, n := range m.Nodes {
		if n.Cluster != cluster.Unclustered {
			t.Errorf("%s has cluster %d with nil assignment", n.ID, n.Cluster)
		}
	}
}

func TestBuildRenderModel_Truncated(t *testing.T) {
	g, sel := testSelection(t)
	// Drop d from the selection: it must not be rendered and a->d must vanish.
	trimmed := &graph.Neighborhood{Root: sel.Root, First: graph.NewNodeSet("b"), Second: sel.Second}

	m, err := BuildRenderModel(g, trimmed, nil, DegreeColors{}, UniformShape{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.NodeByID("d"); ok {
		t.Error("truncated node d was rendered")
	}
	for _, e := range m.Edges {
		if e.Target == "d" {
			t.Errorf("edge to truncated node rendered: %v", e)
		}
	}
}

func TestBuildRenderModel_Idempotent(t *testing.T) {
	g, sel := testSelection(t)
	assignment := cluster.FromMap(cluster.SourceStructural, map[string]int{"b": 1})

	first, err := BuildRenderModel(g, sel, assignment, DegreeColors{}, ClusterShapes{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := BuildRenderModel(g, sel, assignment, DegreeColors{}, ClusterShapes{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("models differ across identical invocations")
	}

	h1, err := GenerateHTML(first, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	h2, err := GenerateHTML(second, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Error("documents differ across identical invocations")
	}
}

func TestBuildRenderModel_Errors(t *testing.T) {
	g, sel := testSelection(t)

	if _, err := BuildRenderModel(nil, sel, nil, DegreeColors{}, UniformShape{}); err == nil {
		t.Error("expected error for nil graph")
	}
	if _, err := BuildRenderModel(g, nil, nil, DegreeColors{}, UniformShape{}); err == nil {
		t.Error("expected error for nil selection")
	}
	if _, err := BuildRenderModel(g, sel, nil, nil, UniformShape{}); err == nil {
		t.Error("expected error for nil color rule")
	}
}
