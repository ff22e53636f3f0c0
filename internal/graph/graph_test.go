package graph

import (
	"errors"
	"reflect"
	"testing"
)

func scenarioGraph() *Graph {
	return Build(
		[]Node{{ID: "a", Bio: "org"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
		[]Edge{{Source: "a", Target: "b"}, {Source: "b", Target: "c"}, {Source: "a", Target: "d"}},
	)
}

func TestBuild(t *testing.T) {
	g := Build(
		[]Node{{ID: "NeuroACAR", Bio: "Autism research"}, {ID: "x"}},
		[]Edge{
			{Source: "x", Target: "neuroacar"},
			{Source: "x", Target: "NeuroACAR"}, // duplicate after normalization
			{Source: "x", Target: "x"},         // self-loop
			{Source: "y", Target: "x"},         // y has no node record
			{Source: "", Target: "x"},
		},
	)

	if got := g.NodeCount(); got != 3 {
		t.Errorf("NodeCount() = %d, want 3", got)
	}
	if got := g.EdgeCount(); got != 2 {
		t.Errorf("EdgeCount() = %d, want 2", got)
	}
	if !g.HasNode("NEUROACAR") {
		t.Error("expected lookup to be case-insensitive")
	}
	if got := g.Bio("neuroacar"); got != "Autism research" {
		t.Errorf("Bio() = %q", got)
	}
	if got := g.Bio("y"); got != "" {
		t.Errorf("Bio() for node without record = %q, want empty", got)
	}

	want := []Edge{{Source: "x", Target: "neuroacar"}, {Source: "y", Target: "x"}}
	if got := g.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestSuccessorsPredecessors(t *testing.T) {
	g := scenarioGraph()

	if got := g.Successors("a").Sorted(); !reflect.DeepEqual(got, []string{"b", "d"}) {
		t.Errorf("Successors(a) = %v", got)
	}
	if got := g.Predecessors("c").Sorted(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Predecessors(c) = %v", got)
	}
	if got := g.Successors("missing"); got.Len() != 0 {
		t.Errorf("Successors(missing) = %v, want empty", got)
	}
}

func TestComputeNeighborhood_Scenario(t *testing.T) {
	n, err := ComputeNeighborhood(scenarioGraph(), "A")
	if err != nil {
		t.Fatalf("ComputeNeighborhood failed: %v", err)
	}

	if n.Root != "a" {
		t.Errorf("Root = %q, want a", n.Root)
	}
	if got := n.First.Sorted(); !reflect.DeepEqual(got, []string{"b", "d"}) {
		t.Errorf("First = %v, want [b d]", got)
	}
	if got := n.Second.Sorted(); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("Second = %v, want [c]", got)
	}
}

func TestComputeNeighborhood_ShortestHopWins(t *testing.T) {
	// c is reachable in two hops via b but also directly follows the root.
	g := Build(nil, []Edge{
		{Source: "root", Target: "b"},
		{Source: "b", Target: "c"},
		{Source: "c", Target: "root"},
		{Source: "c", Target: "e"},
		{Source: "f", Target: "b"},
	})

	n, err := ComputeNeighborhood(g, "root")
	if err != nil {
		t.Fatal(err)
	}
	if got := n.First.Sorted(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("First = %v, want [b c]", got)
	}
	if got := n.Second.Sorted(); !reflect.DeepEqual(got, []string{"e", "f"}) {
		t.Errorf("Second = %v, want [e f]", got)
	}
}

func TestComputeNeighborhood_Disjoint(t *testing.T) {
	g := Build(nil, []Edge{
		{Source: "r", Target: "a"}, {Source: "a", Target: "r"},
		{Source: "a", Target: "b"}, {Source: "b", Target: "a"},
		{Source: "b", Target: "c"}, {Source: "c", Target: "r"},
		{Source: "d", Target: "b"}, {Source: "e", Target: "f"},
	})

	n, err := ComputeNeighborhood(g, "r")
	if err != nil {
		t.Fatal(err)
	}

	if n.First.Contains(n.Root) || n.Second.Contains(n.Root) {
		t.Error("root leaked into a degree set")
	}
	for h := range n.First {
		if n.Second.Contains(h) {
			t.Errorf("%q is in both First and Second", h)
		}
	}
	if total := 1 + n.First.Len() + n.Second.Len(); total > g.NodeCount() {
		t.Errorf("partition size %d exceeds node count %d", total, g.NodeCount())
	}
	if n.All().Contains("e") || n.All().Contains("f") {
		t.Error("disconnected component should not appear in the neighborhood")
	}
}

func TestComputeNeighborhood_RootNotFound(t *testing.T) {
	_, err := ComputeNeighborhood(scenarioGraph(), "nobody")
	if !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound, got %v", err)
	}
}

func TestNeighborhood_ClassOf(t *testing.T) {
	n, err := ComputeNeighborhood(scenarioGraph(), "a")
	if err != nil {
		t.Fatal(err)
	}

	tests := map[string]Class{
		"a":     ClassRoot,
		"b":     ClassFirst,
		"c":     ClassSecond,
		"other": ClassUnclassified,
	}
	for handle, want := range tests {
		if got := n.ClassOf(handle); got != want {
			t.Errorf("ClassOf(%q) = %q, want %q", handle, got, want)
		}
	}
}

func TestSubgraph(t *testing.T) {
	g := scenarioGraph()
	sub := g.Subgraph(NewNodeSet("a", "b", "c", "ghost"))

	if got := sub.NodeCount(); got != 3 {
		t.Errorf("NodeCount() = %d, want 3", got)
	}
	want := []Edge{{Source: "a", Target: "b"}, {Source: "b", Target: "c"}}
	if got := sub.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
	if got := sub.Bio("a"); got != "org" {
		t.Errorf("bio not preserved: %q", got)
	}
}
