package viz

import (
	"fmt"

	"github.com/ai4socialgood/orgnet/internal/cluster"
	"github.com/ai4socialgood/orgnet/internal/graph"
)

// BuildRenderModel restricts g to the nodes of sel and encodes every retained
// node with the given rules. Nodes are ordered by handle and edges by
// (source, target), so identical inputs always produce identical models.
// A nil assignment leaves every node unclustered.
func BuildRenderModel(g *graph.Graph, sel *graph.Neighborhood, assignment *cluster.Assignment, colors ColorRule, shapes ShapeRule) (*RenderModel, error) {
	if g == nil {
		return nil, fmt.Errorf("graph cannot be nil")
	}
	if sel == nil {
		return nil, fmt.Errorf("selection cannot be nil")
	}
	if colors == nil || shapes == nil {
		return nil, fmt.Errorf("color and shape rules are required")
	}

	sub := g.Subgraph(sel.All())

	nodes := make([]Node, 0, sub.NodeCount())
	for _, n := range sub.Nodes() {
		nodes = append(nodes, newNode(n, sel, assignment, colors, shapes))
	}

	subEdges := sub.Edges()
	edges := make([]Edge, 0, len(subEdges))
	for _, e := range subEdges {
		edges = append(edges, Edge{Source: e.Source, Target: e.Target})
	}

	return &RenderModel{
		Root:   sel.Root,
		Nodes:  nodes,
		Edges:  edges,
		Legend: NewLegend(colors, shapes),
	}, nil
}

// newNode encodes a single graph node.
func newNode(n graph.Node, sel *graph.Neighborhood, assignment *cluster.Assignment, colors ColorRule, shapes ShapeRule) Node {
	class := sel.ClassOf(n.ID)
	clusterID := assignment.Lookup(n.ID)
	return Node{
		ID:      n.ID,
		Label:   n.ID,
		Bio:     n.Bio,
		Class:   class,
		Cluster: clusterID,
		Color:   colors.Color(class, clusterID),
		Shape:   shapes.Shape(clusterID),
	}
}
