package graph

import (
	"errors"
	"fmt"
)

// ErrRootNotFound is returned when a neighborhood is requested for a handle
// that is not a node of the graph.
var ErrRootNotFound = errors.New("root not found in graph")

// Neighborhood partitions the nodes around a root by degree of separation.
// Root, First and Second are pairwise disjoint.
type Neighborhood struct {
	Root   string
	First  NodeSet
	Second NodeSet
}

// Class is the degree-of-separation class of a node relative to a root.
type Class string

// Degree classes.
const (
	ClassRoot         Class = "root"
	ClassFirst        Class = "first"
	ClassSecond       Class = "second"
	ClassUnclassified Class = "unclassified"
)

// ComputeNeighborhood returns the first- and second-degree neighbors of root,
// following edges in both directions. A node's class is decided by its shortest
// hop count, so a node adjacent to the root is never second-degree.
func ComputeNeighborhood(g *Graph, root string) (*Neighborhood, error) {
	root = NormalizeID(root)
	if !g.HasNode(root) {
		return nil, fmt.Errorf("%w: %q", ErrRootNotFound, root)
	}

	rootSet := NewNodeSet(root)

	first := g.Successors(root)
	first.Union(g.Predecessors(root))
	first = first.Without(rootSet)

	reached := make(NodeSet)
	for n := range first {
		reached.Union(g.Successors(n))
		reached.Union(g.Predecessors(n))
	}

	return &Neighborhood{
		Root:   root,
		First:  first,
		Second: reached.Without(rootSet, first),
	}, nil
}

// ClassOf returns the degree class of a handle within the neighborhood.
func (n *Neighborhood) ClassOf(handle string) Class {
	switch {
	case handle == n.Root:
		return ClassRoot
	case n.First.Contains(handle):
		return ClassFirst
	case n.Second.Contains(handle):
		return ClassSecond
	default:
		return ClassUnclassified
	}
}

// All returns the union of the root, first and second degree sets.
func (n *Neighborhood) All() NodeSet {
	all := NewNodeSet(n.Root)
	all.Union(n.First)
	all.Union(n.Second)
	return all
}

// Truncate keeps at most maxFirst first-degree and maxSecond second-degree
// nodes, ranked by the given centrality.
func (n *Neighborhood) Truncate(c Centrality, maxFirst, maxSecond int) *Neighborhood {
	return &Neighborhood{
		Root:   n.Root,
		First:  RankAndTruncate(n.First, c, maxFirst),
		Second: RankAndTruncate(n.Second, c, maxSecond),
	}
}
