package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/network"
)

// Centrality maps a handle to a ranking score. Missing handles score 0.
type Centrality map[string]float64

// Score returns the handle's score, or 0 when it has none.
func (c Centrality) Score(handle string) float64 {
	return c[handle]
}

// Ranking names a centrality measure used to order neighbors before truncation.
type Ranking string

// Supported rankings.
const (
	RankDegree   Ranking = "degree"
	RankPageRank Ranking = "pagerank"
)

// Compute returns the centrality for the ranking, defaulting to degree.
func (r Ranking) Compute(g *Graph) Centrality {
	if r == RankPageRank {
		return PageRank(g)
	}
	return DegreeCentrality(g)
}

// DegreeCentrality returns (in-degree + out-degree) / (n - 1) for every node.
// A graph with at most one node scores every node 1.
func DegreeCentrality(g *Graph) Centrality {
	n := g.NodeCount()
	c := make(Centrality, n)
	if n <= 1 {
		for handle := range g.ids {
			c[handle] = 1
		}
		return c
	}

	scale := 1 / float64(n-1)
	for handle, id := range g.ids {
		degree := g.g.From(id).Len() + g.g.To(id).Len()
		c[handle] = float64(degree) * scale
	}
	return c
}

// PageRank returns the PageRank of every node with damping 0.85.
func PageRank(g *Graph) Centrality {
	c := make(Centrality, g.NodeCount())
	if g.NodeCount() == 0 {
		return c
	}
	for id, score := range network.PageRank(g.g, 0.85, 1e-6) {
		c[g.names[id]] = score
	}
	return c
}

// RankAndTruncate returns the limit highest-scoring handles of set.
// Equal scores are ordered by handle so the result is reproducible.
// A negative limit is treated as zero and a limit larger than the set keeps it whole.
func RankAndTruncate(set NodeSet, c Centrality, limit int) NodeSet {
	if limit <= 0 {
		return NodeSet{}
	}

	ranked := set.Sorted()
	sort.SliceStable(ranked, func(i, j int) bool {
		return c.Score(ranked[i]) > c.Score(ranked[j])
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}
	return NewNodeSet(ranked[:limit]...)
}

// ClampLimit bounds a requested limit to [lo, available]. When fewer than lo
// nodes are available the result is available.
func ClampLimit(limit, lo, available int) int {
	if available < 0 {
		available = 0
	}
	if limit < lo {
		limit = lo
	}
	if limit > available {
		limit = available
	}
	return limit
}
