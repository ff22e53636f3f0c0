// Package graph holds the directed follow graph and the neighborhood queries
// run against it.
package graph

import (
	"sort"
	"strings"

	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Node is an account in the follow graph.
type Node struct {
	ID  string `json:"id"`
	Bio string `json:"bio,omitempty"`
}

// Edge means Source follows Target.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is an immutable directed graph keyed by lowercase account handle.
// It is safe for concurrent reads once built.
type Graph struct {
	g     *simple.DirectedGraph
	ids   map[string]int64
	names map[int64]string
	bios  map[string]string
}

// NormalizeID lowercases and trims a handle so it matches node keys.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Build constructs a Graph from node records and edges.
// Edges may reference handles without a node record; those nodes get an empty bio.
// Self-loops, duplicate edges and empty handles are dropped.
func Build(nodes []Node, edges []Edge) *Graph {
	gr := &Graph{
		g:     simple.NewDirectedGraph(),
		ids:   make(map[string]int64, len(nodes)),
		names: make(map[int64]string, len(nodes)),
		bios:  make(map[string]string, len(nodes)),
	}

	for _, n := range nodes {
		if NormalizeID(n.ID) == "" {
			continue
		}
		id := gr.ensure(n.ID)
		if n.Bio != "" {
			gr.bios[gr.names[id]] = n.Bio
		}
	}

	for _, e := range edges {
		if NormalizeID(e.Source) == "" || NormalizeID(e.Target) == "" {
			continue
		}
		from := gr.ensure(e.Source)
		to := gr.ensure(e.Target)
		if from == to {
			continue
		}
		if !gr.g.HasEdgeFromTo(from, to) {
			gr.g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		}
	}

	return gr
}

// ensure returns the internal id for a handle, adding the node if needed.
func (gr *Graph) ensure(handle string) int64 {
	handle = NormalizeID(handle)
	if id, ok := gr.ids[handle]; ok {
		return id
	}
	id := int64(len(gr.ids))
	gr.ids[handle] = id
	gr.names[id] = handle
	gr.g.AddNode(simple.Node(id))
	return id
}

// HasNode reports whether the handle is a node of the graph.
func (gr *Graph) HasNode(handle string) bool {
	_, ok := gr.ids[NormalizeID(handle)]
	return ok
}

// Bio returns the node's biography, or "" when it has none.
func (gr *Graph) Bio(handle string) string {
	return gr.bios[NormalizeID(handle)]
}

// NodeCount returns the number of nodes.
func (gr *Graph) NodeCount() int {
	return len(gr.ids)
}

// EdgeCount returns the number of directed edges.
func (gr *Graph) EdgeCount() int {
	return gr.g.Edges().Len()
}

// Successors returns the accounts the handle follows.
func (gr *Graph) Successors(handle string) NodeSet {
	id, ok := gr.ids[NormalizeID(handle)]
	if !ok {
		return NodeSet{}
	}
	return gr.collect(gr.g.From(id))
}

// Predecessors returns the accounts following the handle.
func (gr *Graph) Predecessors(handle string) NodeSet {
	id, ok := gr.ids[NormalizeID(handle)]
	if !ok {
		return NodeSet{}
	}
	return gr.collect(gr.g.To(id))
}

func (gr *Graph) collect(it gonumgraph.Nodes) NodeSet {
	set := make(NodeSet)
	for it.Next() {
		set.Add(gr.names[it.Node().ID()])
	}
	return set
}

// Nodes returns all nodes sorted by handle.
func (gr *Graph) Nodes() []Node {
	out := make([]Node, 0, len(gr.ids))
	for handle := range gr.ids {
		out = append(out, Node{ID: handle, Bio: gr.bios[handle]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns all edges sorted by source then target.
func (gr *Graph) Edges() []Edge {
	it := gr.g.Edges()
	var out []Edge
	for it.Next() {
		e := it.Edge()
		out = append(out, Edge{
			Source: gr.names[e.From().ID()],
			Target: gr.names[e.To().ID()],
		})
	}
	sortEdges(out)
	return out
}

func sortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
}

// Subgraph returns the subgraph induced by keep. Handles in keep that are not
// nodes of the graph are ignored.
func (gr *Graph) Subgraph(keep NodeSet) *Graph {
	var nodes []Node
	for _, handle := range keep.Sorted() {
		if !gr.HasNode(handle) {
			continue
		}
		nodes = append(nodes, Node{ID: handle, Bio: gr.bios[handle]})
	}

	var edges []Edge
	for _, n := range nodes {
		for _, target := range gr.Successors(n.ID).Sorted() {
			if keep.Contains(target) {
				edges = append(edges, Edge{Source: n.ID, Target: target})
			}
		}
	}

	return Build(nodes, edges)
}
