// Package cluster holds precomputed cluster assignments for graph nodes.
package cluster

import (
	"sort"

	"github.com/ai4socialgood/orgnet/internal/graph"
)

// Unclustered is the cluster id reported for nodes absent from an assignment.
const Unclustered = -1

// Source names the embedding an assignment was derived from.
type Source string

// Known assignment sources.
const (
	SourceStructural Source = "structural" // node2vec over the follow graph
	SourceSemantic   Source = "semantic"   // sentence embeddings of bios
)

// Assignment maps a handle to a small integer cluster id.
// Coverage is sparse: handles may be missing.
type Assignment struct {
	Source  Source
	Members map[string]int
}

// New returns an empty assignment for the given source.
func New(source Source) *Assignment {
	return &Assignment{Source: source, Members: make(map[string]int)}
}

// FromMap builds an assignment from a handle -> cluster map, normalizing handles.
// Keys are applied in byte order, so when spellings of one handle collide the
// all-lowercase key wins.
func FromMap(source Source, m map[string]int) *Assignment {
	keys := make([]string, 0, len(m))
	for handle := range m {
		keys = append(keys, handle)
	}
	sort.Strings(keys)

	a := New(source)
	for _, handle := range keys {
		a.Set(handle, m[handle])
	}
	return a
}

// Set assigns a handle to a cluster.
func (a *Assignment) Set(handle string, id int) {
	a.Members[graph.NormalizeID(handle)] = id
}

// Lookup returns the handle's cluster, or Unclustered when it has none.
// A nil assignment treats every handle as unclustered.
func (a *Assignment) Lookup(handle string) int {
	if a == nil {
		return Unclustered
	}
	id, ok := a.Members[graph.NormalizeID(handle)]
	if !ok {
		return Unclustered
	}
	return id
}

// Len returns the number of assigned handles.
func (a *Assignment) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Members)
}

// Counts returns the number of handles per cluster id.
func (a *Assignment) Counts() map[int]int {
	counts := make(map[int]int)
	if a == nil {
		return counts
	}
	for _, id := range a.Members {
		counts[id]++
	}
	return counts
}

// Clusters returns the distinct cluster ids in ascending order.
func (a *Assignment) Clusters() []int {
	counts := a.Counts()
	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Missing returns the assigned handles that are not nodes of g, sorted.
func (a *Assignment) Missing(g *graph.Graph) []string {
	var out []string
	if a == nil {
		return out
	}
	for handle := range a.Members {
		if !g.HasNode(handle) {
			out = append(out, handle)
		}
	}
	sort.Strings(out)
	return out
}
