// Package dashboard holds the per-organization datasets served by the
// dashboard and renders their views.
package dashboard

import (
	"fmt"

	"github.com/ai4socialgood/orgnet/internal/cluster"
	"github.com/ai4socialgood/orgnet/internal/config"
	"github.com/ai4socialgood/orgnet/internal/graph"
)

// Org identifies an organization page.
type Org struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Handle string `json:"handle"`
}

// Dataset is everything needed to render one organization. It is built once
// and never modified, so it can be shared between concurrent renders.
type Dataset struct {
	Org          Org
	Graph        *graph.Graph
	Centrality   graph.Centrality
	Structural   *cluster.Assignment
	Semantic     *cluster.Assignment
	Neighborhood *graph.Neighborhood
	Views        config.ViewsConfig
}

// NewDataset computes the root neighborhood and centrality of g.
// Returns graph.ErrRootNotFound if the organization handle is not in g.
// Nil assignments are replaced by empty ones.
func NewDataset(org Org, g *graph.Graph, structural, semantic *cluster.Assignment, ranking graph.Ranking, views config.ViewsConfig) (*Dataset, error) {
	if g == nil {
		return nil, fmt.Errorf("org %s: graph cannot be nil", org.Slug)
	}

	n, err := graph.ComputeNeighborhood(g, org.Handle)
	if err != nil {
		return nil, fmt.Errorf("org %s: %w", org.Slug, err)
	}

	if structural == nil {
		structural = cluster.New(cluster.SourceStructural)
	}
	if semantic == nil {
		semantic = cluster.New(cluster.SourceSemantic)
	}

	return &Dataset{
		Org:          org,
		Graph:        g,
		Centrality:   ranking.Compute(g),
		Structural:   structural,
		Semantic:     semantic,
		Neighborhood: n,
		Views:        views,
	}, nil
}

// Assignment returns the cluster assignment a view colors or shapes by.
func (d *Dataset) Assignment(v View) *cluster.Assignment {
	if v == ViewSemantic {
		return d.Semantic
	}
	return d.Structural
}

// Summary reports the size of the dataset.
type Summary struct {
	Org        Org `json:"org"`
	Nodes      int `json:"nodes"`
	Edges      int `json:"edges"`
	First      int `json:"first_degree"`
	Second     int `json:"second_degree"`
	Structural int `json:"structural_clustered"`
	Semantic   int `json:"semantic_clustered"`
}

// Summary returns node, edge and neighborhood counts.
func (d *Dataset) Summary() Summary {
	return Summary{
		Org:        d.Org,
		Nodes:      d.Graph.NodeCount(),
		Edges:      d.Graph.EdgeCount(),
		First:      d.Neighborhood.First.Len(),
		Second:     d.Neighborhood.Second.Len(),
		Structural: d.Structural.Len(),
		Semantic:   d.Semantic.Len(),
	}
}
