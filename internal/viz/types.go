// Package viz turns a neighborhood selection into a render model and a
// self-contained interactive HTML document.
package viz

import "github.com/ai4socialgood/orgnet/internal/graph"

// RenderModel contains all data needed to render one view.
type RenderModel struct {
	Root   string `json:"root"`
	Nodes  []Node `json:"nodes"`
	Edges  []Edge `json:"edges"`
	Legend Legend `json:"legend"`
}

// Node is a rendered account.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Bio   string `json:"bio,omitempty"` // shown as the tooltip

	Class   graph.Class `json:"class"`
	Cluster int         `json:"cluster"`

	Color Color `json:"color"`
	Shape Shape `json:"shape"`
}

// Edge is a rendered follow relationship, always drawn directed.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// IsEmpty returns true if the model has no nodes.
func (m *RenderModel) IsEmpty() bool {
	return len(m.Nodes) == 0
}

// NodeByID returns the rendered node with the given handle.
func (m *RenderModel) NodeByID(id string) (Node, bool) {
	for _, n := range m.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
