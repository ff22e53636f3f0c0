package viz

import (
	"encoding/json"
	"fmt"
)

// CytoscapeElements represents the Cytoscape.js data format.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode represents a node in Cytoscape.js format.
type CytoscapeNode struct {
	Data CytoscapeNodeData `json:"data"`
}

// CytoscapeNodeData carries the fields the page styles and tooltips read.
type CytoscapeNodeData struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Bio     string `json:"bio"`
	Class   string `json:"class"`
	Cluster int    `json:"cluster"`
	Color   string `json:"color"`
	Shape   string `json:"shape"`
}

// CytoscapeEdge represents an edge in Cytoscape.js format.
type CytoscapeEdge struct {
	Data CytoscapeEdgeData `json:"data"`
}

// CytoscapeEdgeData contains the edge data fields.
type CytoscapeEdgeData struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// ToCytoscapeJSON converts the model to Cytoscape.js JSON format.
func (m *RenderModel) ToCytoscapeJSON() (string, error) {
	elements := CytoscapeElements{
		Nodes: make([]CytoscapeNode, 0, len(m.Nodes)),
		Edges: make([]CytoscapeEdge, 0, len(m.Edges)),
	}

	for _, n := range m.Nodes {
		elements.Nodes = append(elements.Nodes, CytoscapeNode{Data: CytoscapeNodeData{
			ID:      n.ID,
			Label:   n.Label,
			Bio:     n.Bio,
			Class:   string(n.Class),
			Cluster: n.Cluster,
			Color:   string(n.Color),
			Shape:   n.Shape.CytoscapeShape(),
		}})
	}

	for _, e := range m.Edges {
		elements.Edges = append(elements.Edges, CytoscapeEdge{Data: CytoscapeEdgeData{
			ID:     edgeID(e.Source, e.Target),
			Source: e.Source,
			Target: e.Target,
		}})
	}

	jsonBytes, err := json.Marshal(elements)
	if err != nil {
		return "", fmt.Errorf("marshaling Cytoscape elements to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// edgeID generates an edge ID. The graph holds at most one edge per ordered
// pair, so the endpoints identify it.
func edgeID(source, target string) string {
	return fmt.Sprintf("%s->%s", source, target)
}
