package viz

import (
	"fmt"

	"github.com/ai4socialgood/orgnet/internal/cluster"
	"github.com/ai4socialgood/orgnet/internal/graph"
)

// Color is a CSS color name used for node fill.
type Color string

// Node colors.
const (
	ColorRed   Color = "red"
	ColorBlue  Color = "blue"
	ColorGreen Color = "green"
	ColorGray  Color = "gray"
)

// Shape is a node outline. Names follow the dashboard legend; see CytoscapeShape.
type Shape string

// Node shapes.
const (
	ShapeDot      Shape = "dot"
	ShapeSquare   Shape = "square"
	ShapeTriangle Shape = "triangle"
)

// CytoscapeShape returns the Cytoscape.js name for the shape.
func (s Shape) CytoscapeShape() string {
	switch s {
	case ShapeSquare:
		return "rectangle"
	case ShapeTriangle:
		return "triangle"
	default:
		return "ellipse"
	}
}

// ColorRule assigns a color to a node from its degree class and cluster.
type ColorRule interface {
	Color(class graph.Class, clusterID int) Color
	LegendEntries() []LegendEntry
}

// ShapeRule assigns a shape to a node from its cluster.
type ShapeRule interface {
	Shape(clusterID int) Shape
	LegendEntries() []LegendEntry
}

// DegreeColors colors nodes by degree of separation from the root.
type DegreeColors struct{}

// Color implements ColorRule. Nodes outside the three classes are gray.
func (DegreeColors) Color(class graph.Class, _ int) Color {
	switch class {
	case graph.ClassRoot:
		return ColorRed
	case graph.ClassFirst:
		return ColorBlue
	case graph.ClassSecond:
		return ColorGreen
	default:
		return ColorGray
	}
}

// LegendEntries implements ColorRule.
func (DegreeColors) LegendEntries() []LegendEntry {
	return []LegendEntry{
		{Label: "ORG (center)", Color: ColorRed},
		{Label: "1st Degree", Color: ColorBlue},
		{Label: "2nd Degree", Color: ColorGreen},
	}
}

// clusterPalette is shared by the cluster color and shape tables; ids are 0-based.
var (
	clusterColors = []Color{ColorRed, ColorBlue, ColorGreen}
	clusterShapes = []Shape{ShapeDot, ShapeSquare, ShapeTriangle}
)

// ClusterColors colors nodes by cluster id. Unknown ids, including
// cluster.Unclustered, are gray.
type ClusterColors struct{}

// Color implements ColorRule.
func (ClusterColors) Color(_ graph.Class, clusterID int) Color {
	if clusterID < 0 || clusterID >= len(clusterColors) {
		return ColorGray
	}
	return clusterColors[clusterID]
}

// LegendEntries implements ColorRule.
func (ClusterColors) LegendEntries() []LegendEntry {
	entries := make([]LegendEntry, 0, len(clusterColors))
	for id, c := range clusterColors {
		entries = append(entries, LegendEntry{Label: clusterLabel(id), Color: c})
	}
	return entries
}

// ClusterShapes draws each known cluster with its own shape; anything else is a dot.
type ClusterShapes struct{}

// Shape implements ShapeRule.
func (ClusterShapes) Shape(clusterID int) Shape {
	if clusterID < 0 || clusterID >= len(clusterShapes) {
		return ShapeDot
	}
	return clusterShapes[clusterID]
}

// LegendEntries implements ShapeRule.
func (ClusterShapes) LegendEntries() []LegendEntry {
	entries := make([]LegendEntry, 0, len(clusterShapes))
	for id, s := range clusterShapes {
		entries = append(entries, LegendEntry{
			Label: fmt.Sprintf("%s (%s)", clusterLabel(id), s),
			Color: "#555",
			Shape: s,
		})
	}
	return entries
}

// UniformShape draws every node as a dot.
type UniformShape struct{}

// Shape implements ShapeRule.
func (UniformShape) Shape(int) Shape { return ShapeDot }

// LegendEntries implements ShapeRule.
func (UniformShape) LegendEntries() []LegendEntry { return nil }

// clusterLabel is the 1-based name shown to readers for a cluster id.
func clusterLabel(id int) string {
	if id == cluster.Unclustered {
		return "Unclustered"
	}
	return fmt.Sprintf("Cluster %d", id+1)
}

// Legend describes the color and shape encoding of a view.
type Legend struct {
	Title   string        `json:"title"`
	Entries []LegendEntry `json:"entries"`
}

// LegendEntry is one line of the legend. Entries with a Shape are drawn as a
// gray swatch of that shape; others as a colored bullet.
type LegendEntry struct {
	Label string `json:"label"`
	Color Color  `json:"color"`
	Shape Shape  `json:"shape,omitempty"`
}

// NewLegend builds the legend for a color and shape rule pair.
func NewLegend(colors ColorRule, shapes ShapeRule) Legend {
	entries := append([]LegendEntry{}, colors.LegendEntries()...)
	entries = append(entries, shapes.LegendEntries()...)
	return Legend{Title: "Legend", Entries: entries}
}
