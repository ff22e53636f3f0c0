package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ai4socialgood/orgnet/internal/config"
	"github.com/ai4socialgood/orgnet/internal/viz"
)

// ErrUnknownView is returned for a view name that is not structural or semantic.
var ErrUnknownView = errors.New("unknown view")

// View selects how nodes are colored and shaped.
type View string

const (
	// ViewStructural colors by degree and shapes by node2vec cluster.
	ViewStructural View = "structural"
	// ViewSemantic colors by bio-embedding cluster.
	ViewSemantic View = "semantic"
)

// Views lists every view in page order.
var Views = []View{ViewStructural, ViewSemantic}

// ParseView parses a view name, case-insensitively.
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case ViewStructural:
		return ViewStructural, nil
	case ViewSemantic:
		return ViewSemantic, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: structural, semantic)", ErrUnknownView, s)
	}
}

// Title is the heading shown above the view.
func (v View) Title() string {
	if v == ViewSemantic {
		return "Semantic Structure Clustering"
	}
	return "Node Structure Clustering"
}

// Rules returns the color and shape rules of the view.
func (v View) Rules() (viz.ColorRule, viz.ShapeRule) {
	if v == ViewSemantic {
		return viz.ClusterColors{}, viz.UniformShape{}
	}
	return viz.DegreeColors{}, viz.ClusterShapes{}
}

func (v View) bounds(views config.ViewsConfig) config.ViewBounds {
	if v == ViewSemantic {
		return views.Semantic
	}
	return views.Structural
}
