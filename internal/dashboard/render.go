package dashboard

import (
	"fmt"

	"github.com/ai4socialgood/orgnet/internal/viz"
)

// Stats reports how much of the neighborhood a render kept.
type Stats struct {
	FirstAvailable  int `json:"first_available"`
	FirstRetained   int `json:"first_retained"`
	SecondAvailable int `json:"second_available"`
	SecondRetained  int `json:"second_retained"`
	Nodes           int `json:"nodes"`
	Edges           int `json:"edges"`
}

// Result is a rendered view.
type Result struct {
	View   View             `json:"view"`
	Limits Limits           `json:"limits"`
	HTML   string           `json:"-"`
	Model  *viz.RenderModel `json:"model"`
	Stats  Stats            `json:"stats"`
}

// Render truncates the neighborhood to the limits, encodes it with the view's
// rules and generates the HTML document. Limits are used as given; callers
// serving user input clamp them with Bounds first. Each call starts from the
// full neighborhood, so views never affect each other.
func Render(d *Dataset, v View, limits Limits, opts viz.HTMLOptions) (*Result, error) {
	if d == nil {
		return nil, fmt.Errorf("dataset cannot be nil")
	}

	sel := d.Neighborhood.Truncate(d.Centrality, limits.MaxFirst, limits.MaxSecond)
	colors, shapes := v.Rules()

	model, err := viz.BuildRenderModel(d.Graph, sel, d.Assignment(v), colors, shapes)
	if err != nil {
		return nil, fmt.Errorf("building %s model for %s: %w", v, d.Org.Slug, err)
	}

	if opts.Title == "" {
		opts.Title = fmt.Sprintf("%s: %s", d.Org.Name, v.Title())
	}
	html, err := viz.GenerateHTML(model, opts)
	if err != nil {
		return nil, fmt.Errorf("generating %s document for %s: %w", v, d.Org.Slug, err)
	}

	return &Result{
		View:   v,
		Limits: limits,
		HTML:   html,
		Model:  model,
		Stats: Stats{
			FirstAvailable:  d.Neighborhood.First.Len(),
			FirstRetained:   sel.First.Len(),
			SecondAvailable: d.Neighborhood.Second.Len(),
			SecondRetained:  sel.Second.Len(),
			Nodes:           len(model.Nodes),
			Edges:           len(model.Edges),
		},
	}, nil
}
