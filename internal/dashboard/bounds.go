package dashboard

import (
	"github.com/ai4socialgood/orgnet/internal/graph"
)

// Limits caps the first and second degree sets of a render.
type Limits struct {
	MaxFirst  int `json:"max_first"`
	MaxSecond int `json:"max_second"`
}

// Slider is the range of one limit control.
type Slider struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Step    int `json:"step"`
	Default int `json:"default"`
}

// Clamp bounds v to the slider range.
func (s Slider) Clamp(v int) int {
	return graph.ClampLimit(v, s.Min, s.Max)
}

// Bounds holds both sliders of a view.
type Bounds struct {
	First  Slider `json:"first"`
	Second Slider `json:"second"`
}

// Defaults returns the limits the sliders start at.
func (b Bounds) Defaults() Limits {
	return Limits{MaxFirst: b.First.Default, MaxSecond: b.Second.Default}
}

// Clamp bounds both limits to their sliders.
func (b Bounds) Clamp(l Limits) Limits {
	return Limits{MaxFirst: b.First.Clamp(l.MaxFirst), MaxSecond: b.Second.Clamp(l.MaxSecond)}
}

// Bounds returns the slider ranges of a view. The maximum of each slider is
// the size of its degree set.
func (d *Dataset) Bounds(v View) Bounds {
	cfg := v.bounds(d.Views)
	return Bounds{
		First:  newSlider(cfg.Min, cfg.Step, cfg.DefaultFirst, d.Neighborhood.First.Len()),
		Second: newSlider(cfg.Min, cfg.Step, cfg.DefaultSecond, d.Neighborhood.Second.Len()),
	}
}

func newSlider(lo, step, def, available int) Slider {
	if lo > available {
		lo = available
	}
	if step <= 0 {
		step = 1
	}
	return Slider{
		Min:     lo,
		Max:     available,
		Step:    step,
		Default: graph.ClampLimit(def, lo, available),
	}
}
