package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ai4socialgood/orgnet/internal/dashboard"
	"github.com/ai4socialgood/orgnet/internal/metrics"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"orgs":   len(s.catalog.List()),
	})
}

// dataset resolves the :org parameter, writing a 404 when it is unknown.
func (s *Server) dataset(c *gin.Context) (*dashboard.Dataset, bool) {
	d, err := s.catalog.Get(c.Param("org"))
	if err != nil {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
		return nil, false
	}
	return d, true
}

// view resolves a view name, writing a 404 when it is unknown.
func (s *Server) view(c *gin.Context, name string) (dashboard.View, bool) {
	v, err := dashboard.ParseView(name)
	if err != nil {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
		return "", false
	}
	return v, true
}

// limits reads the first and second query parameters. Missing values take
// the slider defaults; present values are clamped to the slider range.
func limits(c *gin.Context, b dashboard.Bounds) (dashboard.Limits, error) {
	l := b.Defaults()
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"first", &l.MaxFirst},
		{"second", &l.MaxSecond},
	} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return dashboard.Limits{}, fmt.Errorf("%s must be an integer, got %q", p.name, raw)
		}
		*p.dst = v
	}
	return b.Clamp(l), nil
}

func (s *Server) render(c *gin.Context) (*dashboard.Result, bool) {
	d, ok := s.dataset(c)
	if !ok {
		return nil, false
	}
	v, ok := s.view(c, c.Param("view"))
	if !ok {
		return nil, false
	}
	l, err := limits(c, d.Bounds(v))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return nil, false
	}

	start := time.Now()
	res, err := dashboard.Render(d, v, l, s.htmlOptions())
	if err != nil {
		s.log.WithError(err).WithField("org", d.Org.Slug).Error("render failed")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "render failed")
		return nil, false
	}

	labels := []string{d.Org.Slug, string(v)}
	metrics.RendersTotal.WithLabelValues(labels...).Inc()
	metrics.RenderDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
	metrics.RenderedNodes.WithLabelValues(labels...).Observe(float64(res.Stats.Nodes))

	s.log.WithFields(logrus.Fields{
		"org":    d.Org.Slug,
		"view":   v,
		"first":  fmt.Sprintf("%d/%d", res.Stats.FirstRetained, res.Stats.FirstAvailable),
		"second": fmt.Sprintf("%d/%d", res.Stats.SecondRetained, res.Stats.SecondAvailable),
	}).Debug("rendered view")

	return res, true
}

// renderView serves the generated document of one view.
func (s *Server) renderView(c *gin.Context) {
	res, ok := s.render(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(res.HTML))
}

// viewModel serves the render model and stats of one view as JSON.
func (s *Server) viewModel(c *gin.Context) {
	res, ok := s.render(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

type orgEntry struct {
	dashboard.Summary
	Views map[dashboard.View]dashboard.Bounds `json:"views"`
}

func newOrgEntry(d *dashboard.Dataset) orgEntry {
	views := make(map[dashboard.View]dashboard.Bounds, len(dashboard.Views))
	for _, v := range dashboard.Views {
		views[v] = d.Bounds(v)
	}
	return orgEntry{Summary: d.Summary(), Views: views}
}

func (s *Server) listOrgs(c *gin.Context) {
	datasets := s.catalog.List()
	out := make([]orgEntry, 0, len(datasets))
	for _, d := range datasets {
		out = append(out, newOrgEntry(d))
	}
	c.JSON(http.StatusOK, gin.H{"orgs": out})
}

// neighborhood serves the truncated degree sets for the given limits.
func (s *Server) neighborhood(c *gin.Context) {
	d, ok := s.dataset(c)
	if !ok {
		return
	}

	v := dashboard.ViewStructural
	if name := c.Query("view"); name != "" {
		if v, ok = s.view(c, name); !ok {
			return
		}
	}
	b := d.Bounds(v)
	l, err := limits(c, b)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	sel := d.Neighborhood.Truncate(d.Centrality, l.MaxFirst, l.MaxSecond)
	c.JSON(http.StatusOK, gin.H{
		"org":    d.Org,
		"root":   sel.Root,
		"view":   v,
		"limits": l,
		"bounds": b,
		"first":  sel.First.Sorted(),
		"second": sel.Second.Sorted(),
		"available": gin.H{
			"first":  d.Neighborhood.First.Len(),
			"second": d.Neighborhood.Second.Len(),
		},
	})
}

func (s *Server) index(c *gin.Context) {
	s.page(c, "index", indexData{
		Title:    dashboard.ProjectTitle,
		Overview: dashboard.ProjectOverview,
		Orgs:     s.catalog.List(),
	})
}

func (s *Server) orgPage(c *gin.Context) {
	d, ok := s.dataset(c)
	if !ok {
		return
	}
	data := orgData{Dataset: d}
	for _, v := range dashboard.Views {
		data.Views = append(data.Views, viewData{View: v, Bounds: d.Bounds(v)})
	}
	s.page(c, "org", data)
}

func (s *Server) page(c *gin.Context, name string, data any) {
	html, err := renderPage(name, data)
	if err != nil {
		s.log.WithError(err).Error("page template failed")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "page failed")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}
