package server

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/ai4socialgood/orgnet/internal/dashboard"
)

var pageTemplates = map[string]*template.Template{
	"index": newPage("index", indexTemplate),
	"org":   newPage("org", orgTemplate),
}

// newPage parses the shared layout, then the page's block overrides.
func newPage(name, page string) *template.Template {
	layout := template.Must(template.New(name).Parse(layoutTemplate))
	return template.Must(layout.Parse(page))
}

type indexData struct {
	Title    string
	Overview string
	Orgs     []*dashboard.Dataset
}

type orgData struct {
	Dataset *dashboard.Dataset
	Views   []viewData
}

type viewData struct {
	View   dashboard.View
	Bounds dashboard.Bounds
}

// renderPage executes a named page template.
func renderPage(name string, data any) ([]byte, error) {
	tmpl, ok := pageTemplates[name]
	if !ok {
		return nil, fmt.Errorf("no page template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("executing %s page: %w", name, err)
	}
	return buf.Bytes(), nil
}

const layoutTemplate = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{block "title" .}}AI4SocialGood{{end}}</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; margin: 0; color: #222; }
    header { padding: 12px 24px; border-bottom: 1px solid #ddd; }
    header a { margin-right: 16px; color: #0645ad; text-decoration: none; }
    main { padding: 16px 24px; }
    .view { margin-bottom: 32px; }
    .controls { display: flex; gap: 32px; margin: 8px 0; }
    .controls label { display: block; font-size: 14px; }
    iframe { width: 100%; height: 750px; border: 1px solid #ccc; }
    .muted { color: #666; font-size: 13px; }
  </style>
</head>
<body>
  <header><a href="/">Home</a>{{block "nav" .}}{{end}}</header>
  <main>{{block "content" .}}{{end}}</main>
</body>
</html>{{end}}`

const indexTemplate = `{{define "title"}}{{.Title}}{{end}}
{{define "nav"}}{{range .Orgs}}<a href="/orgs/{{.Org.Slug}}">{{.Org.Name}}</a>{{end}}{{end}}
{{define "content"}}
<h1>{{.Title}}</h1>
<h2>Project Overview</h2>
<p>{{.Overview}}</p>
<h2>Organizations</h2>
<ul>
{{- range .Orgs}}
  <li><a href="/orgs/{{.Org.Slug}}">{{.Org.Name}}</a> <span class="muted">@{{.Org.Handle}}: {{.Graph.NodeCount}} accounts, {{.Graph.EdgeCount}} follows</span></li>
{{- end}}
</ul>
{{end}}`

const orgTemplate = `{{define "title"}}{{.Dataset.Org.Name}} Social Network{{end}}
{{define "content"}}
{{- $org := .Dataset.Org}}
<h1>{{$org.Name}} Social Network</h1>
<p class="muted">Centered on @{{$org.Handle}}. Node size and order follow degree centrality; drag the sliders to redraw.</p>
{{- range .Views}}
<section class="view" data-view="{{.View}}">
  <h2>{{.View.Title}}</h2>
  <div class="controls">
    <label>Max First-Degree Nodes: <output>{{.Bounds.First.Default}}</output> / {{.Bounds.First.Max}}
      <input type="range" name="first" min="{{.Bounds.First.Min}}" max="{{.Bounds.First.Max}}" step="{{.Bounds.First.Step}}" value="{{.Bounds.First.Default}}">
    </label>
    <label>Max Second-Degree Nodes: <output>{{.Bounds.Second.Default}}</output> / {{.Bounds.Second.Max}}
      <input type="range" name="second" min="{{.Bounds.Second.Min}}" max="{{.Bounds.Second.Max}}" step="{{.Bounds.Second.Step}}" value="{{.Bounds.Second.Default}}">
    </label>
  </div>
  <iframe src="/orgs/{{$org.Slug}}/views/{{.View}}?first={{.Bounds.First.Default}}&amp;second={{.Bounds.Second.Default}}"></iframe>
</section>
{{- end}}
<script>
  document.querySelectorAll('section.view').forEach(function(section) {
    var frame = section.querySelector('iframe');
    var inputs = section.querySelectorAll('input[type=range]');
    inputs.forEach(function(input) {
      input.addEventListener('input', function() {
        input.parentNode.querySelector('output').textContent = input.value;
      });
      input.addEventListener('change', function() {
        var url = new URL(frame.src, window.location.href);
        inputs.forEach(function(i) { url.searchParams.set(i.name, i.value); });
        frame.src = url.pathname + url.search;
      });
    });
  });
</script>
{{end}}`
