package viz

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Funcs(template.FuncMap{
		"swatchStyle": swatchStyle,
	}).Parse(htmlTemplate))
}

// DefaultScriptSrc is the CDN location of Cytoscape.js.
const DefaultScriptSrc = "https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Title     string // Document title
	Layout    string // "force", "circle", or "grid"
	ScriptSrc string // Where to load Cytoscape.js from; defaults to DefaultScriptSrc
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Title:     "Social Network",
		Layout:    "force",
		ScriptSrc: DefaultScriptSrc,
	}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"force", "circle", "grid"}

// GenerateHTML renders the model as a self-contained HTML document with a
// floating legend. The document is returned in memory; callers decide whether
// to serve or write it.
func GenerateHTML(model *RenderModel, opts HTMLOptions) (string, error) {
	if model == nil {
		return "", fmt.Errorf("model cannot be nil")
	}

	if err := ValidateLayout(opts.Layout); err != nil {
		return "", err
	}

	if model.IsEmpty() {
		return generateEmptyHTML(opts.Title), nil
	}

	graphJSON, err := model.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}

	scriptSrc := opts.ScriptSrc
	if scriptSrc == "" {
		scriptSrc = DefaultScriptSrc
	}
	title := opts.Title
	if title == "" {
		title = DefaultOptions().Title
	}

	data := templateData{
		Title:     title,
		ScriptSrc: scriptSrc,
		GraphJSON: template.JS(graphJSON),
		Layout:    layoutToCytoscape(opts.Layout),
		Legend:    model.Legend,
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// ValidateLayout checks if the layout option is valid.
func ValidateLayout(layout string) error {
	switch layout {
	case "", "force", "circle", "grid":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be force, circle, or grid", layout)
	}
}

// templateData holds data for the HTML template.
type templateData struct {
	Title     string
	ScriptSrc string
	GraphJSON template.JS
	Layout    string
	Legend    Legend
}

// layoutToCytoscape converts user-friendly layout names to Cytoscape.js layout algorithm names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "circle":
		return "circle"
	case "grid":
		return "grid"
	default:
		return "cose"
	}
}

// swatchStyle returns the inline CSS of a legend shape swatch.
func swatchStyle(s Shape) template.CSS {
	base := "display:inline-block; width:12px; height:12px; background:#555;"
	switch s {
	case ShapeSquare:
		return template.CSS(base)
	case ShapeTriangle:
		return template.CSS(base + " clip-path:polygon(50% 0, 100% 100%, 0 100%);")
	default:
		return template.CSS(base + " border-radius:6px;")
	}
}

// generateEmptyHTML returns HTML for a view with nothing to draw.
func generateEmptyHTML(title string) string {
	if title == "" {
		title = DefaultOptions().Title
	}
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>` + template.HTMLEscapeString(title) + ` - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No graph data</h2>
    <p>The selected neighborhood has no nodes.</p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="{{.ScriptSrc}}"></script>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #f5f5f5;
    }
    #cy {
      width: 100%;
      height: 100vh;
      background: white;
    }
    #legend {
      position: absolute;
      top: 10px;
      right: 10px;
      background-color: white;
      border: 1px solid #ccc;
      padding: 10px;
      font-size: 14px;
      z-index: 1000;
      box-shadow: 0 2px 6px rgba(0,0,0,0.15);
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 300px;
      font-size: 13px;
      z-index: 1001;
      pointer-events: none;
    }
    #tooltip .type {
      font-size: 10px;
      text-transform: uppercase;
      color: #888;
      margin-bottom: 4px;
    }
    #tooltip .label {
      font-weight: bold;
      margin-bottom: 4px;
    }
    #tooltip .detail {
      color: #555;
      margin: 2px 0;
    }
  </style>
</head>
<body>
  <div id="cy"></div>
  <div id="tooltip"></div>
  <div id="legend">
    <strong>{{.Legend.Title}}</strong><br>
    {{- range .Legend.Entries}}
    {{- if .Shape}}
    <span style="{{swatchStyle .Shape}}"></span> {{.Label}}<br>
    {{- else}}
    <span style="color:{{.Color}};">&#9679;</span> {{.Label}}<br>
    {{- end}}
    {{- end}}
  </div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const layout = "{{.Layout}}";

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          {
            selector: 'node',
            style: {
              'background-color': 'data(color)',
              'shape': 'data(shape)',
              'label': 'data(label)',
              'color': '#333',
              'font-size': '14px',
              'text-valign': 'bottom',
              'text-margin-y': '5px',
              'width': '20px',
              'height': '20px'
            }
          },
          {
            selector: 'node[class="root"]',
            style: {
              'width': '40px',
              'height': '40px',
              'font-weight': 'bold'
            }
          },
          {
            selector: 'edge',
            style: {
              'line-color': '#95A5A6',
              'target-arrow-color': '#95A5A6',
              'target-arrow-shape': 'triangle',
              'arrow-scale': 0.6,
              'curve-style': 'bezier',
              'width': 1
            }
          },
          {
            selector: 'node.highlighted',
            style: {
              'border-width': 3,
              'border-color': '#ff6b6b'
            }
          },
          {
            selector: 'node.dimmed',
            style: {
              'opacity': 0.3
            }
          },
          {
            selector: 'edge.dimmed',
            style: {
              'opacity': 0.2
            }
          }
        ],
        layout: {
          name: layout,
          animate: false,
          nodeRepulsion: 8000,
          idealEdgeLength: 100,
          edgeElasticity: 100
        }
      });

      const tooltip = document.getElementById('tooltip');

      function showTooltip(evt, content) {
        tooltip.innerHTML = content;
        tooltip.style.display = 'block';
        const pos = evt.renderedPosition || evt.position;
        tooltip.style.left = (pos.x + 15) + 'px';
        tooltip.style.top = (pos.y + 15) + 'px';
      }

      function hideTooltip() {
        tooltip.style.display = 'none';
      }

      function getNodeTooltip(node) {
        const data = node.data();
        let html = '<div class="type">' + escapeHtml(data['class']) + '</div>';
        html += '<div class="label">' + escapeHtml(data.label) + '</div>';
        if (data.bio) html += '<div class="detail">' + escapeHtml(data.bio) + '</div>';
        if (data.cluster >= 0) html += '<div class="detail">Cluster ' + (data.cluster + 1) + '</div>';
        return html;
      }

      function escapeHtml(str) {
        if (!str) return '';
        return str.replace(/&/g, '&amp;')
                  .replace(/</g, '&lt;')
                  .replace(/>/g, '&gt;')
                  .replace(/"/g, '&quot;');
      }

      cy.on('mouseover', 'node', function(evt) {
        showTooltip(evt, getNodeTooltip(evt.target));
      });

      cy.on('mouseout', 'node', function() {
        hideTooltip();
      });

      cy.on('tap', 'node', function(evt) {
        const node = evt.target;
        cy.elements().removeClass('highlighted dimmed');
        const neighborhood = node.neighborhood().add(node);
        neighborhood.addClass('highlighted');
        cy.elements().not(neighborhood).addClass('dimmed');
      });

      cy.on('tap', function(evt) {
        if (evt.target === cy) {
          cy.elements().removeClass('highlighted dimmed');
        }
      });
    })();
  </script>
</body>
</html>`
