package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ai4socialgood/orgnet/internal/dashboard"
	"github.com/ai4socialgood/orgnet/internal/viz"
	"github.com/spf13/cobra"
)

var (
	renderView      string
	renderFirst     int
	renderSecond    int
	renderOutput    string
	renderLayout    string
	renderScriptSrc string
	renderTitle     string
)

func init() {
	renderCmd.Flags().StringVar(&renderView, "view", "structural", "View: structural or semantic")
	renderCmd.Flags().IntVar(&renderFirst, "first", 0, "Max first-degree nodes (default: the view's slider default)")
	renderCmd.Flags().IntVar(&renderSecond, "second", 0, "Max second-degree nodes (default: the view's slider default)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file path (default: stdout)")
	renderCmd.Flags().StringVar(&renderLayout, "layout", "", "Layout algorithm: force, circle, or grid (default: config)")
	renderCmd.Flags().StringVar(&renderScriptSrc, "script-src", "", "URL or path of cytoscape.min.js (default: config, then CDN)")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "Document title")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <org>",
	Short: "Render one view of an organization as HTML",
	Long: `Render one view of an organization's neighborhood as a self-contained
interactive HTML document.

The structural view colors nodes by degree (root red, first degree blue,
second degree green) and shapes them by node2vec cluster. The semantic view
colors nodes by bio-embedding cluster.

Examples:
  # Generate HTML to stdout
  orgnet render acar > acar.html

  # Semantic view, 50 first-degree and 200 second-degree nodes
  orgnet render acar --view semantic --first 50 --second 200 -o acar.html

  # Serve Cytoscape.js from a local copy
  orgnet render acar --script-src ./cytoscape.min.js -o acar.html`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

// RenderResult is the response for the render command.
type RenderResult struct {
	Output string           `json:"output"`
	Org    string           `json:"org"`
	View   dashboard.View   `json:"view"`
	Limits dashboard.Limits `json:"limits"`
	Stats  dashboard.Stats  `json:"stats"`
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	v := mustParseView(renderView)
	catalog := mustLoadCatalog(context.Background(), cfg)
	d := mustGetDataset(catalog, args[0])

	opts := viz.HTMLOptions{
		Title:     renderTitle,
		Layout:    cfg.Layout,
		ScriptSrc: cfg.ScriptSrc,
	}
	if renderLayout != "" {
		opts.Layout = renderLayout
	}
	if renderScriptSrc != "" {
		opts.ScriptSrc = renderScriptSrc
	}

	limits := resolveLimits(cmd, d, v, renderFirst, renderSecond)
	res, err := dashboard.Render(d, v, limits, opts)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	if renderOutput == "" {
		fmt.Print(res.HTML)
		return nil
	}

	if err := os.WriteFile(renderOutput, []byte(res.HTML), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if humanOutput {
		outputHuman("Rendered %s view of %s to %s\n", v, d.Org.Name, renderOutput)
		outputHuman("  First degree:  %d/%d\n", res.Stats.FirstRetained, res.Stats.FirstAvailable)
		outputHuman("  Second degree: %d/%d\n", res.Stats.SecondRetained, res.Stats.SecondAvailable)
	} else {
		outputJSON(RenderResult{
			Output: renderOutput,
			Org:    d.Org.Slug,
			View:   v,
			Limits: limits,
			Stats:  res.Stats,
		})
	}
	return nil
}
