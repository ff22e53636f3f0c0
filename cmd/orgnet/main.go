// Package main provides the orgnet CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ai4socialgood/orgnet/internal/config"
	"github.com/ai4socialgood/orgnet/internal/dashboard"
	"github.com/ai4socialgood/orgnet/internal/graph"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configFlag overrides config discovery
var configFlag string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "orgnet",
	Short: "Neighborhood dashboard for advocacy-organization follow graphs",
	Long: `orgnet renders the follow-graph neighborhood of autism advocacy
organizations on X as interactive node-link diagrams.

Core features:
  - First and second degree neighborhoods around an organization account
  - Ranking by degree centrality (or PageRank) with adjustable limits
  - Structural (node2vec) and semantic (bio embedding) cluster views
  - Browser dashboard with sliders, JSON API and Prometheus metrics

Snapshots are stored as JSONL with an optional SQLite cache for fast startup.
All commands output JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to orgnet.yml (default: search upward, then global config)")
	rootCmd.Version = Version
}

// mustLoadConfig locates and loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	path, err := config.Locate(configFlag, cwd)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
			os.Exit(ExitConfigError)
		}
		exitWithError(ExitConfigError, "locating config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustLoadCatalog loads every configured organization, exits on error.
func mustLoadCatalog(ctx context.Context, cfg *config.Config) *dashboard.Catalog {
	catalog, err := dashboard.Load(ctx, cfg)
	if err != nil {
		exitWithError(loadExitCode(err), "loading data: %v", err)
	}
	for _, w := range catalog.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return catalog
}

// mustGetDataset returns the dataset for slug, exits if it is unknown.
func mustGetDataset(catalog *dashboard.Catalog, slug string) *dashboard.Dataset {
	d, err := catalog.Get(slug)
	if err != nil {
		exitWithError(ExitNotFound, "%v (configured: %v)", err, catalog.Slugs())
	}
	return d
}

// mustParseView parses a view flag, exits on error.
func mustParseView(name string) dashboard.View {
	v, err := dashboard.ParseView(name)
	if err != nil {
		exitWithError(ExitNotFound, "%v", err)
	}
	return v
}

// loadExitCode maps a load error to an exit code.
func loadExitCode(err error) int {
	switch {
	case errors.Is(err, graph.ErrRootNotFound):
		return ExitRootNotFound
	case errors.Is(err, context.Canceled):
		return ExitError
	default:
		return ExitDataError
	}
}

// resolveLimits starts from the view's slider defaults and applies any flag
// the user set. Explicit values are used as given: RankAndTruncate clamps them.
func resolveLimits(cmd *cobra.Command, d *dashboard.Dataset, v dashboard.View, first, second int) dashboard.Limits {
	l := d.Bounds(v).Defaults()
	if cmd.Flags().Changed("first") {
		l.MaxFirst = first
	}
	if cmd.Flags().Changed("second") {
		l.MaxSecond = second
	}
	return l
}
