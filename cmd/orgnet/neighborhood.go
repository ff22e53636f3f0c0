package main

import (
	"context"

	"github.com/ai4socialgood/orgnet/internal/dashboard"
	"github.com/spf13/cobra"
)

var (
	neighborhoodView   string
	neighborhoodFirst  int
	neighborhoodSecond int
	neighborhoodAll    bool
)

func init() {
	neighborhoodCmd.Flags().StringVar(&neighborhoodView, "view", "structural", "View whose slider defaults apply")
	neighborhoodCmd.Flags().IntVar(&neighborhoodFirst, "first", 0, "Max first-degree nodes")
	neighborhoodCmd.Flags().IntVar(&neighborhoodSecond, "second", 0, "Max second-degree nodes")
	neighborhoodCmd.Flags().BoolVar(&neighborhoodAll, "all", false, "Keep every first and second degree node")
	rootCmd.AddCommand(neighborhoodCmd)
}

var neighborhoodCmd = &cobra.Command{
	Use:   "neighborhood <org>",
	Short: "Show the first and second degree neighborhood of an organization",
	Long: `Show the accounts within two hops of an organization, in either edge
direction, keeping the highest-ranked nodes of each degree.`,
	Args: cobra.ExactArgs(1),
	RunE: runNeighborhood,
}

// NeighborhoodResult is the response for the neighborhood command.
type NeighborhoodResult struct {
	Org             string           `json:"org"`
	Root            string           `json:"root"`
	Limits          dashboard.Limits `json:"limits"`
	FirstAvailable  int              `json:"first_available"`
	SecondAvailable int              `json:"second_available"`
	First           []string         `json:"first"`
	Second          []string         `json:"second"`
}

func runNeighborhood(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	v := mustParseView(neighborhoodView)
	catalog := mustLoadCatalog(context.Background(), cfg)
	d := mustGetDataset(catalog, args[0])

	limits := resolveLimits(cmd, d, v, neighborhoodFirst, neighborhoodSecond)
	if neighborhoodAll {
		limits = dashboard.Limits{MaxFirst: d.Neighborhood.First.Len(), MaxSecond: d.Neighborhood.Second.Len()}
	}
	sel := d.Neighborhood.Truncate(d.Centrality, limits.MaxFirst, limits.MaxSecond)

	result := NeighborhoodResult{
		Org:             d.Org.Slug,
		Root:            sel.Root,
		Limits:          limits,
		FirstAvailable:  d.Neighborhood.First.Len(),
		SecondAvailable: d.Neighborhood.Second.Len(),
		First:           sel.First.Sorted(),
		Second:          sel.Second.Sorted(),
	}

	if humanOutput {
		outputHuman("%s (@%s)\n", d.Org.Name, result.Root)
		outputHuman("First degree %d/%d:\n%s\n", len(result.First), result.FirstAvailable, wrapList(result.First, 72, "  "))
		outputHuman("Second degree %d/%d:\n%s\n", len(result.Second), result.SecondAvailable, wrapList(result.Second, 72, "  "))
		return nil
	}
	return outputJSON(result)
}
