package main

import (
	"context"

	"github.com/ai4socialgood/orgnet/internal/cluster"
	"github.com/ai4socialgood/orgnet/internal/dashboard"
	"github.com/spf13/cobra"
)

var clustersView string

func init() {
	clustersCmd.Flags().StringVar(&clustersView, "view", "structural", "Assignment to report: structural or semantic")
	rootCmd.AddCommand(clustersCmd)
}

var clustersCmd = &cobra.Command{
	Use:   "clusters <org>",
	Short: "Show cluster sizes of an organization",
	Long: `Show how many accounts each cluster holds, over the whole assignment and
within the organization's two-hop neighborhood.`,
	Args: cobra.ExactArgs(1),
	RunE: runClusters,
}

// ClusterCount is one cluster of the clusters command output.
type ClusterCount struct {
	Cluster      int `json:"cluster"`
	Assigned     int `json:"assigned"`
	Neighborhood int `json:"neighborhood"`
}

// ClustersResult is the response for the clusters command.
type ClustersResult struct {
	Org      string         `json:"org"`
	View     dashboard.View `json:"view"`
	Clusters []ClusterCount `json:"clusters"`
	// Unclustered counts neighborhood accounts without an assignment.
	Unclustered int `json:"unclustered"`
}

func runClusters(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	v := mustParseView(clustersView)
	catalog := mustLoadCatalog(context.Background(), cfg)
	d := mustGetDataset(catalog, args[0])

	result := clusterCounts(d, v)

	if humanOutput {
		outputHuman("%s %s clusters\n", d.Org.Name, v)
		outputHuman("%-10s %10s %14s\n", "CLUSTER", "ASSIGNED", "NEIGHBORHOOD")
		for _, c := range result.Clusters {
			outputHuman("%-10d %10d %14d\n", c.Cluster, c.Assigned, c.Neighborhood)
		}
		outputHuman("%-10s %10s %14d\n", "none", "-", result.Unclustered)
		return nil
	}
	return outputJSON(result)
}

// clusterCounts tallies the view's assignment over the whole graph and the
// root neighborhood.
func clusterCounts(d *dashboard.Dataset, v dashboard.View) ClustersResult {
	a := d.Assignment(v)
	assigned := a.Counts()

	local := make(map[int]int)
	unclustered := 0
	for handle := range d.Neighborhood.All() {
		id := a.Lookup(handle)
		if id == cluster.Unclustered {
			unclustered++
			continue
		}
		local[id]++
	}

	result := ClustersResult{Org: d.Org.Slug, View: v, Unclustered: unclustered}
	for _, id := range a.Clusters() {
		result.Clusters = append(result.Clusters, ClusterCount{
			Cluster:      id,
			Assigned:     assigned[id],
			Neighborhood: local[id],
		})
	}
	return result
}
