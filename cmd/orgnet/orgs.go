package main

import (
	"context"
	"os"
	"time"

	"github.com/ai4socialgood/orgnet/internal/config"
	"github.com/ai4socialgood/orgnet/internal/dashboard"
	"github.com/ai4socialgood/orgnet/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(orgsCmd)
}

var orgsCmd = &cobra.Command{
	Use:   "orgs",
	Short: "List configured organizations",
	Long: `List configured organizations with graph, neighborhood and cluster counts,
and when each was last written to the SQLite cache.`,
	RunE: runOrgs,
}

// OrgEntry is one organization in the orgs response.
type OrgEntry struct {
	dashboard.Summary
	SyncedAt *time.Time `json:"synced_at,omitempty"`
}

func runOrgs(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	catalog := mustLoadCatalog(context.Background(), cfg)

	synced, err := syncTimes(cfg)
	if err != nil {
		exitWithError(ExitError, "reading cache: %v", err)
	}

	entries := make([]OrgEntry, 0, len(catalog.List()))
	for _, d := range catalog.List() {
		e := OrgEntry{Summary: d.Summary()}
		if ts, ok := synced[d.Org.Slug]; ok {
			e.SyncedAt = &ts
		}
		entries = append(entries, e)
	}

	if humanOutput {
		outputHuman("%-12s %-40s %8s %8s %7s %7s  %s\n", "SLUG", "NAME", "NODES", "EDGES", "1ST", "2ND", "SYNCED")
		for _, e := range entries {
			when := "never"
			if e.SyncedAt != nil {
				when = e.SyncedAt.Local().Format("2006-01-02 15:04")
			}
			outputHuman("%-12s %-40s %8d %8d %7d %7d  %s\n",
				e.Org.Slug, truncateString(e.Org.Name, 40), e.Nodes, e.Edges, e.First, e.Second, when)
		}
		return nil
	}
	return outputJSON(entries)
}

// syncTimes returns when each configured organization was last rebuilt into
// the cache. Organizations never rebuilt, or a missing cache, are left out.
func syncTimes(cfg *config.Config) (map[string]time.Time, error) {
	out := make(map[string]time.Time)
	path := cfg.CachePath()
	if path == "" {
		return out, nil
	}
	if _, err := os.Stat(path); err != nil {
		return out, nil
	}

	db, err := storage.OpenDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	for _, oc := range cfg.Orgs {
		ts, err := db.LastSync(oc.Slug)
		if err != nil {
			return nil, err
		}
		if !ts.IsZero() {
			out[oc.Slug] = ts
		}
	}
	return out, nil
}
