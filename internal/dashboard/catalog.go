package dashboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/ai4socialgood/orgnet/internal/cluster"
	"github.com/ai4socialgood/orgnet/internal/config"
	"github.com/ai4socialgood/orgnet/internal/graph"
	"github.com/ai4socialgood/orgnet/internal/storage"
)

// ErrUnknownOrg is returned when a slug names no loaded organization.
var ErrUnknownOrg = errors.New("unknown organization")

// Catalog maps organization slugs to their datasets.
type Catalog struct {
	datasets map[string]*Dataset
	order    []string

	// Warnings lists non-fatal load problems such as missing cluster files.
	Warnings []string
}

// NewCatalog builds a catalog from datasets, keeping their order.
// Duplicate slugs are an error.
func NewCatalog(datasets ...*Dataset) (*Catalog, error) {
	c := &Catalog{datasets: make(map[string]*Dataset, len(datasets))}
	for _, d := range datasets {
		if _, dup := c.datasets[d.Org.Slug]; dup {
			return nil, fmt.Errorf("duplicate organization %q", d.Org.Slug)
		}
		c.datasets[d.Org.Slug] = d
		c.order = append(c.order, d.Org.Slug)
	}
	return c, nil
}

// Get returns the dataset for slug.
func (c *Catalog) Get(slug string) (*Dataset, error) {
	d, ok := c.datasets[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrg, slug)
	}
	return d, nil
}

// List returns the datasets in configuration order.
func (c *Catalog) List() []*Dataset {
	out := make([]*Dataset, 0, len(c.order))
	for _, slug := range c.order {
		out = append(out, c.datasets[slug])
	}
	return out
}

// Slugs returns the organization slugs sorted alphabetically.
func (c *Catalog) Slugs() []string {
	slugs := append([]string(nil), c.order...)
	sort.Strings(slugs)
	return slugs
}

// Load builds a dataset for every configured organization. Graphs and
// assignments come from the SQLite cache when it holds an up-to-date copy of
// the organization and from the snapshot files otherwise. An edit to any
// snapshot or cluster file makes the cached copy stale. A missing root
// handle fails the load.
func Load(ctx context.Context, cfg *config.Config) (*Catalog, error) {
	var db *storage.DB
	if path := cfg.CachePath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			db, err = storage.OpenDB(path)
			if err != nil {
				return nil, err
			}
			defer db.Close()
		}
	}

	var datasets []*Dataset
	var warnings []string
	for _, oc := range cfg.Orgs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		d, warns, err := loadOrg(cfg, oc, db)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, d)
		warnings = append(warnings, warns...)
	}

	c, err := NewCatalog(datasets...)
	if err != nil {
		return nil, err
	}
	c.Warnings = warnings
	return c, nil
}

// OrgFromConfig converts an organization entry of the config.
func OrgFromConfig(oc config.OrgConfig) Org {
	name := oc.Name
	if name == "" {
		name = oc.Handle
	}
	return Org{Slug: oc.Slug, Name: name, Handle: graph.NormalizeID(oc.Handle)}
}

// SnapshotFiles returns the resolved snapshot and cluster files of an organization.
func SnapshotFiles(cfg *config.Config, oc config.OrgConfig) storage.Snapshot {
	return storage.Snapshot{
		Nodes:      cfg.ResolveData(oc.Nodes),
		Edges:      cfg.ResolveData(oc.Edges),
		Structural: cfg.ResolveData(oc.Structural),
		Semantic:   cfg.ResolveData(oc.Semantic),
	}
}

func loadOrg(cfg *config.Config, oc config.OrgConfig, db *storage.DB) (*Dataset, []string, error) {
	org := OrgFromConfig(oc)
	snap := SnapshotFiles(cfg, oc)

	var warnings []string
	if db != nil {
		cached, err := db.HasOrg(oc.Slug)
		if err != nil {
			return nil, nil, fmt.Errorf("org %s: checking cache: %w", oc.Slug, err)
		}
		if cached {
			stale, err := db.NeedsSync(oc.Slug, snap)
			if err != nil {
				return nil, nil, fmt.Errorf("org %s: checking cache: %w", oc.Slug, err)
			}
			if !stale {
				d, err := loadCached(cfg, org, db)
				return d, nil, err
			}
			warnings = append(warnings, fmt.Sprintf("org %s: cache is stale, reading snapshots (run 'orgnet rebuild')", oc.Slug))
		}
	}

	g, err := storage.LoadGraphJSONL(snap.Nodes, snap.Edges)
	if err != nil {
		return nil, nil, fmt.Errorf("org %s: %w", oc.Slug, err)
	}

	structural, err := loadAssignment(snap.Structural, oc.StructuralKey, cluster.SourceStructural)
	if err != nil {
		if !errors.Is(err, cluster.ErrAssignmentNotFound) {
			return nil, nil, fmt.Errorf("org %s: %w", oc.Slug, err)
		}
		warnings = append(warnings, fmt.Sprintf("org %s: %v", oc.Slug, err))
	}
	semantic, err := loadAssignment(snap.Semantic, "", cluster.SourceSemantic)
	if err != nil {
		if !errors.Is(err, cluster.ErrAssignmentNotFound) {
			return nil, nil, fmt.Errorf("org %s: %w", oc.Slug, err)
		}
		warnings = append(warnings, fmt.Sprintf("org %s: %v", oc.Slug, err))
	}

	d, err := NewDataset(org, g, structural, semantic, graph.Ranking(cfg.Ranking), cfg.Views)
	return d, warnings, err
}

func loadCached(cfg *config.Config, org Org, db *storage.DB) (*Dataset, error) {
	g, err := db.LoadGraph(org.Slug)
	if err != nil {
		return nil, fmt.Errorf("org %s: %w", org.Slug, err)
	}
	structural, err := db.LoadAssignment(org.Slug, cluster.SourceStructural)
	if err != nil {
		return nil, fmt.Errorf("org %s: %w", org.Slug, err)
	}
	semantic, err := db.LoadAssignment(org.Slug, cluster.SourceSemantic)
	if err != nil {
		return nil, fmt.Errorf("org %s: %w", org.Slug, err)
	}
	return NewDataset(org, g, structural, semantic, graph.Ranking(cfg.Ranking), cfg.Views)
}

// loadAssignment reads an assignment file; an unset path yields nil.
func loadAssignment(path, keyColumn string, source cluster.Source) (*cluster.Assignment, error) {
	if path == "" {
		return nil, nil
	}
	return cluster.LoadFile(path, keyColumn, source)
}
