package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ai4socialgood/orgnet/internal/cluster"
	"github.com/ai4socialgood/orgnet/internal/graph"
	_ "modernc.org/sqlite"
)

// ErrOrgNotCached is returned when the cache holds no snapshot for an organization.
var ErrOrgNotCached = errors.New("organization not in cache")

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS nodes (
			org TEXT NOT NULL,
			id TEXT NOT NULL,
			bio TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (org, id)
		);

		CREATE TABLE IF NOT EXISTS edges (
			org TEXT NOT NULL,
			source_id TEXT NOT NULL,
			target_id TEXT NOT NULL,
			PRIMARY KEY (org, source_id, target_id)
		);

		CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(org, target_id);

		CREATE TABLE IF NOT EXISTS snapshots (
			org TEXT PRIMARY KEY,
			hash TEXT NOT NULL,
			synced_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS clusters (
			org TEXT NOT NULL,
			source TEXT NOT NULL,
			node_id TEXT NOT NULL,
			cluster INTEGER NOT NULL,
			PRIMARY KEY (org, source, node_id)
		);
	`

	_, err := db.Exec(schema)
	return err
}

// withTx runs fn in a transaction, committing only if fn succeeds.
func (d *DB) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// RebuildGraph replaces the cached graph of org with g.
func (d *DB) RebuildGraph(org string, g *graph.Graph) error {
	return d.withTx(func(tx *sql.Tx) error {
		return rebuildGraph(tx, org, g)
	})
}

func rebuildGraph(tx *sql.Tx, org string, g *graph.Graph) error {
	if _, err := tx.Exec("DELETE FROM nodes WHERE org = ?", org); err != nil {
		return fmt.Errorf("clearing nodes: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM edges WHERE org = ?", org); err != nil {
		return fmt.Errorf("clearing edges: %w", err)
	}

	nodeStmt, err := tx.Prepare("INSERT INTO nodes (org, id, bio) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing nodes insert: %w", err)
	}
	defer nodeStmt.Close()

	for _, n := range g.Nodes() {
		if _, err := nodeStmt.Exec(org, n.ID, n.Bio); err != nil {
			return fmt.Errorf("inserting node %s: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.Prepare("INSERT INTO edges (org, source_id, target_id) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing edges insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, e := range g.Edges() {
		if _, err := edgeStmt.Exec(org, e.Source, e.Target); err != nil {
			return fmt.Errorf("inserting edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}
	return nil
}

// Snapshot names the files an organization's cache entry is built from.
// Cluster paths may be empty.
type Snapshot struct {
	Nodes      string
	Edges      string
	Structural string
	Semantic   string
}

// Hash returns the content hash of every file in the snapshot.
func (s Snapshot) Hash() (string, error) {
	return ComputeSnapshotHash(s.Nodes, s.Edges, s.Structural, s.Semantic)
}

// RebuildOrg replaces everything cached for org in one transaction: the graph
// read from the snapshot's JSONL files, both cluster assignments, and the
// snapshot hash NeedsSync compares against. Nil assignments are stored empty.
// On error nothing is changed.
func (d *DB) RebuildOrg(org string, snap Snapshot, structural, semantic *cluster.Assignment) (OrgCounts, error) {
	hash, err := snap.Hash()
	if err != nil {
		return OrgCounts{}, fmt.Errorf("computing hash: %w", err)
	}
	g, err := LoadGraphJSONL(snap.Nodes, snap.Edges)
	if err != nil {
		return OrgCounts{}, fmt.Errorf("reading JSONL: %w", err)
	}
	if structural == nil {
		structural = cluster.New(cluster.SourceStructural)
	}
	if semantic == nil {
		semantic = cluster.New(cluster.SourceSemantic)
	}

	err = d.withTx(func(tx *sql.Tx) error {
		if err := rebuildGraph(tx, org, g); err != nil {
			return err
		}
		for _, a := range []*cluster.Assignment{structural, semantic} {
			if err := rebuildClusters(tx, org, a); err != nil {
				return fmt.Errorf("rebuilding %s clusters: %w", a.Source, err)
			}
		}
		if err := setSnapshot(tx, org, hash, time.Now()); err != nil {
			return fmt.Errorf("updating snapshot hash: %w", err)
		}
		return nil
	})
	if err != nil {
		return OrgCounts{}, err
	}

	return OrgCounts{
		Nodes:      g.NodeCount(),
		Edges:      g.EdgeCount(),
		Structural: structural.Len(),
		Semantic:   semantic.Len(),
	}, nil
}

func setSnapshot(tx *sql.Tx, org, hash string, at time.Time) error {
	_, err := tx.Exec(
		"INSERT OR REPLACE INTO snapshots (org, hash, synced_at) VALUES (?, ?, ?)",
		org, hash, at.UTC().Format(time.RFC3339),
	)
	return err
}

// NeedsSync reports whether the cache entry of org is missing or was built
// from files whose content has since changed, cluster files included.
func (d *DB) NeedsSync(org string, snap Snapshot) (bool, error) {
	current, err := snap.Hash()
	if err != nil {
		return true, err
	}

	var stored string
	err = d.db.QueryRow("SELECT hash FROM snapshots WHERE org = ?", org).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	return current != stored, nil
}

// LastSync returns when org was last rebuilt from its snapshot, or the zero
// time if never.
func (d *DB) LastSync(org string) (time.Time, error) {
	var s string
	err := d.db.QueryRow("SELECT synced_at FROM snapshots WHERE org = ?", org).Scan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, s)
}

// LoadGraph builds the cached graph of org.
// Returns ErrOrgNotCached if the org has no nodes in the cache.
func (d *DB) LoadGraph(org string) (*graph.Graph, error) {
	rows, err := d.db.Query("SELECT id, bio FROM nodes WHERE org = ? ORDER BY id", org)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	var nodes []graph.Node
	for rows.Next() {
		var n graph.Node
		if err := rows.Scan(&n.ID, &n.Bio); err != nil {
			rows.Close()
			return nil, err
		}
		nodes = append(nodes, n)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrOrgNotCached, org)
	}

	rows, err = d.db.Query(`
		SELECT source_id, target_id FROM edges
		WHERE org = ?
		ORDER BY source_id, target_id
	`, org)
	if err != nil {
		return nil, fmt.Errorf("querying edges: %w", err)
	}
	defer rows.Close()

	var edges []graph.Edge
	for rows.Next() {
		var e graph.Edge
		if err := rows.Scan(&e.Source, &e.Target); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return graph.Build(nodes, edges), nil
}

// RebuildClusters replaces the cached assignment of org for the assignment's source.
func (d *DB) RebuildClusters(org string, a *cluster.Assignment) (int, error) {
	if err := d.withTx(func(tx *sql.Tx) error {
		return rebuildClusters(tx, org, a)
	}); err != nil {
		return 0, err
	}
	return a.Len(), nil
}

func rebuildClusters(tx *sql.Tx, org string, a *cluster.Assignment) error {
	if _, err := tx.Exec("DELETE FROM clusters WHERE org = ? AND source = ?", org, string(a.Source)); err != nil {
		return fmt.Errorf("clearing clusters: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO clusters (org, source, node_id, cluster) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing clusters insert: %w", err)
	}
	defer stmt.Close()

	for handle, id := range a.Members {
		if _, err := stmt.Exec(org, string(a.Source), handle, id); err != nil {
			return fmt.Errorf("inserting cluster for %s: %w", handle, err)
		}
	}
	return nil
}

// LoadAssignment returns the cached assignment of org for source.
// An org without cached clusters yields an empty assignment.
func (d *DB) LoadAssignment(org string, source cluster.Source) (*cluster.Assignment, error) {
	rows, err := d.db.Query(
		"SELECT node_id, cluster FROM clusters WHERE org = ? AND source = ?",
		org, string(source),
	)
	if err != nil {
		return nil, fmt.Errorf("querying clusters: %w", err)
	}
	defer rows.Close()

	a := cluster.New(source)
	for rows.Next() {
		var handle string
		var id int
		if err := rows.Scan(&handle, &id); err != nil {
			return nil, err
		}
		a.Set(handle, id)
	}
	return a, rows.Err()
}

// OrgCounts summarizes what the cache holds for one organization.
type OrgCounts struct {
	Nodes      int `json:"nodes"`
	Edges      int `json:"edges"`
	Structural int `json:"structural"`
	Semantic   int `json:"semantic"`
}

// Counts returns the cached row counts for org.
func (d *DB) Counts(org string) (OrgCounts, error) {
	var c OrgCounts
	queries := []struct {
		dst   *int
		query string
		args  []any
	}{
		{&c.Nodes, "SELECT COUNT(*) FROM nodes WHERE org = ?", []any{org}},
		{&c.Edges, "SELECT COUNT(*) FROM edges WHERE org = ?", []any{org}},
		{&c.Structural, "SELECT COUNT(*) FROM clusters WHERE org = ? AND source = ?", []any{org, string(cluster.SourceStructural)}},
		{&c.Semantic, "SELECT COUNT(*) FROM clusters WHERE org = ? AND source = ?", []any{org, string(cluster.SourceSemantic)}},
	}
	for _, q := range queries {
		if err := d.db.QueryRow(q.query, q.args...).Scan(q.dst); err != nil {
			return OrgCounts{}, fmt.Errorf("counting: %w", err)
		}
	}
	return c, nil
}

// HasOrg reports whether the cache holds a graph for org.
func (d *DB) HasOrg(org string) (bool, error) {
	var n int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM nodes WHERE org = ?", org).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
