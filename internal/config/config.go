// Package config handles project and global configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the project configuration file name.
const ConfigFile = "orgnet.yml"

// ErrConfigNotFound is returned when no configuration file can be located.
var ErrConfigNotFound = errors.New("no orgnet.yml found")

// Config represents project configuration stored in orgnet.yml.
type Config struct {
	DataDir   string       `yaml:"data_dir"`
	CacheDB   string       `yaml:"cache_db,omitempty"`
	Layout    string       `yaml:"layout,omitempty"`     // force, circle or grid
	ScriptSrc string       `yaml:"script_src,omitempty"` // Cytoscape.js location
	Ranking   string       `yaml:"ranking,omitempty"`    // degree or pagerank
	Server    ServerConfig `yaml:"server"`
	Views     ViewsConfig  `yaml:"views"`
	Orgs      []OrgConfig  `yaml:"orgs"`

	// root is the directory relative paths are resolved against.
	root string
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Addr      string  `yaml:"addr"`
	LogLevel  string  `yaml:"log_level"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second per client
	RateBurst int     `yaml:"rate_burst"`
}

// ViewsConfig holds the slider bounds of both views.
type ViewsConfig struct {
	Structural ViewBounds `yaml:"structural"`
	Semantic   ViewBounds `yaml:"semantic"`
}

// ViewBounds configures the max-first/max-second sliders of a view.
type ViewBounds struct {
	Min           int `yaml:"min"`
	Step          int `yaml:"step"`
	DefaultFirst  int `yaml:"default_first"`
	DefaultSecond int `yaml:"default_second"`
}

// OrgConfig describes one organization page and its snapshot files.
// Relative paths are resolved against the data directory.
type OrgConfig struct {
	Slug          string `yaml:"slug"`
	Name          string `yaml:"name"`
	Handle        string `yaml:"handle"`
	Nodes         string `yaml:"nodes"`
	Edges         string `yaml:"edges"`
	Structural    string `yaml:"structural,omitempty"`
	StructuralKey string `yaml:"structural_key,omitempty"`
	Semantic      string `yaml:"semantic,omitempty"`
}

// ValidLayouts lists the supported layout values.
var ValidLayouts = []string{"force", "circle", "grid"}

// ValidRankings lists the supported ranking values.
var ValidRankings = []string{"degree", "pagerank"}

// Default returns the configuration of the three organizations the dashboard
// was built for.
func Default() *Config {
	cfg := &Config{
		DataDir: "data",
		CacheDB: "cache/orgnet.db",
		Layout:  "force",
		Ranking: "degree",
		Server: ServerConfig{
			Addr:      "127.0.0.1:8501",
			LogLevel:  "info",
			RateLimit: 20,
			RateBurst: 40,
		},
		Views: ViewsConfig{
			Structural: ViewBounds{Min: 10, Step: 10, DefaultFirst: 10, DefaultSecond: 500},
			Semantic:   ViewBounds{Min: 10, Step: 10, DefaultFirst: 20, DefaultSecond: 400},
		},
	}
	for _, org := range []struct{ slug, name, handle string }{
		{"autismbc", "AutismBC", "AutismBC"},
		{"acar", "Azrieli Centre for Autism Research (ACAR)", "NeuroACAR"},
		{"asf", "Autism Science Foundation (ASF)", "AutismScience"},
	} {
		cfg.Orgs = append(cfg.Orgs, OrgConfig{
			Slug:       org.slug,
			Name:       org.name,
			Handle:     org.handle,
			Nodes:      filepath.Join(org.slug, "nodes.jsonl"),
			Edges:      filepath.Join(org.slug, "edges.jsonl"),
			Structural: filepath.Join(org.slug, "embeddings.csv"),
			Semantic:   filepath.Join(org.slug, "semantic.gob"),
		})
	}
	return cfg
}

// FindConfig walks up from start looking for orgnet.yml.
// Returns the config file path or ErrConfigNotFound.
func FindConfig(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		candidate := filepath.Join(abs, ConfigFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrConfigNotFound
		}
		abs = parent
	}
}

// Load reads configuration from a YAML file. Missing fields keep their
// Default values and environment overrides are applied last.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.root = filepath.Dir(path)
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. An orgs list in data replaces the
// default organizations entirely.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	orgs := cfg.Orgs
	cfg.Orgs = nil

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Orgs == nil {
		cfg.Orgs = orgs
	}
	return cfg, nil
}

// Save writes the configuration as YAML to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from ORGNET_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ORGNET_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("ORGNET_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("ORGNET_DATA_DIR"); v != "" {
		c.DataDir = v
	}
}

// SetRoot sets the directory relative paths are resolved against.
func (c *Config) SetRoot(dir string) {
	c.root = dir
}

// Root returns the directory relative paths are resolved against.
func (c *Config) Root() string {
	return c.root
}

// resolve makes path absolute relative to base, expanding a leading ~.
func resolve(base, path string) string {
	path = ExpandPath(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// DataPath returns the absolute data directory.
func (c *Config) DataPath() string {
	return resolve(c.root, c.DataDir)
}

// CachePath returns the absolute path of the SQLite cache, or "" if disabled.
func (c *Config) CachePath() string {
	if c.CacheDB == "" {
		return ""
	}
	return resolve(c.DataPath(), c.CacheDB)
}

// ResolveData returns the absolute path of a data file named in an OrgConfig.
func (c *Config) ResolveData(path string) string {
	if path == "" {
		return ""
	}
	return resolve(c.DataPath(), path)
}

// Org returns the organization with the given slug.
func (c *Config) Org(slug string) (OrgConfig, bool) {
	for _, o := range c.Orgs {
		if o.Slug == slug {
			return o, true
		}
	}
	return OrgConfig{}, false
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if len(c.Orgs) == 0 {
		return errors.New("at least one organization is required")
	}

	seen := make(map[string]bool, len(c.Orgs))
	for i, o := range c.Orgs {
		if o.Slug == "" {
			return fmt.Errorf("orgs[%d]: slug is required", i)
		}
		if strings.ContainsAny(o.Slug, "/ ?#") {
			return fmt.Errorf("orgs[%d]: slug %q must not contain '/', '?', '#' or spaces", i, o.Slug)
		}
		if seen[o.Slug] {
			return fmt.Errorf("orgs[%d]: duplicate slug %q", i, o.Slug)
		}
		seen[o.Slug] = true

		if strings.TrimSpace(o.Handle) == "" {
			return fmt.Errorf("org %s: handle is required", o.Slug)
		}
		if o.Nodes == "" && o.Edges == "" {
			return fmt.Errorf("org %s: nodes or edges file is required", o.Slug)
		}
	}

	if err := ValidateLayout(c.Layout); err != nil {
		return err
	}
	if err := ValidateRanking(c.Ranking); err != nil {
		return err
	}
	if err := c.Views.Structural.Validate("structural"); err != nil {
		return err
	}
	if err := c.Views.Semantic.Validate("semantic"); err != nil {
		return err
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return errors.New("server rate_limit and rate_burst must not be negative")
	}
	return nil
}

// Validate checks slider bounds for a view.
func (b ViewBounds) Validate(view string) error {
	if b.Min < 0 {
		return fmt.Errorf("views.%s.min must not be negative", view)
	}
	if b.Step <= 0 {
		return fmt.Errorf("views.%s.step must be positive", view)
	}
	if b.DefaultFirst < b.Min || b.DefaultSecond < b.Min {
		return fmt.Errorf("views.%s defaults must be at least min (%d)", view, b.Min)
	}
	return nil
}

// ValidateLayout checks that the layout value is valid.
func ValidateLayout(layout string) error {
	if layout == "" {
		return nil
	}
	for _, valid := range ValidLayouts {
		if layout == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid layout: %s (valid: %v)", layout, ValidLayouts)
}

// ValidateRanking checks that the ranking value is valid.
func ValidateRanking(ranking string) error {
	if ranking == "" {
		return nil
	}
	for _, valid := range ValidRankings {
		if ranking == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid ranking: %s (valid: %v)", ranking, ValidRankings)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
