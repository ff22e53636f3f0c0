package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if len(cfg.Orgs) != 3 {
		t.Fatalf("expected 3 orgs, got %d", len(cfg.Orgs))
	}

	acar, ok := cfg.Org("acar")
	if !ok {
		t.Fatal("acar missing from defaults")
	}
	if acar.Handle != "NeuroACAR" {
		t.Errorf("acar handle = %q", acar.Handle)
	}
	if got := cfg.Views.Structural; got.DefaultFirst != 10 || got.DefaultSecond != 500 {
		t.Errorf("structural defaults = %+v", got)
	}
	if got := cfg.Views.Semantic; got.DefaultFirst != 20 || got.DefaultSecond != 400 {
		t.Errorf("semantic defaults = %+v", got)
	}
}

func TestParse_KeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("layout: circle\nserver:\n  addr: \":9000\"\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Layout != "circle" {
		t.Errorf("Layout = %q", cfg.Layout)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.LogLevel != "info" {
		t.Errorf("LogLevel default lost: %q", cfg.Server.LogLevel)
	}
	if len(cfg.Orgs) != 3 {
		t.Errorf("default orgs lost: %d", len(cfg.Orgs))
	}
}

func TestParse_OrgsReplaceDefaults(t *testing.T) {
	data := `
orgs:
  - slug: demo
    name: Demo
    handle: DemoOrg
    nodes: demo/nodes.jsonl
    edges: demo/edges.jsonl
`
	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cfg.Orgs) != 1 || cfg.Orgs[0].Slug != "demo" {
		t.Errorf("Orgs = %+v", cfg.Orgs)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("orgs: [unclosed")); err == nil {
		t.Error("expected YAML error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFile)
	if err := os.WriteFile(path, []byte("data_dir: snapshots\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ORGNET_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Errorf("env override not applied: %q", cfg.Server.LogLevel)
	}
	if got, want := cfg.DataPath(), filepath.Join(dir, "snapshots"); got != want {
		t.Errorf("DataPath() = %q, want %q", got, want)
	}
	if got, want := cfg.ResolveData("acar/nodes.jsonl"), filepath.Join(dir, "snapshots", "acar", "nodes.jsonl"); got != want {
		t.Errorf("ResolveData() = %q, want %q", got, want)
	}
	if got, want := cfg.CachePath(), filepath.Join(dir, "snapshots", "cache", "orgnet.db"); got != want {
		t.Errorf("CachePath() = %q, want %q", got, want)
	}
	if got := cfg.ResolveData("/abs/edges.jsonl"); got != "/abs/edges.jsonl" {
		t.Errorf("absolute path changed: %q", got)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), ConfigFile))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	cfg := Default()
	cfg.Layout = "grid"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Layout != "grid" || len(loaded.Orgs) != 3 {
		t.Errorf("round trip lost data: layout=%q orgs=%d", loaded.Layout, len(loaded.Orgs))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"no orgs", func(c *Config) { c.Orgs = nil }, "at least one"},
		{"empty slug", func(c *Config) { c.Orgs[0].Slug = "" }, "slug is required"},
		{"slash in slug", func(c *Config) { c.Orgs[0].Slug = "a/b" }, "must not contain"},
		{"duplicate slug", func(c *Config) { c.Orgs[1].Slug = c.Orgs[0].Slug }, "duplicate slug"},
		{"empty handle", func(c *Config) { c.Orgs[0].Handle = " " }, "handle is required"},
		{"no files", func(c *Config) { c.Orgs[0].Nodes, c.Orgs[0].Edges = "", "" }, "nodes or edges"},
		{"bad layout", func(c *Config) { c.Layout = "spiral" }, "invalid layout"},
		{"bad ranking", func(c *Config) { c.Ranking = "closeness" }, "invalid ranking"},
		{"zero step", func(c *Config) { c.Views.Semantic.Step = 0 }, "step must be positive"},
		{"default below min", func(c *Config) { c.Views.Structural.DefaultFirst = 5 }, "at least min"},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -1 }, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := FindConfig(nested); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}

	path := filepath.Join(root, ConfigFile)
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig failed: %v", err)
	}
	if got != path {
		t.Errorf("FindConfig() = %q, want %q", got, path)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/data", filepath.Join(home, "data")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.input); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
