package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scholarly-tools/pubmerge/internal/merge"
	"github.com/scholarly-tools/pubmerge/internal/publication"
)

func TestPathFunctions(t *testing.T) {
	root := "/test/root"

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"ProjectPath", ProjectPath, "/test/root/.pubmerge"},
		{"ConfigPath", ConfigPath, "/test/root/.pubmerge/config.yml"},
		{"PublicationsPath", PublicationsPath, "/test/root/.pubmerge/publications.jsonl"},
		{"MetricsPath", MetricsPath, "/test/root/.pubmerge/metrics.json"},
		{"CachePath", CachePath, "/test/root/.pubmerge/cache"},
		{"DBPath", DBPath, "/test/root/.pubmerge/cache/publications.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(root); got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, root, got, tt.want)
			}
		})
	}
}

func TestFindProject(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(ProjectPath(tmpDir), 0755); err != nil {
		t.Fatal(err)
	}
	subDir := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProject(subDir)
	if err != nil {
		t.Fatalf("FindProject() error = %v", err)
	}
	want, _ := filepath.EvalSymlinks(tmpDir)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != want {
		t.Errorf("FindProject() = %q, want %q", got, tmpDir)
	}
}

func TestFindProject_NotFound(t *testing.T) {
	if _, err := FindProject(t.TempDir()); err == nil {
		t.Error("FindProject() expected error outside a project")
	}
}

func TestIsProject_FileNotDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(ProjectPath(tmpDir), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if IsProject(tmpDir) {
		t.Error("IsProject() = true for a plain file")
	}
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	order := cfg.Order()
	want := publication.DefaultOrder()
	if len(order) != len(want) {
		t.Fatalf("Order() has %d sources, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Order()[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestConfig_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(ProjectPath(tmpDir), 0755); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.Sources = cfg.Sources[:2]
	cfg.Matching.LongThreshold = 0.75
	cfg.Merge = map[string]string{"year": "authoritative_overwrite"}

	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Sources) != 2 || loaded.Sources[1].Name != "scholar" {
		t.Errorf("Sources = %+v", loaded.Sources)
	}
	if loaded.Matching.LongThreshold != 0.75 {
		t.Errorf("LongThreshold = %v", loaded.Matching.LongThreshold)
	}

	res, err := loaded.Resolver()
	if err != nil {
		t.Fatalf("Resolver() error = %v", err)
	}
	if res.Policies[merge.FieldYear] != merge.AuthoritativeOverwrite {
		t.Errorf("year policy = %v", res.Policies[merge.FieldYear])
	}
	if res.Policies[merge.FieldVenue] != merge.LongerWins {
		t.Errorf("venue policy = %v, want default kept", res.Policies[merge.FieldVenue])
	}
	if res.Authority != publication.SourceCrossref {
		t.Errorf("Authority = %q", res.Authority)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(ProjectPath(tmpDir), 0755); err != nil {
		t.Fatal(err)
	}
	data := "sources:\n  - name: scopus\n    path: exports/scopus.json\n"
	if err := os.WriteFile(ConfigPath(tmpDir), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Sources) != 1 {
		t.Errorf("Sources = %+v, want only scopus", cfg.Sources)
	}
	m := cfg.Matcher()
	if m.ShortThreshold != 0.85 || m.LongThreshold != 0.80 || m.ShortLength != 30 {
		t.Errorf("Matcher() = %+v, want defaults", m)
	}
	if cfg.Authority != "crossref" {
		t.Errorf("Authority = %q", cfg.Authority)
	}
}

func TestLoad_NotFound(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load() expected error for missing config")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(ProjectPath(tmpDir), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ConfigPath(tmpDir), []byte("sources: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmpDir); err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown source", func(c *Config) { c.Sources[0].Name = "myspace" }, "sources[0]"},
		{"duplicate source", func(c *Config) { c.Sources[1].Name = c.Sources[0].Name }, "listed twice"},
		{"empty path", func(c *Config) { c.Sources[2].Path = "" }, "no path"},
		{"bad authority", func(c *Config) { c.Authority = "wikipedia" }, "authority"},
		{"zero threshold", func(c *Config) { c.Matching.ShortThreshold = 0 }, "short_threshold"},
		{"threshold above one", func(c *Config) { c.Matching.LongThreshold = 1.5 }, "long_threshold"},
		{"negative length", func(c *Config) { c.Matching.ShortLength = -1 }, "short_length"},
		{"unknown field", func(c *Config) { c.Merge = map[string]string{"colour": "first_wins"} }, "unknown field"},
		{"unknown policy", func(c *Config) { c.Merge = map[string]string{"venue": "loudest_wins"} }, "merge.venue"},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSourcePath(t *testing.T) {
	if got := SourcePath("/proj", SourceConfig{Path: "data/orcid.json"}); got != "/proj/data/orcid.json" {
		t.Errorf("SourcePath(relative) = %q", got)
	}
	if got := SourcePath("/proj", SourceConfig{Path: "/abs/orcid.json"}); got != "/abs/orcid.json" {
		t.Errorf("SourcePath(absolute) = %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got := ExpandPath("~/exports"); got != filepath.Join(home, "exports") {
		t.Errorf("ExpandPath(~/exports) = %q", got)
	}
	if got := ExpandPath("/abs"); got != "/abs" {
		t.Errorf("ExpandPath(/abs) = %q", got)
	}
}
