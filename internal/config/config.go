// Package config handles project and global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/scholarly-tools/pubmerge/internal/logging"
	"github.com/scholarly-tools/pubmerge/internal/match"
	"github.com/scholarly-tools/pubmerge/internal/merge"
	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// Config represents project configuration stored in .pubmerge/config.yml.
type Config struct {
	// Sources lists the source exports in processing order.
	Sources   []SourceConfig    `yaml:"sources"`
	Authority string            `yaml:"authority"`
	Matching  MatchingConfig    `yaml:"matching"`
	Merge     map[string]string `yaml:"merge,omitempty"` // Field name -> policy name overrides
	Logging   logging.Config    `yaml:"logging"`
}

// SourceConfig locates one source's raw export.
type SourceConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"` // Relative to the project root unless absolute
}

// MatchingConfig tunes title similarity.
type MatchingConfig struct {
	ShortThreshold float64 `yaml:"short_threshold"`
	LongThreshold  float64 `yaml:"long_threshold"`
	ShortLength    int     `yaml:"short_length"`
}

const (
	ProjectDir       = ".pubmerge"
	ConfigFile       = "config.yml"
	PublicationsFile = "publications.jsonl"
	MetricsFile      = "metrics.json"
	CacheDir         = "cache"
	DBFile           = "publications.db"
)

// Default returns the configuration written by init: every built-in source
// in the default order, reading data/<source>.json.
func Default() *Config {
	cfg := &Config{
		Authority: string(publication.Authority),
		Matching: MatchingConfig{
			ShortThreshold: match.DefaultShortThreshold,
			LongThreshold:  match.DefaultLongThreshold,
			ShortLength:    match.DefaultShortLength,
		},
		Logging: logging.DefaultConfig(),
	}
	for _, s := range publication.DefaultOrder() {
		cfg.Sources = append(cfg.Sources, SourceConfig{
			Name: string(s),
			Path: filepath.Join("data", string(s)+".json"),
		})
	}
	return cfg
}

// ProjectPath returns the path to the .pubmerge directory from a root path.
func ProjectPath(root string) string {
	return filepath.Join(root, ProjectDir)
}

// ConfigPath returns the path to config.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, ProjectDir, ConfigFile)
}

// PublicationsPath returns the path to publications.jsonl from a root path.
func PublicationsPath(root string) string {
	return filepath.Join(root, ProjectDir, PublicationsFile)
}

// MetricsPath returns the path to metrics.json from a root path.
func MetricsPath(root string) string {
	return filepath.Join(root, ProjectDir, MetricsFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, ProjectDir, CacheDir)
}

// DBPath returns the path to publications.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, ProjectDir, CacheDir, DBFile)
}

// IsProject checks if the given path contains a pubmerge project.
func IsProject(root string) bool {
	info, err := os.Stat(ProjectPath(root))
	return err == nil && info.IsDir()
}

// FindProject walks up from the given path to find a pubmerge project.
// Returns the project root path or an error if not found.
func FindProject(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsProject(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a pubmerge project (no %s directory found)", ProjectDir)
		}
		abs = parent
	}
}

// Load reads and validates configuration from the project at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	cfg.Sources = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the project at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks source names, paths, thresholds and policy overrides.
func (c *Config) Validate() error {
	seen := make(map[publication.Source]bool)
	for i, s := range c.Sources {
		src, err := publication.ParseSource(s.Name)
		if err != nil {
			return fmt.Errorf("sources[%d]: %w", i, err)
		}
		if seen[src] {
			return fmt.Errorf("sources[%d]: %s listed twice", i, src)
		}
		seen[src] = true
		if s.Path == "" {
			return fmt.Errorf("sources[%d]: %s has no path", i, src)
		}
	}

	if _, err := publication.ParseSource(c.Authority); err != nil {
		return fmt.Errorf("authority: %w", err)
	}

	m := c.Matching
	if m.ShortThreshold <= 0 || m.ShortThreshold > 1 {
		return fmt.Errorf("matching.short_threshold must be in (0, 1], got %v", m.ShortThreshold)
	}
	if m.LongThreshold <= 0 || m.LongThreshold > 1 {
		return fmt.Errorf("matching.long_threshold must be in (0, 1], got %v", m.LongThreshold)
	}
	if m.ShortLength < 0 {
		return fmt.Errorf("matching.short_length must not be negative, got %d", m.ShortLength)
	}

	if _, err := c.Policies(); err != nil {
		return err
	}

	if c.Logging.Level != "" && !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	return nil
}

// Order returns the configured sources in processing order.
func (c *Config) Order() []publication.Source {
	order := make([]publication.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		order = append(order, publication.Source(s.Name))
	}
	return order
}

// Matcher returns the configured title matcher.
func (c *Config) Matcher() match.Matcher {
	return match.Matcher{
		ShortThreshold: c.Matching.ShortThreshold,
		LongThreshold:  c.Matching.LongThreshold,
		ShortLength:    c.Matching.ShortLength,
	}
}

// Policies returns the default merge policies with the configured overrides
// applied.
func (c *Config) Policies() (merge.Policies, error) {
	policies := merge.DefaultPolicies()
	for name, policyName := range c.Merge {
		field := merge.Field(name)
		if _, ok := policies[field]; !ok {
			return nil, fmt.Errorf("merge: unknown field %q", name)
		}
		p, err := merge.ParsePolicy(policyName)
		if err != nil {
			return nil, fmt.Errorf("merge.%s: %w", name, err)
		}
		policies[field] = p
	}
	return policies, nil
}

// Resolver returns a merge resolver built from the configuration.
func (c *Config) Resolver() (*merge.Resolver, error) {
	policies, err := c.Policies()
	if err != nil {
		return nil, err
	}
	return &merge.Resolver{
		Policies:  policies,
		Authority: publication.Source(c.Authority),
	}, nil
}

// SourcePath resolves a source path against the project root.
func SourcePath(root string, s SourceConfig) string {
	p := ExpandPath(s.Path)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
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
