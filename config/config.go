// Package config provides configuration loading and management for the
// cross-reference extraction pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config represents the complete extraction pipeline configuration.
type Config struct {
	Corpus CorpusConfig `yaml:"corpus"`
	Source SourceConfig `yaml:"source"`
	Watch  WatchConfig  `yaml:"watch"`
	NATS   NATSConfig   `yaml:"nats"`
	Serve  ServeConfig  `yaml:"serve"`
}

// CorpusConfig names the corpus every emitted VName is stamped with.
type CorpusConfig struct {
	// Name is the corpus label attached to every VName (e.g. a repo slug).
	Name string `yaml:"name"`
	// Language is the VName language for emitted nodes (default: "c++").
	Language string `yaml:"language"`
}

// SourceConfig configures which files get indexed.
type SourceConfig struct {
	// Roots is a list of glob patterns (doublestar syntax, so "**"
	// recurses) identifying the directories to walk for source files.
	// DefaultConfig sets it to ["."]; Validate rejects an empty list.
	Roots []string `yaml:"roots"`
}

// WatchConfig configures the fsnotify-driven watch mode.
type WatchConfig struct {
	// Enabled makes Validate require a positive DebounceDelay. The serve
	// command watches for file changes whether or not it is set.
	Enabled bool `yaml:"enabled"`
	// DebounceDelay coalesces bursts of filesystem events before
	// re-indexing a changed file.
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// NATSConfig configures the NATS connection the fact sink publishes to.
type NATSConfig struct {
	// URL is the NATS server URL facts are published to; when empty, the
	// extract and serve commands keep facts in an in-memory sink.
	URL string `yaml:"url"`
	// Embedded records an embedded-server preference. No command in this
	// module starts an embedded NATS server.
	Embedded bool `yaml:"embedded"`
}

// ServeConfig configures the long-running watch-mode HTTP server.
type ServeConfig struct {
	// MetricsAddr is the listen address for the /metrics endpoint.
	MetricsAddr string `yaml:"metrics_addr"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Name:     "",
			Language: "c++",
		},
		Source: SourceConfig{
			Roots: []string{"."},
		},
		Watch: WatchConfig{
			Enabled:       true,
			DebounceDelay: 300 * time.Millisecond,
		},
		NATS: NATSConfig{
			URL:      "",
			Embedded: true,
		},
		Serve: ServeConfig{
			MetricsAddr: ":9090",
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Corpus.Name == "" {
		return fmt.Errorf("corpus.name is required")
	}
	if c.Corpus.Language == "" {
		return fmt.Errorf("corpus.language is required")
	}
	if len(c.Source.Roots) == 0 {
		return fmt.Errorf("source.roots must name at least one path")
	}
	if c.Watch.Enabled && c.Watch.DebounceDelay <= 0 {
		return fmt.Errorf("watch.debounce_delay must be positive when watch is enabled")
	}
	return nil
}

// ResolvedRoots expands Source.Roots' glob patterns to concrete
// directories relative to the process's current directory, the way
// ast-indexer's ResolvePaths expands a repository's watch paths.
func (c *Config) ResolvedRoots() ([]string, error) {
	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range c.Source.Roots {
		absPattern, err := filepath.Abs(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve source root %q: %w", pattern, err)
		}

		matches, err := doublestar.FilepathGlob(absPattern)
		if err != nil {
			return nil, fmt.Errorf("glob source root %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			matches = []string{absPattern}
		}

		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.IsDir() {
				continue
			}
			if !seen[m] {
				seen[m] = true
				resolved = append(resolved, m)
			}
		}
	}

	if len(resolved) == 0 {
		return nil, fmt.Errorf("no directories matched source.roots %v", c.Source.Roots)
	}
	return resolved, nil
}

// LoadFromFile loads configuration from a YAML file, filling in
// defaults for anything the file doesn't set.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a YAML file, creating parent
// directories as needed.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one; other takes precedence
// for every non-empty string, non-empty Roots list and non-zero
// DebounceDelay it sets. The booleans Watch.Enabled and NATS.Embedded
// are not copied from other; a non-empty other.NATS.URL clears
// NATS.Embedded.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Corpus.Name != "" {
		c.Corpus.Name = other.Corpus.Name
	}
	if other.Corpus.Language != "" {
		c.Corpus.Language = other.Corpus.Language
	}

	if len(other.Source.Roots) > 0 {
		c.Source.Roots = other.Source.Roots
	}

	if other.Watch.DebounceDelay != 0 {
		c.Watch.DebounceDelay = other.Watch.DebounceDelay
	}

	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
		c.NATS.Embedded = false
	}

	if other.Serve.MetricsAddr != "" {
		c.Serve.MetricsAddr = other.Serve.MetricsAddr
	}
}
