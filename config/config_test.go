package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Corpus.Language != "c++" {
		t.Errorf("expected default language c++, got %s", cfg.Corpus.Language)
	}
	if len(cfg.Source.Roots) != 1 || cfg.Source.Roots[0] != "." {
		t.Errorf("expected default source roots [.], got %v", cfg.Source.Roots)
	}
	if !cfg.Watch.Enabled {
		t.Error("expected watch mode enabled by default")
	}
	if cfg.Watch.DebounceDelay != 300*time.Millisecond {
		t.Errorf("expected default debounce delay 300ms, got %v", cfg.Watch.DebounceDelay)
	}
	if !cfg.NATS.Embedded {
		t.Error("expected embedded NATS by default")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "missing corpus name",
			modify:  func(c *Config) {},
			wantErr: true, // DefaultConfig leaves Corpus.Name empty
		},
		{
			name: "valid config with corpus name",
			modify: func(c *Config) {
				c.Corpus.Name = "myrepo"
			},
			wantErr: false,
		},
		{
			name: "missing corpus language",
			modify: func(c *Config) {
				c.Corpus.Name = "myrepo"
				c.Corpus.Language = ""
			},
			wantErr: true,
		},
		{
			name: "no source roots",
			modify: func(c *Config) {
				c.Corpus.Name = "myrepo"
				c.Source.Roots = nil
			},
			wantErr: true,
		},
		{
			name: "watch enabled with zero debounce",
			modify: func(c *Config) {
				c.Corpus.Name = "myrepo"
				c.Watch.DebounceDelay = 0
			},
			wantErr: true,
		},
		{
			name: "watch disabled tolerates zero debounce",
			modify: func(c *Config) {
				c.Corpus.Name = "myrepo"
				c.Watch.Enabled = false
				c.Watch.DebounceDelay = 0
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
corpus:
  name: "test-corpus"
  language: "c++"
source:
  roots:
    - "./src"
    - "./include"
watch:
  enabled: true
  debounce_delay: 500ms
nats:
  url: "nats://test:4222"
serve:
  metrics_addr: ":9999"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Corpus.Name != "test-corpus" {
		t.Errorf("expected corpus name test-corpus, got %s", cfg.Corpus.Name)
	}
	if len(cfg.Source.Roots) != 2 {
		t.Errorf("expected 2 source roots, got %d", len(cfg.Source.Roots))
	}
	if cfg.Watch.DebounceDelay != 500*time.Millisecond {
		t.Errorf("expected debounce delay 500ms, got %v", cfg.Watch.DebounceDelay)
	}
	if cfg.NATS.URL != "nats://test:4222" {
		t.Errorf("expected NATS URL nats://test:4222, got %s", cfg.NATS.URL)
	}
	if cfg.Serve.MetricsAddr != ":9999" {
		t.Errorf("expected metrics addr :9999, got %s", cfg.Serve.MetricsAddr)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	base.Corpus.Name = "base-corpus"

	override := &Config{
		Corpus: CorpusConfig{
			Name: "override-corpus",
		},
		Source: SourceConfig{
			Roots: []string{"./only-this"},
		},
	}

	base.Merge(override)

	if base.Corpus.Name != "override-corpus" {
		t.Errorf("expected corpus name override-corpus, got %s", base.Corpus.Name)
	}
	// Language should remain from base since override didn't set it.
	if base.Corpus.Language != "c++" {
		t.Errorf("expected language to remain default, got %s", base.Corpus.Language)
	}
	if len(base.Source.Roots) != 1 || base.Source.Roots[0] != "./only-this" {
		t.Errorf("expected source roots overridden to [./only-this], got %v", base.Source.Roots)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Corpus.Name = "saved-corpus"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Corpus.Name != "saved-corpus" {
		t.Errorf("expected corpus name saved-corpus, got %s", loaded.Corpus.Name)
	}
}

func TestResolvedRoots(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "src"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "include"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Corpus.Name = "root-test"
	cfg.Source.Roots = []string{filepath.Join(tmpDir, "*")}

	roots, err := cfg.ResolvedRoots()
	if err != nil {
		t.Fatalf("ResolvedRoots() error = %v", err)
	}
	if len(roots) != 2 {
		t.Errorf("expected 2 resolved roots, got %d: %v", len(roots), roots)
	}
}
