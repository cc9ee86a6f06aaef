package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderLoad_FallsBackToDefaultsWithoutAnyConfigFiles(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cwd := t.TempDir()
	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(cwd); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(oldCwd)

	loader := NewLoader(nil)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// No project xref.yaml and no git root under a bare tempdir, so
	// Corpus.Name stays whatever DefaultConfig left it as: empty. Load
	// leaves final validation to the caller rather than rejecting here.
	if cfg.Corpus.Name != "" {
		t.Errorf("expected empty corpus name without a git root, got %s", cfg.Corpus.Name)
	}
	if cfg.Source.Roots[0] != "." {
		t.Errorf("expected default source roots to survive, got %v", cfg.Source.Roots)
	}
}

func TestLoaderLoad_MergesProjectConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cwd := t.TempDir()
	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(cwd); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(oldCwd)

	projectConfig := `
corpus:
  name: "project-corpus"
  language: "c++"
source:
  roots:
    - "."
`
	if err := os.WriteFile(filepath.Join(cwd, ProjectConfigFile), []byte(projectConfig), 0644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	loader := NewLoader(nil)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Corpus.Name != "project-corpus" {
		t.Errorf("expected corpus name project-corpus, got %s", cfg.Corpus.Name)
	}
}

func TestLoaderEnsureUserConfig_CreatesFileOnce(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	loader := NewLoader(nil)
	if err := loader.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}

	path := filepath.Join(home, UserConfigDir, UserConfigFile)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected user config at %s: %v", path, err)
	}

	// Second call should be a no-op, not an error, even though the file exists.
	if err := loader.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() second call error = %v", err)
	}
}

func TestLoaderFindProjectConfig_SearchesParentDirectories(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Corpus.Name = "nested-corpus"
	if err := cfg.SaveToFile(filepath.Join(root, ProjectConfigFile)); err != nil {
		t.Fatalf("save project config: %v", err)
	}

	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(nested); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(oldCwd)

	loader := NewLoader(nil)
	found := loader.findProjectConfig()
	if found == "" {
		t.Fatal("expected findProjectConfig to locate the ancestor xref.yaml")
	}
}
