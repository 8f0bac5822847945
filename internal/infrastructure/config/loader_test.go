package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Preferences.HistoryCap != 20 {
		t.Fatalf("history cap = %d, want 20", cfg.Preferences.HistoryCap)
	}
	if cfg.Thinking.ExplorationCap != 5 {
		t.Fatalf("exploration cap = %d, want 5", cfg.Thinking.ExplorationCap)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file not written: %v", err)
	}
}

func TestLoadHydratesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := `
preferences:
  default_model: local-ollama
models:
  - name: local-ollama
    endpoint: http://localhost:11434/v1/chat/completions
    model_id: llama3
`
	if err := os.WriteFile(path, []byte(partial), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Preferences.DefaultModel != "local-ollama" {
		t.Fatalf("default model = %q", cfg.Preferences.DefaultModel)
	}
	if cfg.Execution.TimeoutSeconds != 30 {
		t.Fatalf("timeout not hydrated, got %d", cfg.Execution.TimeoutSeconds)
	}
	if cfg.Execution.OutputCapBytes != 64*1024 {
		t.Fatalf("output cap not hydrated, got %d", cfg.Execution.OutputCapBytes)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("preferences: [broken"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestEnvOverrideResolvesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alt.yaml")
	t.Setenv("NLSH_CONFIG", path)

	cfg, err := NewFileLoader("").Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(cfg.Models) == 0 {
		t.Fatal("defaults not applied through env override path")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written at NLSH_CONFIG path: %v", err)
	}
}
