package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.RunTimeoutSeconds != DefaultRunTimeoutSeconds {
		t.Errorf("RunTimeoutSeconds = %v, want %v", cfg.RunTimeoutSeconds, DefaultRunTimeoutSeconds)
	}
	if len(cfg.SeedFieldNames) != len(DefaultSeedFieldNames) {
		t.Errorf("SeedFieldNames = %v", cfg.SeedFieldNames)
	}
}

func TestLoad_OverridesOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("completion_backend: openai\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CompletionBackend != "openai" {
		t.Errorf("CompletionBackend = %q", cfg.CompletionBackend)
	}
	if cfg.RunTimeoutSeconds != DefaultRunTimeoutSeconds {
		t.Errorf("RunTimeoutSeconds should keep its default, got %v", cfg.RunTimeoutSeconds)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
