package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing config must not error: %v", err)
	}
	if cfg.Scoring.Metric != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[scoring]
metric = "hsb"
truncate = 500
threads = 2

[output]
format = "json"
print-perc = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Scoring.Metric == nil || *cfg.Scoring.Metric != "hsb" {
		t.Fatalf("unexpected metric: %v", cfg.Scoring.Metric)
	}
	if cfg.Scoring.Truncate == nil || *cfg.Scoring.Truncate != 500 {
		t.Fatalf("unexpected truncate: %v", cfg.Scoring.Truncate)
	}
	if cfg.Output.Format == nil || *cfg.Output.Format != "json" {
		t.Fatalf("unexpected format: %v", cfg.Output.Format)
	}
	if cfg.Output.PrintPerc == nil || *cfg.Output.PrintPerc {
		t.Fatalf("unexpected print-perc: %v", cfg.Output.PrintPerc)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
