package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.IntervalSeconds != 20 {
		t.Fatalf("default interval wrong: %d", cfg.IntervalSeconds)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
db_path = "/tmp/test.db"
scheduler_interval_seconds = 30

[anthropic]
api_key = "sk-test"
model = "claude-3-5-haiku-latest"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/test.db" || cfg.IntervalSeconds != 30 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Anthropic.APIKey != "sk-test" {
		t.Fatalf("anthropic section not parsed: %+v", cfg.Anthropic)
	}
}

func TestLoadRejectsBadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("db_path = [broken"), 0o644)
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadClampsInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("scheduler_interval_seconds = -5"), 0o644)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.IntervalSeconds != 20 {
		t.Fatalf("non-positive interval should fall back to default, got %d", cfg.IntervalSeconds)
	}
}
