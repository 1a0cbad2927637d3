package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DataDir == "" {
		t.Error("DataDir not defaulted")
	}
	if cfg.OutputDir != "." {
		t.Errorf("OutputDir = %q, want .", cfg.OutputDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Generator.Provider != "engine" {
		t.Errorf("Generator.Provider = %q, want engine", cfg.Generator.Provider)
	}
	if cfg.Generator.Timeout != 2*time.Minute {
		t.Errorf("Generator.Timeout = %v", cfg.Generator.Timeout)
	}
	if cfg.Watch.Debounce != 400*time.Millisecond {
		t.Errorf("Watch.Debounce = %v", cfg.Watch.Debounce)
	}
	if len(cfg.Watch.Ignore) != 1 || cfg.Watch.Ignore[0] != "**/~$*" {
		t.Errorf("Watch.Ignore = %v", cfg.Watch.Ignore)
	}
	if cfg.HTTP.Addr != ":8085" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
}

func TestLoadFile(t *testing.T) {
	raw := `
data_dir: /var/lib/bepgen
output_dir: /srv/out
template: /templates/bep.docx
log_level: debug
generator:
  provider: openai
  model: gpt-4o-mini
  api_key: sk-test
  timeout: 30s
watch:
  debounce: 1s
  ignore:
    - "**/~$*"
    - "**/*.tmp"
http:
  addr: ":9090"
`
	path := filepath.Join(t.TempDir(), "bepgen.yaml")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.DataDir != "/var/lib/bepgen" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Template != "/templates/bep.docx" {
		t.Errorf("Template = %q", cfg.Template)
	}
	if cfg.Generator.Provider != "openai" || cfg.Generator.Model != "gpt-4o-mini" {
		t.Errorf("Generator = %+v", cfg.Generator)
	}
	if cfg.Generator.Timeout != 30*time.Second {
		t.Errorf("Generator.Timeout = %v", cfg.Generator.Timeout)
	}
	if len(cfg.Watch.Ignore) != 2 {
		t.Errorf("Watch.Ignore = %v", cfg.Watch.Ignore)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if cfg.HistoryPath() != "/var/lib/bepgen/history.db" {
		t.Errorf("HistoryPath = %q", cfg.HistoryPath())
	}
}

func TestLoadFilePartialGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bepgen.yaml")
	if err := os.WriteFile(path, []byte("output_dir: /srv/out\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.OutputDir != "/srv/out" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Generator.Provider != "engine" || cfg.Generator.Timeout != 2*time.Minute {
		t.Errorf("generator defaults not applied: %+v", cfg.Generator)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(":\n  - not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for malformed file")
	}
}
