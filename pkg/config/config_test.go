package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	def := DefaultConfig()
	if cfg.View.ZoomLevel != def.View.ZoomLevel || cfg.View.CullThreshold != def.View.CullThreshold {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, def)
	}
}

func TestLoadFromParsesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
roadmap: /tmp/roadmap.yaml
view:
  zoom_level: 2.5
  time_unit: month
export:
  format: svg
  title: Q3 plan
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Roadmap != "/tmp/roadmap.yaml" {
		t.Errorf("Roadmap = %q", cfg.Roadmap)
	}
	if cfg.View.ZoomLevel != 2.5 || cfg.View.TimeUnit != "month" {
		t.Errorf("View = %+v", cfg.View)
	}
	if cfg.Export.Format != "svg" || cfg.Export.Title != "Q3 plan" {
		t.Errorf("Export = %+v", cfg.Export)
	}
}

func TestLoadFromClampsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
view:
  zoom_level: -3
  row_height: 0
  cull_threshold: -10
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.View.ZoomLevel != 1.0 {
		t.Errorf("ZoomLevel = %v, want fallback 1.0", cfg.View.ZoomLevel)
	}
	if cfg.View.RowHeight != 28 {
		t.Errorf("RowHeight = %v, want fallback 28", cfg.View.RowHeight)
	}
	if cfg.View.CullThreshold != 50 {
		t.Errorf("CullThreshold = %v, want fallback 50", cfg.View.CullThreshold)
	}
}

func TestLoadFromBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("view: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Roadmap = "/data/roadmap.yaml"
	cfg.Export.Title = "Roadmap"

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.Roadmap != cfg.Roadmap || got.Export.Title != cfg.Export.Title {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	got := expandHome("~/roadmap.yaml")
	if !strings.HasPrefix(got, home) {
		t.Errorf("expandHome = %q, want prefix %q", got, home)
	}
	if got := expandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path changed: %q", got)
	}
}
