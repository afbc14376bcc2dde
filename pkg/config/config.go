// Package config handles loading and saving rw configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/rw/config.yaml
//   - State:   ~/.local/state/rw/ (last-opened roadmap, view state cache)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ViewConfig holds timeline view preference settings.
type ViewConfig struct {
	ZoomLevel     float64 `yaml:"zoom_level,omitempty"`     // Initial zoom factor (0.25-16)
	RowHeight     float64 `yaml:"row_height,omitempty"`     // Row band height in pixels for snapshots
	TimeUnit      string  `yaml:"time_unit,omitempty"`      // week, month, quarter
	CullThreshold int     `yaml:"cull_threshold,omitempty"` // Item count that activates virtual scrolling
}

// ExportConfig holds snapshot export defaults.
type ExportConfig struct {
	Format string `yaml:"format,omitempty"` // png or svg
	Title  string `yaml:"title,omitempty"`
}

// Config is the top-level configuration for rw.
type Config struct {
	Roadmap string       `yaml:"roadmap,omitempty"` // Default roadmap file path
	View    ViewConfig   `yaml:"view,omitempty"`
	Export  ExportConfig `yaml:"export,omitempty"`
	Palette []string     `yaml:"palette,omitempty"` // Optional hex color overrides for theme bars
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		View: ViewConfig{
			ZoomLevel:     1.0,
			RowHeight:     28,
			TimeUnit:      "week",
			CullThreshold: 50,
		},
		Export: ExportConfig{
			Format: "png",
		},
	}
}

// ConfigDir returns the XDG config directory for rw.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "rw")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rw")
}

// StateDir returns the XDG state directory for rw.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "rw")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "rw")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Roadmap = expandHome(cfg.Roadmap)

	// Settings outside their valid range fall back rather than error;
	// a hand-edited config should degrade, not refuse to start.
	if cfg.View.ZoomLevel <= 0 {
		cfg.View.ZoomLevel = 1.0
	}
	if cfg.View.RowHeight <= 0 {
		cfg.View.RowHeight = 28
	}
	if cfg.View.CullThreshold <= 0 {
		cfg.View.CullThreshold = 50
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
