// Package config handles loading and saving marquee configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/marquee/config.yaml
//   - Data:   ~/.local/share/marquee/ (default dataset location)
//
// Only preferences live here. Filter state is never persisted.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultDataFile is looked up in DataDir when no dataset is configured.
const DefaultDataFile = "movies.jsonl"

// NamedDataset is a registered dataset that --data can refer to by name.
type NamedDataset struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// DataConfig selects the dataset.
type DataConfig struct {
	Path     string         `yaml:"path,omitempty"`
	Datasets []NamedDataset `yaml:"datasets,omitempty"`
}

// UIConfig holds view preferences.
type UIConfig struct {
	DefaultSplit float64        `yaml:"default_split,omitempty"`
	HoverGrace   map[string]int `yaml:"hover_grace,omitempty"` // source -> milliseconds
	ZoomResetMs  int            `yaml:"zoom_reset_ms,omitempty"`
}

// StoryConfig tunes the guided tour.
type StoryConfig struct {
	SetupDelayMs   int   `yaml:"setup_delay_ms,omitempty"`
	RestoreDelayMs int   `yaml:"restore_delay_ms,omitempty"`
	AutoAdvance    *bool `yaml:"auto_advance,omitempty"`
}

// ExportConfig holds snapshot defaults.
type ExportConfig struct {
	Preset string `yaml:"preset,omitempty"` // size preset name
	Format string `yaml:"format,omitempty"` // svg, png, json
}

// Config is the top-level configuration for marquee.
type Config struct {
	Data   DataConfig   `yaml:"data,omitempty"`
	UI     UIConfig     `yaml:"ui,omitempty"`
	Story  StoryConfig  `yaml:"story,omitempty"`
	Export ExportConfig `yaml:"export,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	auto := true
	return Config{
		UI: UIConfig{
			DefaultSplit: 8.0,
			HoverGrace: map[string]int{
				"scatter":  550,
				"timeline": 150,
				"legend":   300,
			},
			ZoomResetMs: 750,
		},
		Story: StoryConfig{
			SetupDelayMs:   800,
			RestoreDelayMs: 400,
			AutoAdvance:    &auto,
		},
		Export: ExportConfig{
			Preset: "default",
			Format: "svg",
		},
	}
}

// ConfigDir returns the XDG config directory for marquee.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "marquee")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "marquee")
}

// DataDir returns the XDG data directory for marquee.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "marquee")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "marquee")
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

	cfg.Data.Path = expandHome(cfg.Data.Path)
	for i := range cfg.Data.Datasets {
		cfg.Data.Datasets[i].Path = expandHome(cfg.Data.Datasets[i].Path)
	}
	if cfg.UI.DefaultSplit < 0 || cfg.UI.DefaultSplit > 10 {
		return cfg, fmt.Errorf("parsing config: ui.default_split %.2f outside [0, 10]", cfg.UI.DefaultSplit)
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

// FindDataset returns the registered dataset with the given name, or nil.
func (c Config) FindDataset(name string) *NamedDataset {
	for i := range c.Data.Datasets {
		if strings.EqualFold(c.Data.Datasets[i].Name, name) {
			return &c.Data.Datasets[i]
		}
	}
	return nil
}

// ResolveDataPath picks the dataset to open. Precedence: the flag value
// (a registered name or a path), MQ_DATA, data.path, then the default file
// in DataDir.
func (c Config) ResolveDataPath(flagValue string) string {
	for _, v := range []string{flagValue, os.Getenv("MQ_DATA")} {
		if v == "" {
			continue
		}
		if ds := c.FindDataset(v); ds != nil {
			return ds.Path
		}
		return expandHome(v)
	}
	if c.Data.Path != "" {
		return c.Data.Path
	}
	if dir := DataDir(); dir != "" {
		return filepath.Join(dir, DefaultDataFile)
	}
	return DefaultDataFile
}

// HoverGraceDurations converts ui.hover_grace to durations keyed by source.
func (c Config) HoverGraceDurations() map[string]time.Duration {
	out := make(map[string]time.Duration, len(c.UI.HoverGrace))
	for src, ms := range c.UI.HoverGrace {
		if ms >= 0 {
			out[src] = ms2d(ms)
		}
	}
	return out
}

// ZoomReset returns the zoom reset transition length.
func (c Config) ZoomReset() time.Duration { return ms2d(c.UI.ZoomResetMs) }

// StoryDelays returns the step setup and restore delays.
func (c Config) StoryDelays() (setup, restore time.Duration) {
	return ms2d(c.Story.SetupDelayMs), ms2d(c.Story.RestoreDelayMs)
}

// AutoAdvance reports whether a story click advances immediately.
func (c Config) AutoAdvance() bool {
	return c.Story.AutoAdvance == nil || *c.Story.AutoAdvance
}

func ms2d(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }

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
