// Package config provides configuration loading and management for the
// documentation freshness auditor.
package config

import (
	"fmt"
	"time"

	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete docfresh configuration.
type Config struct {
	Docs    DocsConfig    `yaml:"docs"`
	Review  ReviewConfig  `yaml:"review"`
	State   StateConfig   `yaml:"state"`
	Events  EventsConfig  `yaml:"events"`
	Metrics MetricsConfig `yaml:"metrics"`
	Watch   WatchConfig   `yaml:"watch"`
}

// DocsConfig configures document discovery and the metadata target format.
type DocsConfig struct {
	// Dir is the directory holding the documents under audit.
	Dir string `yaml:"dir"`
	// Patterns are glob patterns relative to Dir (doublestar syntax).
	Patterns []string `yaml:"patterns"`
	// Format is the metadata form written to documents without any:
	// "frontmatter" or "marker".
	Format string `yaml:"format"`
}

// ReviewConfig configures the review policy.
type ReviewConfig struct {
	// Reviewers is the assignee pool for change proposals.
	Reviewers []string `yaml:"reviewers"`
	// Base is the target branch for change proposals.
	Base string `yaml:"base"`
	// WindowDays is the freshness window in days.
	WindowDays int `yaml:"window_days"`
}

// StateConfig configures rotation state persistence.
type StateConfig struct {
	// Path is the cursor-state file, relative to the repository root
	// unless absolute.
	Path string `yaml:"path"`
}

// EventsConfig configures optional decision-event publishing.
type EventsConfig struct {
	// URL is the NATS server URL (empty = publishing disabled).
	URL string `yaml:"url"`
}

// MetricsConfig configures the optional batch-metrics push.
type MetricsConfig struct {
	// Gateway is the Prometheus Pushgateway URL (empty = push disabled).
	Gateway string `yaml:"gateway"`
}

// WatchConfig configures the watch subcommand.
type WatchConfig struct {
	// Debounce is how long to wait for more changes before re-auditing.
	Debounce string `yaml:"debounce"`
}

// GetDebounce returns the watch debounce as a duration.
func (w WatchConfig) GetDebounce() time.Duration {
	if w.Debounce == "" {
		return 500 * time.Millisecond
	}
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// Window returns the freshness window as a duration.
func (r ReviewConfig) Window() time.Duration {
	return time.Duration(r.WindowDays) * 24 * time.Hour
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Docs: DocsConfig{
			Dir:      "docs",
			Patterns: []string{"**/*.md"},
			Format:   "frontmatter",
		},
		Review: ReviewConfig{
			Base:       "main",
			WindowDays: 30,
		},
		State: StateConfig{
			Path: filepath.Join(".docfresh", "state.json"),
		},
		Watch: WatchConfig{
			Debounce: "500ms",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Docs.Dir == "" {
		return fmt.Errorf("docs.dir is required")
	}
	if len(c.Docs.Patterns) == 0 {
		return fmt.Errorf("docs.patterns must not be empty")
	}
	if c.Docs.Format != "frontmatter" && c.Docs.Format != "marker" {
		return fmt.Errorf("docs.format must be \"frontmatter\" or \"marker\", got %q", c.Docs.Format)
	}
	if c.Review.WindowDays <= 0 {
		return fmt.Errorf("review.window_days must be positive")
	}
	if c.Review.Base == "" {
		return fmt.Errorf("review.base is required")
	}
	if c.State.Path == "" {
		return fmt.Errorf("state.path is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Docs.Dir != "" {
		c.Docs.Dir = other.Docs.Dir
	}
	if len(other.Docs.Patterns) > 0 {
		c.Docs.Patterns = other.Docs.Patterns
	}
	if other.Docs.Format != "" {
		c.Docs.Format = other.Docs.Format
	}

	if len(other.Review.Reviewers) > 0 {
		c.Review.Reviewers = other.Review.Reviewers
	}
	if other.Review.Base != "" {
		c.Review.Base = other.Review.Base
	}
	if other.Review.WindowDays != 0 {
		c.Review.WindowDays = other.Review.WindowDays
	}

	if other.State.Path != "" {
		c.State.Path = other.State.Path
	}
	if other.Events.URL != "" {
		c.Events.URL = other.Events.URL
	}
	if other.Metrics.Gateway != "" {
		c.Metrics.Gateway = other.Metrics.Gateway
	}
	if other.Watch.Debounce != "" {
		c.Watch.Debounce = other.Watch.Debounce
	}
}
