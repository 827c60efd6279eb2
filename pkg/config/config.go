// Package config loads analyzer configuration from pystyle config
// files in TOML, YAML, or JSON form.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for pystyle.
type Config struct {
	// Rule thresholds
	Rules RulesConfig `koanf:"rules"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output"`

	// Worker count for parallel analysis; 0 means auto.
	Workers int `koanf:"workers"`
}

// RulesConfig defines the tunable style rule thresholds.
type RulesConfig struct {
	MaxLineLength int `koanf:"max_line_length"`
	IndentSize    int `koanf:"indent_size"`
	MaxBlankLines int `koanf:"max_blank_lines"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns"`
	Dirs      []string `koanf:"dirs"`
	Gitignore bool     `koanf:"gitignore"`
	// MaxFileSize skips files larger than this many bytes; 0 disables.
	MaxFileSize int64 `koanf:"max_file_size"`
}

// CacheConfig controls result caching.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
	TTL     int    `koanf:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown
	Color   bool   `koanf:"color"`
	Summary bool   `koanf:"summary"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Rules: RulesConfig{
			MaxLineLength: 79,
			IndentSize:    4,
			MaxBlankLines: 2,
		},
		Exclude: ExcludeConfig{
			Dirs: []string{
				".git",
				".venv",
				"venv",
				"__pycache__",
				".mypy_cache",
				".pytest_cache",
				"build",
				"dist",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".pystyle/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Summary: false,
		},
	}
}

// Load loads configuration from a file, layering it over defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries standard config locations, falling back to
// defaults when none parse.
func LoadOrDefault() *Config {
	configNames := []string{
		"pystyle.toml",
		"pystyle.yaml",
		"pystyle.yml",
		"pystyle.json",
		".pystyle.toml",
		".pystyle.yaml",
		".pystyle.yml",
		".pystyle.json",
	}

	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			cfg, err := Load(name)
			if err == nil {
				return cfg
			}
		}
	}

	return DefaultConfig()
}

// ShouldExclude checks a path against the directory and pattern
// exclusions that do not need gitignore machinery.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
