package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the tool's configuration. Every field has a default matching
// the publisher's current site, so a config file is optional; flags
// override whatever the file provides.
type Config struct {
	// Keyword is the search term for banner announcement posts.
	Keyword string `yaml:"keyword"`

	// SearchURL is the community search page rendered by the crawler.
	SearchURL string `yaml:"search_url"`

	// SearchAPIURL is the post-search API used to resolve version
	// release times.
	SearchAPIURL string `yaml:"search_api_url"`

	// OutputFile is the ICS file path.
	OutputFile string `yaml:"output_file"`

	// VersionCacheFile is the JSON version-release cache path.
	VersionCacheFile string `yaml:"version_cache_file"`

	// PageTimeoutSec bounds a single browser page render.
	PageTimeoutSec int `yaml:"page_timeout_sec"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Keyword:          "调频说明",
		SearchURL:        "https://www.miyoushe.com/zzz/search",
		SearchAPIURL:     "https://bbs-api.miyoushe.com/painter/wapi/searchPosts",
		OutputFile:       "zzz_events.ics",
		VersionCacheFile: "version.json",
		PageTimeoutSec:   30,
		LogLevel:         "info",
	}
}

// Normalize fills zero values with defaults so a partial config file
// still behaves.
func (c *Config) Normalize() {
	def := Default()
	if c.Keyword == "" {
		c.Keyword = def.Keyword
	}
	if c.SearchURL == "" {
		c.SearchURL = def.SearchURL
	}
	if c.SearchAPIURL == "" {
		c.SearchAPIURL = def.SearchAPIURL
	}
	if c.OutputFile == "" {
		c.OutputFile = def.OutputFile
	}
	if c.VersionCacheFile == "" {
		c.VersionCacheFile = def.VersionCacheFile
	}
	if c.PageTimeoutSec <= 0 {
		c.PageTimeoutSec = def.PageTimeoutSec
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = def.LogLevel
	}
}

// Load reads a YAML config file. An empty path or a missing file yields
// the defaults; a file that exists but does not parse is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()
	return &cfg, nil
}
