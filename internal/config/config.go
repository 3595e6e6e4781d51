// Package config loads the optional huff.yaml settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "huff.yaml"

type Config struct {
	// Exclude holds glob patterns of paths left out of directory archives.
	// A trailing slash matches directories only.
	Exclude []string `yaml:"exclude"`
	// Extension is appended to the input path when no output is named.
	Extension string `yaml:"extension"`
	// Workers bounds concurrent hashing during verify.
	Workers int `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Exclude:   []string{},
		Extension: ".huff",
		Workers:   runtime.NumCPU() * 2,
	}
}

// LoadConfig reads path over the defaults. A missing file yields
// DefaultConfig; keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values and exclusion pattern syntax.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Extension == "" || strings.ContainsAny(c.Extension, `/\`) {
		return fmt.Errorf("extension %q is not a valid file suffix", c.Extension)
	}
	for _, p := range c.Exclude {
		if !doublestar.ValidatePattern(strings.TrimSuffix(p, "/")) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return nil
}
