// Package config loads the optional per-project manifmerge.yaml, which
// declares the merge inputs and placeholder values so invocations do not
// have to repeat them on the command line. Flags override config values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// LibraryConfig names one library manifest input.
type LibraryConfig struct {
	// Name is the coordinate libraries are selected by in tools:selector,
	// e.g. "com.example:lib". Empty defaults to the path.
	Name string `yaml:"name,omitempty"`
	Path string `yaml:"path"`
}

type ProjectConfig struct {
	// Main is the application manifest path. Usually given on the command
	// line; the config value is the fallback.
	Main string `yaml:"main,omitempty"`

	// Overlays are variant overlay manifests, highest priority first.
	Overlays []string `yaml:"overlays,omitempty"`

	// Libraries are dependency manifests in dependency order.
	Libraries []LibraryConfig `yaml:"libraries,omitempty"`

	// Output is where the merged manifest is written.
	Output string `yaml:"output,omitempty"`

	// Report is where the merging report is written.
	Report string `yaml:"report,omitempty"`

	// Placeholders are ${name} substitution values.
	Placeholders map[string]string `yaml:"placeholders,omitempty"`

	// Properties are attribute values injected on the manifest root.
	Properties map[string]string `yaml:"properties,omitempty"`

	// Timeout bounds the whole run, as a Go duration string ("30s").
	Timeout string `yaml:"timeout,omitempty"`
}

const ConfigFileName = "manifmerge.yaml"

func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseTimeout resolves the configured timeout, or the fallback when unset.
func (c *ProjectConfig) ParseTimeout(fallback time.Duration) (time.Duration, error) {
	if c.Timeout == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q in %s: %w", c.Timeout, ConfigFileName, err)
	}
	return d, nil
}
