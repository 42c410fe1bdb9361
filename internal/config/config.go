// Package config loads CLI configuration from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrInvalidFormat  = errors.New("invalid output format")
	ErrFieldTooLong   = errors.New("field exceeds maximum length")
)

// Output format constants.
const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

// Field length limits. Generous, but bounded: configs may come from
// untrusted checkouts.
const (
	MaxPathLength  = 4096
	MaxURLLength   = 2048
	MaxStyleLength = 100000 // style may be raw CSS content
)

// Config holds all CLI configuration for document rendering.
type Config struct {
	Output OutputConfig `yaml:"output"`
	Assets AssetsConfig `yaml:"assets"`
	Style  string       `yaml:"style"`   // theme name, path, or raw CSS
	Format string       `yaml:"format"`  // "html" or "pdf"
	Timeout int         `yaml:"timeout"` // capture timeout in seconds, 0 = default
	Workers int         `yaml:"workers"` // render pool size, 0 = auto
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir string `yaml:"dir"` // default output directory (empty = next to source)
}

// AssetsConfig defines runtime asset resolution options.
type AssetsConfig struct {
	Base string `yaml:"base"` // asset base locator (empty = remote fallbacks)
	Path string `yaml:"path"` // custom theme directory (empty = embedded)
}

// Default returns a Config with default values.
func Default() Config {
	return Config{Format: FormatHTML}
}

// Validate checks formats and field lengths.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Format) {
	case "", FormatHTML, FormatPDF:
	default:
		return fmt.Errorf("%w: %q (must be html or pdf)", ErrInvalidFormat, c.Format)
	}

	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.base", c.Assets.Base, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.path", c.Assets.Path, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("style", c.Style, MaxStyleLength); err != nil {
		return err
	}

	return nil
}

func validateFieldLength(field, value string, max int) error {
	if len(value) > max {
		return fmt.Errorf("%w: %s (%d > %d)", ErrFieldTooLong, field, len(value), max)
	}
	return nil
}

// SearchPaths returns the config discovery locations, in priority order.
func SearchPaths() []string {
	paths := []string{"mdpreview.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mdpreview", "config.yaml"))
	}
	return paths
}

// Load reads a config file. An empty path triggers discovery via
// SearchPaths; a missing discovered config is not an error and yields
// defaults. An explicit path that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		found := ""
		for _, p := range SearchPaths() {
			if _, err := os.Stat(p); err == nil {
				found = p
				break
			}
		}
		if found == "" {
			return cfg, nil
		}
		path = found
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
