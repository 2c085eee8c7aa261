package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AndreyAkinshin/partialeq/internal/schema"
	"github.com/AndreyAkinshin/partialeq/pkg/partialeq"
)

// FileName is the name of the project configuration file.
const FileName = ".partialeq.json"

// Load reads and parses a .partialeq.json configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults reads a config file and applies default values.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

// LoadAndValidate reads a config file, checks it against the embedded schema,
// applies defaults, validates, and returns warnings.
func LoadAndValidate(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, unknownWarnings, err := LoadWithWarnings(path, data)
	if err != nil {
		return nil, nil, err
	}

	if err := schema.ValidateConfig(data); err != nil {
		return nil, unknownWarnings, err
	}

	applyDefaults(cfg)

	validationWarnings, err := Validate(cfg)

	allWarnings := make([]string, 0, len(unknownWarnings)+len(validationWarnings))
	allWarnings = append(allWarnings, unknownWarnings...)
	allWarnings = append(allWarnings, validationWarnings...)

	if err != nil {
		return nil, allWarnings, err
	}

	return cfg, allWarnings, nil
}

// Default returns a configuration with every default applied, for projects
// without a config file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Options maps the comparison section onto comparator options.
// The config must have had defaults applied.
func (c *Config) Options() partialeq.Options {
	opts := partialeq.DefaultOptions()
	if c.Comparison == nil {
		return opts
	}
	opts.IncludeHidden = c.Comparison.IncludeHidden
	if c.Comparison.IncludeSymbolKeys != nil {
		opts.IncludeSymbolKeys = *c.Comparison.IncludeSymbolKeys
	}
	if c.Comparison.MaxDepth > 0 {
		opts.MaxDepth = c.Comparison.MaxDepth
	}
	if c.Comparison.MaxNodes > 0 {
		opts.MaxNodes = c.Comparison.MaxNodes
	}
	return opts
}
