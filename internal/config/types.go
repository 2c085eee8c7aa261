// Package config provides configuration loading and validation for
// .partialeq.json.
package config

// Config represents the complete .partialeq.json configuration.
type Config struct {
	Fixtures   *FixturesConfig   `json:"fixtures,omitempty"`
	Comparison *ComparisonConfig `json:"comparison,omitempty"`
	Jobs       int               `json:"jobs,omitempty"` // Fixture files checked concurrently
}

// FixturesConfig locates fixture files.
type FixturesConfig struct {
	Directory string `json:"directory,omitempty"`
	Pattern   string `json:"pattern,omitempty"` // filepath.Match pattern on file names
}

// ComparisonConfig holds the comparison options shared by all fixtures.
type ComparisonConfig struct {
	IncludeHidden     bool  `json:"include_hidden,omitempty"`
	IncludeSymbolKeys *bool `json:"include_symbol_keys,omitempty"` // Defaults to true
	MaxDepth          int   `json:"max_depth,omitempty"`
	MaxNodes          int   `json:"max_nodes,omitempty"`
}
