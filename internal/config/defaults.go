package config

import "github.com/AndreyAkinshin/partialeq/pkg/partialeq"

// Default configuration values.
const (
	DefaultFixturesDirectory = "fixtures"
	DefaultFixturesPattern   = "*.json"
	DefaultJobs              = 4
)

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	applyFixturesDefaults(cfg)
	applyComparisonDefaults(cfg)
	if cfg.Jobs == 0 {
		cfg.Jobs = DefaultJobs
	}
}

func applyFixturesDefaults(cfg *Config) {
	if cfg.Fixtures == nil {
		cfg.Fixtures = &FixturesConfig{}
	}
	if cfg.Fixtures.Directory == "" {
		cfg.Fixtures.Directory = DefaultFixturesDirectory
	}
	if cfg.Fixtures.Pattern == "" {
		cfg.Fixtures.Pattern = DefaultFixturesPattern
	}
}

func applyComparisonDefaults(cfg *Config) {
	if cfg.Comparison == nil {
		cfg.Comparison = &ComparisonConfig{}
	}
	if cfg.Comparison.IncludeSymbolKeys == nil {
		on := true
		cfg.Comparison.IncludeSymbolKeys = &on
	}
	if cfg.Comparison.MaxDepth == 0 {
		cfg.Comparison.MaxDepth = partialeq.DefaultMaxDepth
	}
	if cfg.Comparison.MaxNodes == 0 {
		cfg.Comparison.MaxNodes = partialeq.DefaultMaxNodes
	}
}
