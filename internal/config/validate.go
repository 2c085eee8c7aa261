package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxJobs caps the number of fixture files checked concurrently.
const MaxJobs = 64

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors and returns warnings for
// non-fatal issues.
func Validate(cfg *Config) (warnings []string, err error) {
	if err := validateFixtures(cfg.Fixtures); err != nil {
		return nil, err
	}
	if err := validateComparison(cfg.Comparison); err != nil {
		return nil, err
	}
	if cfg.Jobs < 0 {
		return nil, &ValidationError{Field: "jobs", Message: "must be >= 0"}
	}
	if cfg.Jobs > MaxJobs {
		warnings = append(warnings, fmt.Sprintf("jobs %d exceeds %d; using %d", cfg.Jobs, MaxJobs, MaxJobs))
		cfg.Jobs = MaxJobs
	}
	return warnings, nil
}

func validateFixtures(f *FixturesConfig) error {
	if f == nil {
		return nil
	}
	if filepath.IsAbs(f.Directory) || strings.Contains(f.Directory, "..") {
		return &ValidationError{
			Field:   "fixtures.directory",
			Message: "must be a relative path inside the project",
		}
	}
	if f.Pattern != "" {
		if _, err := filepath.Match(strings.TrimPrefix(f.Pattern, "**/"), ""); err != nil {
			return &ValidationError{
				Field:   "fixtures.pattern",
				Message: fmt.Sprintf("invalid pattern %q: %v", f.Pattern, err),
			}
		}
	}
	return nil
}

func validateComparison(c *ComparisonConfig) error {
	if c == nil {
		return nil
	}
	if c.MaxDepth < 0 {
		return &ValidationError{Field: "comparison.max_depth", Message: "must be >= 0"}
	}
	if c.MaxNodes < 0 {
		return &ValidationError{Field: "comparison.max_nodes", Message: "must be >= 0"}
	}
	return nil
}
