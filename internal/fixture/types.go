// Package fixture loads and runs partial-equality fixtures: JSON or YAML
// files describing pairs of values and the outcome their comparison should
// have.
package fixture

import (
	"time"

	"github.com/AndreyAkinshin/partialeq/pkg/partialeq"
)

// Want is the outcome a case expects.
type Want string

const (
	WantMatch    Want = "match"
	WantMismatch Want = "mismatch"
)

// Case is a single fixture case with both sides decoded.
type Case struct {
	Name  string // From the file or "<file>#<index>"
	File  string // Path of the file the case was loaded from
	Index int    // Position within the file

	Actual   any
	Expected any

	Want   Want
	Reason partialeq.Reason // Required reason on mismatch, 0 for any
	Path   string           // Required rendered path on mismatch, "" for any

	Options CaseOptions
	Skip    bool
}

// CaseOptions overrides comparison options for one case.
type CaseOptions struct {
	IncludeHidden     *bool `json:"include_hidden,omitempty"`
	IncludeSymbolKeys *bool `json:"include_symbol_keys,omitempty"`
	MaxDepth          *int  `json:"max_depth,omitempty"`
	MaxNodes          *int  `json:"max_nodes,omitempty"`
}

// Apply returns base with the overrides of o applied.
func (o CaseOptions) Apply(base partialeq.Options) partialeq.Options {
	if o.IncludeHidden != nil {
		base.IncludeHidden = *o.IncludeHidden
	}
	if o.IncludeSymbolKeys != nil {
		base.IncludeSymbolKeys = *o.IncludeSymbolKeys
	}
	if o.MaxDepth != nil {
		base.MaxDepth = *o.MaxDepth
	}
	if o.MaxNodes != nil {
		base.MaxNodes = *o.MaxNodes
	}
	return base
}

// Result represents the result of running a case.
type Result struct {
	Case     *Case
	Passed   bool
	Skipped  bool
	Err      error  // Comparison result, nil on match
	Problem  string // Why the case failed, empty when it passed
	Duration time.Duration
}

// FileResult represents results for an entire fixture file.
type FileResult struct {
	File    string
	Results []Result
	Passed  int
	Failed  int
	Skipped int
}
