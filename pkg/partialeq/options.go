package partialeq

import (
	"fmt"

	"go.uber.org/zap"
)

// Default safety bounds.
const (
	DefaultMaxDepth = 1000
	DefaultMaxNodes = 1_000_000
)

// Options configures a comparison.
type Options struct {
	// IncludeHidden compares non-enumerable keys of expected: unexported
	// struct fields and hidden Object properties.
	IncludeHidden bool

	// IncludeSymbolKeys compares symbol-keyed Object properties of expected.
	IncludeSymbolKeys bool

	// MaxDepth bounds the nesting depth of a comparison. Zero means
	// DefaultMaxDepth.
	MaxDepth int

	// MaxNodes bounds the number of value pairs compared in one call,
	// including trial pairings of sequence elements. Zero means
	// DefaultMaxNodes.
	MaxNodes int

	// Logger receives debug records of the descent. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns the default comparison options.
func DefaultOptions() Options {
	return Options{
		IncludeSymbolKeys: true,
		MaxDepth:          DefaultMaxDepth,
		MaxNodes:          DefaultMaxNodes,
	}
}

// ValidateOptions returns an error describing the first invalid field of
// opts, or nil.
func ValidateOptions(opts Options) error {
	if opts.MaxDepth < 0 {
		return fmt.Errorf("invalid MaxDepth: %d (must be >= 0)", opts.MaxDepth)
	}
	if opts.MaxNodes < 0 {
		return fmt.Errorf("invalid MaxNodes: %d (must be >= 0)", opts.MaxNodes)
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
