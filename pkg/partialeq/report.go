package partialeq

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Reason classifies why a comparison failed.
type Reason int

const (
	// ArityError reports a call that cannot be compared at all, such as
	// invalid options.
	ArityError Reason = iota + 1
	// KindMismatch reports values of different kinds.
	KindMismatch
	// MissingKey reports a key or entry of expected that actual lacks.
	MissingKey
	// ValueMismatch reports differing values of the same kind.
	ValueMismatch
	// CountMismatch reports elements or members of expected that actual
	// cannot supply enough distinct matches for.
	CountMismatch
	// DepthExceeded reports that a safety bound was reached.
	DepthExceeded
)

// Sentinel errors matched by errors.Is against a *Mismatch.
var (
	ErrArity         = errors.New("arity error")
	ErrKindMismatch  = errors.New("kind mismatch")
	ErrMissingKey    = errors.New("missing key")
	ErrValueMismatch = errors.New("value mismatch")
	ErrCountMismatch = errors.New("count mismatch")
	ErrDepthExceeded = errors.New("depth exceeded")
)

var reasonCodes = [...]string{
	ArityError:    "arity_error",
	KindMismatch:  "kind_mismatch",
	MissingKey:    "missing_key",
	ValueMismatch: "value_mismatch",
	CountMismatch: "count_mismatch",
	DepthExceeded: "depth_exceeded",
}

// Code returns the snake_case name of r, as used in fixture files.
func (r Reason) Code() string {
	if r > 0 && int(r) < len(reasonCodes) {
		return reasonCodes[r]
	}
	return "unknown"
}

func (r Reason) String() string {
	return strings.ReplaceAll(r.Code(), "_", " ")
}

// Err returns the sentinel error for r.
func (r Reason) Err() error {
	switch r {
	case ArityError:
		return ErrArity
	case KindMismatch:
		return ErrKindMismatch
	case MissingKey:
		return ErrMissingKey
	case ValueMismatch:
		return ErrValueMismatch
	case CountMismatch:
		return ErrCountMismatch
	case DepthExceeded:
		return ErrDepthExceeded
	}
	return nil
}

// ParseReason parses a reason code such as "missing_key".
func ParseReason(s string) (Reason, bool) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	for r, code := range reasonCodes {
		if r > 0 && code == s {
			return Reason(r), true
		}
	}
	return 0, false
}

// SegmentKind identifies how a path segment was reached.
type SegmentKind int

const (
	SegmentField  SegmentKind = iota // record property by name
	SegmentSymbol                    // record property by symbol
	SegmentIndex                     // sequence element of expected
	SegmentKey                       // key-value entry
	SegmentMember                    // membership collection member
)

// PathSegment is one step from a value to one of its children.
type PathSegment struct {
	Kind  SegmentKind
	Name  string // field name, symbol description, or formatted key/member
	Index int    // sequence index
}

// Path locates a value from the root of a comparison. It is used only for
// diagnostics.
type Path []PathSegment

// String renders the path with JSON Path conventions, "$" being the root.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("$")
	for _, seg := range p {
		switch seg.Kind {
		case SegmentField:
			b.WriteString(".")
			b.WriteString(seg.Name)
		case SegmentSymbol:
			b.WriteString("[Symbol(")
			b.WriteString(seg.Name)
			b.WriteString(")]")
		case SegmentIndex:
			b.WriteString("[")
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteString("]")
		case SegmentKey:
			b.WriteString("[")
			b.WriteString(seg.Name)
			b.WriteString("]")
		case SegmentMember:
			b.WriteString("{")
			b.WriteString(seg.Name)
			b.WriteString("}")
		}
	}
	return b.String()
}

// with returns a new path extended by seg. The receiver is not modified.
func (p Path) with(seg PathSegment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

func (p Path) field(k Key) Path {
	if k.Symbol != nil {
		return p.with(PathSegment{Kind: SegmentSymbol, Name: k.Symbol.Description()})
	}
	return p.with(PathSegment{Kind: SegmentField, Name: k.Name})
}

func (p Path) index(i int) Path {
	return p.with(PathSegment{Kind: SegmentIndex, Index: i})
}

func (p Path) key(formatted string) Path {
	return p.with(PathSegment{Kind: SegmentKey, Name: formatted})
}

func (p Path) member(formatted string) Path {
	return p.with(PathSegment{Kind: SegmentMember, Name: formatted})
}

// Mismatch describes the first divergence found by a comparison. It is the
// error returned by Compare and PartialDeepEqual.
type Mismatch struct {
	Path   Path
	Reason Reason

	// Expected and Actual are bounded descriptions of the two values at Path.
	Expected string
	Actual   string

	// Detail adds rule-specific context.
	Detail string
}

func (m *Mismatch) Error() string {
	var b strings.Builder
	b.WriteString(m.Path.String())
	b.WriteString(": ")
	b.WriteString(m.Reason.String())
	switch {
	case m.Expected != "" && m.Actual != "":
		fmt.Fprintf(&b, " (expected=%s, actual=%s)", m.Expected, m.Actual)
	case m.Expected != "":
		fmt.Fprintf(&b, " (expected=%s)", m.Expected)
	}
	if m.Detail != "" {
		b.WriteString(": ")
		b.WriteString(m.Detail)
	}
	return b.String()
}

// Unwrap returns the sentinel error of the mismatch's reason.
func (m *Mismatch) Unwrap() error { return m.Reason.Err() }

// rebase returns a copy of m found at base segments deep, re-rooted at path.
func (m *Mismatch) rebase(base int, path Path) *Mismatch {
	out := *m
	rel := m.Path
	if base <= len(rel) {
		rel = rel[base:]
	}
	out.Path = make(Path, 0, len(path)+len(rel))
	out.Path = append(out.Path, path...)
	out.Path = append(out.Path, rel...)
	return &out
}

// AsMismatch returns the *Mismatch in err's chain, if any.
func AsMismatch(err error) (*Mismatch, bool) {
	var m *Mismatch
	if errors.As(err, &m) {
		return m, true
	}
	return nil, false
}
