package fixture

import (
	"fmt"
	"time"

	"github.com/AndreyAkinshin/partialeq/pkg/partialeq"
)

// Run compares the two sides of c with base options overridden by the
// case's own, and checks the outcome against c.Want.
func Run(c *Case, base partialeq.Options) Result {
	if c.Skip {
		return Result{Case: c, Skipped: true}
	}

	start := time.Now()
	err := partialeq.Compare(c.Actual, c.Expected, c.Options.Apply(base))
	r := Result{Case: c, Err: err, Duration: time.Since(start)}
	r.Problem = c.check(err)
	r.Passed = r.Problem == ""
	return r
}

// check returns why err does not satisfy the case, or "".
func (c *Case) check(err error) string {
	if c.Want != WantMismatch {
		if err != nil {
			return err.Error()
		}
		return ""
	}

	m, ok := partialeq.AsMismatch(err)
	if !ok {
		return "expected a mismatch, but the values matched"
	}
	if c.Reason != 0 && m.Reason != c.Reason {
		return fmt.Sprintf("reason %s, want %s (%v)", m.Reason.Code(), c.Reason.Code(), m)
	}
	if c.Path != "" && m.Path.String() != c.Path {
		return fmt.Sprintf("path %s, want %s (%v)", m.Path, c.Path, m)
	}
	return ""
}

// RunFile loads and runs every case of a fixture file. A load error is
// returned as is; callers name the file.
func RunFile(path string, base partialeq.Options) (*FileResult, error) {
	cases, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	fr := &FileResult{File: path, Results: make([]Result, 0, len(cases))}
	for i := range cases {
		r := Run(&cases[i], base)
		switch {
		case r.Skipped:
			fr.Skipped++
		case r.Passed:
			fr.Passed++
		default:
			fr.Failed++
		}
		fr.Results = append(fr.Results, r)
	}
	return fr, nil
}
