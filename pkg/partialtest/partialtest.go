// Package partialtest provides test assertions built on partialeq.
//
// The assertions follow testify conventions: they take a TestingT, report
// through assert.Fail and accept optional msgAndArgs.
//
//	func TestUser(t *testing.T) {
//	    partialtest.Contains(t, got, map[string]any{"name": "ada"})
//	}
package partialtest

import (
	"fmt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/partialeq/pkg/partialeq"
)

type tHelper interface {
	Helper()
}

// Contains asserts that expected is structurally contained in actual.
func Contains(t assert.TestingT, actual, expected any, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	return ContainsWith(t, actual, expected, partialeq.DefaultOptions(), msgAndArgs...)
}

// ContainsWith is Contains with explicit comparison options.
func ContainsWith(t assert.TestingT, actual, expected any, opts partialeq.Options, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	err := partialeq.Compare(actual, expected, opts)
	if err == nil {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("Not contained: \n"+
		"mismatch: %s\n"+
		"expected: %#v\n"+
		"actual  : %#v", err, expected, actual), msgAndArgs...)
}

// NotContains asserts that expected is not structurally contained in actual.
func NotContains(t assert.TestingT, actual, expected any, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	if partialeq.PartialDeepEqual(actual, expected) != nil {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("Should not be contained: \n"+
		"expected: %#v\n"+
		"actual  : %#v", expected, actual), msgAndArgs...)
}

// RequireContains is Contains that stops the test on failure.
func RequireContains(t require.TestingT, actual, expected any, msgAndArgs ...any) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if Contains(t, actual, expected, msgAndArgs...) {
		return
	}
	t.FailNow()
}
