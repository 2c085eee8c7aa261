// Package partialeq decides whether one Go value is structurally contained in
// another.
//
// PartialDeepEqual(actual, expected) succeeds when every field, element or
// entry present in expected has a matching counterpart in actual, recursively.
// actual may carry extra data. Different shapes use different rules: records
// compare a subset of keys, sequences and sets compare a duplicate-sensitive
// subset of elements, maps compare a subset of entries whose keys are matched
// by value, and scalars, times, patterns and byte buffers compare exactly.
//
// Classification looks at a value's shape, never at its named type, so a
// value built with one package's types still matches an equivalent value built
// with another's. Self-referential graphs terminate.
//
// Example usage in a Go test:
//
//	func TestResponse(t *testing.T) {
//	    resp := fetch()
//	    want := map[string]any{"status": "ok"}
//	    if err := partialeq.PartialDeepEqual(resp, want); err != nil {
//	        t.Fatal(err)
//	    }
//	}
//
// Reading a record property for comparison may run caller code: accessor
// properties of an Object are invoked exactly once per side per comparison.
package partialeq
