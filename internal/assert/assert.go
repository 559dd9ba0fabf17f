// Package assert provides test assertion helpers backed by go-cmp.
package assert

import (
	"bytes"

	"github.com/google/go-cmp/cmp"
)

// T provides the testing interface for capturing failures with testing
// assert utilities.
type T interface {
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Helper()
}

// DeepEqual compares two values with go-cmp and identifies if they contain
// the same contents. Emits a testing error, and returns false if the values
// are not equal.
func DeepEqual(t T, expect, actual interface{}, opts ...cmp.Option) bool {
	t.Helper()

	if diff := cmp.Diff(expect, actual, opts...); len(diff) != 0 {
		t.Errorf("mismatch (-expect +actual):\n%s", diff)
		return false
	}

	return true
}

// BytesEqual compares two byte slices and identifies if they contain the
// same contents. Emits a testing error, and returns false if the slices are
// not equal.
func BytesEqual(t T, expect, actual []byte) bool {
	t.Helper()

	if !bytes.Equal(expect, actual) {
		t.Errorf("expect bytes %x, got %x (len %d, %d)", expect, actual, len(expect), len(actual))
		return false
	}

	return true
}
