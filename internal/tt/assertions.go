package tt

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// AssertTextEqual fails the test with a unified diff when expected and actual
// differ. Use it for prompts, where assert.Equal output is unreadable.
func AssertTextEqual(t *testing.T, expected, actual string) bool {
	t.Helper()

	if expected == actual {
		return true
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	})
	if err != nil {
		t.Errorf("text mismatch (diff failed: %v)\nexpected: %q\nactual:   %q", err, expected, actual)
		return false
	}
	t.Errorf("text mismatch:\n%s", diff)
	return false
}
