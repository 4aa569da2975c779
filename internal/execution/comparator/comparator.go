// Package comparator classifies captured program output against the
// expected output of a test case.
package comparator

import (
	"regexp"
	"sort"
	"strings"

	"checkrun/internal/execution/result"
)

// Compare classifies one execution outcome. Decision order, first match
// wins: timeout, stderr present, unordered line comparison, full-string
// regex match, byte-exact equality. Unordered takes precedence over
// regex when both flags are set.
func Compare(input, expectedOutput string, outcome result.Outcome, useRegex, unordered bool) result.Verified {
	verified := result.Verified{
		Input:          input,
		ExpectedOutput: expectedOutput,
		Output:         outcome.Stdout,
		Error:          outcome.Stderr,
		Result:         result.Mismatch,
	}

	switch {
	case outcome.Timeout:
		verified.Result = result.TimedOut
	case outcome.Stderr != "":
		verified.Result = result.ExecutionError
	case unordered:
		if linesMatchUnordered(expectedOutput, outcome.Stdout) {
			verified.Result = result.Match
		}
	case useRegex:
		if fullMatch(expectedOutput, outcome.Stdout) {
			verified.Result = result.Match
		}
	default:
		if expectedOutput == outcome.Stdout {
			verified.Result = result.Match
		}
	}

	return verified
}

// linesMatchUnordered reports whether expected and actual contain the same
// multiset of lines. Line counts must be equal, so a trailing blank line
// changes the verdict; callers normalize trailing newlines if that is not
// desired.
func linesMatchUnordered(expected, actual string) bool {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")
	if len(expectedLines) != len(actualLines) {
		return false
	}
	sort.Strings(expectedLines)
	sort.Strings(actualLines)
	for i := range expectedLines {
		if expectedLines[i] != actualLines[i] {
			return false
		}
	}
	return true
}

// fullMatch matches the entire actual output against pattern, not a
// substring. A pattern that fails to compile is a mismatch, never an error.
func fullMatch(pattern, actual string) bool {
	re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
	if err != nil {
		return false
	}
	return re.MatchString(actual)
}
