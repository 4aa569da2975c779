// Package spec defines the data types consumed by the execution engine.
package spec

import appErr "checkrun/pkg/errors"

// TestCase is one verification unit: the input fed to the candidate
// program, the output it is expected to produce, a wall-clock timeout in
// seconds, and the comparison mode flags. UseRegex and Unordered are
// mutually exclusive in intent; exact matching applies when neither is set.
type TestCase struct {
	Input       []string
	Output      []string
	Timeout     int
	UseRegex    bool
	Interleaved bool
	Unordered   bool
}

// Request binds a TestCase to a resolved command line. One Request is
// built per test case per candidate file; the command already contains
// the candidate path.
type Request struct {
	Command     string
	Input       []string
	Output      []string
	Timeout     int
	UseRegex    bool
	Interleaved bool
	Unordered   bool
}

// NewRequest builds a Request for a candidate command from a test case.
func NewRequest(command string, tc TestCase) Request {
	return Request{
		Command:     command,
		Input:       tc.Input,
		Output:      tc.Output,
		Timeout:     tc.Timeout,
		UseRegex:    tc.UseRegex,
		Interleaved: tc.Interleaved,
		Unordered:   tc.Unordered,
	}
}

// Validate checks the request invariants before execution.
func (r Request) Validate() error {
	if r.Command == "" {
		return appErr.ValidationError("command", "required")
	}
	if r.Timeout < 1 {
		return appErr.ValidationError("timeout", "must be at least 1 second")
	}
	return nil
}
