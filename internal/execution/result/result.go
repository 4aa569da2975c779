// Package result defines the outcome types produced by the execution engine.
package result

// Outcome is the raw result of running a candidate process once.
// Carriage returns are stripped from both streams; a timed-out outcome
// carries empty stdout and stderr.
type Outcome struct {
	Stdout  string
	Stderr  string
	Timeout bool
}

// ComparisonResult is the terminal classification of one test run.
type ComparisonResult int

const (
	Match ComparisonResult = iota
	Mismatch
	ExecutionError
	TimedOut
)

var comparisonNames = map[ComparisonResult]string{
	Match:          "MATCH",
	Mismatch:       "MISMATCH",
	ExecutionError: "EXECUTION_ERROR",
	TimedOut:       "TIMEOUT",
}

// String returns the stable variant name used at the system boundary.
func (r ComparisonResult) String() string {
	if name, ok := comparisonNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// Verified is the classified result returned to every caller: the
// comparison verdict plus the test's input, expected output, and the
// candidate's actual output and error text.
type Verified struct {
	Input          string
	ExpectedOutput string
	Output         string
	Error          string
	Result         ComparisonResult
}

// Dict returns the serialization shape persisted and rendered by
// collaborators. Field names are part of the boundary contract.
func (v Verified) Dict() map[string]string {
	return map[string]string{
		"input":           v.Input,
		"expected_output": v.ExpectedOutput,
		"output":          v.Output,
		"error":           v.Error,
		"result":          v.Result.String(),
	}
}
