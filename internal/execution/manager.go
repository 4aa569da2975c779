// Package execution orchestrates one test case end-to-end: it selects the
// runner variant, executes the candidate, and classifies the captured
// output. It has no concurrency of its own; the queue parallelizes it.
package execution

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"checkrun/internal/execution/comparator"
	"checkrun/internal/execution/result"
	"checkrun/internal/execution/runner"
	"checkrun/internal/execution/spec"
	"checkrun/pkg/utils/logger"
)

// SequentialRunner runs a command with the whole input blob up front.
type SequentialRunner interface {
	Run(ctx context.Context, command, input string, timeout time.Duration) result.Outcome
}

// InterleavedRunner runs a command whose test case alternates output and
// input.
type InterleavedRunner interface {
	RunInterleaved(ctx context.Context, command string, inputs []string, timeout time.Duration) result.Outcome
}

// Manager is the synchronous single-test entry point.
type Manager struct {
	sequential  SequentialRunner
	interactive InterleavedRunner
}

// NewManager creates a manager with the default runners.
func NewManager() *Manager {
	return &Manager{
		sequential:  runner.NewRunner(),
		interactive: runner.NewInteractive(),
	}
}

// NewManagerWithRunners creates a manager with injected runners.
func NewManagerWithRunners(sequential SequentialRunner, interactive InterleavedRunner) *Manager {
	m := NewManager()
	if sequential != nil {
		m.sequential = sequential
	}
	if interactive != nil {
		m.interactive = interactive
	}
	return m
}

// Run executes the request's command against its test case and returns
// the classified result. Timeouts and candidate stderr are results, not
// errors; only an invalid request is reported as an error.
func (m *Manager) Run(ctx context.Context, req spec.Request) (result.Verified, error) {
	if err := req.Validate(); err != nil {
		return result.Verified{}, err
	}

	input := strings.Join(req.Input, "\n")
	expected := strings.Join(req.Output, "\n")
	timeout := time.Duration(req.Timeout) * time.Second

	var outcome result.Outcome
	if req.Interleaved {
		outcome = m.interactive.RunInterleaved(ctx, req.Command, req.Input, timeout)
	} else {
		outcome = m.sequential.Run(ctx, req.Command, input, timeout)
	}

	verified := comparator.Compare(input, expected, outcome, req.UseRegex, req.Unordered)
	logger.Debug(ctx, "test case classified",
		zap.String("command", req.Command),
		zap.String("result", verified.Result.String()))
	return verified, nil
}
