// Package suite runs a full set of candidates against their test cases:
// tests of one candidate run sequentially in order, different candidates
// run in parallel under a bounded worker pool.
package suite

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"checkrun/internal/execution"
	"checkrun/internal/execution/compiler"
	"checkrun/internal/execution/result"
	"checkrun/internal/execution/spec"
	appErr "checkrun/pkg/errors"
	"checkrun/pkg/utils/logger"
)

// Candidate is one program under test with its resolved requests. When
// CompileTemplate is set the source is compiled first; the artifact lands
// next to the source (its stem), which the resolved commands already
// reference.
type Candidate struct {
	Name            string
	SourcePath      string
	CompileTemplate string
	Requests        []spec.Request
}

// Report summarizes one candidate's run.
type Report struct {
	Name       string
	Results    []result.Verified
	Total      int
	Passed     int
	PassRatio  float64
	CompileErr string
}

// Runner executes suites.
type Runner struct {
	manager        *execution.Manager
	compiler       *compiler.Compiler
	parallelism    int
	compileTimeout time.Duration
}

// Option configures a suite runner.
type Option func(*Runner)

// WithParallelism bounds how many candidates run at once.
func WithParallelism(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.parallelism = n
		}
	}
}

// WithCompileTimeout bounds each candidate's compile step.
func WithCompileTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.compileTimeout = d
		}
	}
}

// NewRunner creates a suite runner.
func NewRunner(manager *execution.Manager, opts ...Option) *Runner {
	r := &Runner{
		manager:        manager,
		compiler:       compiler.NewCompiler(),
		parallelism:    4,
		compileTimeout: compiler.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunSuite runs every candidate and returns reports keyed by candidate
// name. A compilation failure marks that candidate failed without
// aborting the others; a failing test never aborts its candidate's
// remaining tests.
func (r *Runner) RunSuite(ctx context.Context, candidates []Candidate) map[string]*Report {
	reports := make(map[string]*Report, len(candidates))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, r.parallelism)

	for _, candidate := range candidates {
		wg.Add(1)
		go func(c Candidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			report := r.runCandidate(ctx, c)
			mu.Lock()
			reports[c.Name] = report
			mu.Unlock()
		}(candidate)
	}
	wg.Wait()
	return reports
}

// runCandidate compiles (when configured) and runs one candidate's tests
// sequentially.
func (r *Runner) runCandidate(ctx context.Context, c Candidate) *Report {
	report := &Report{Name: c.Name}

	if c.CompileTemplate != "" {
		if _, err := r.compiler.Compile(ctx, c.CompileTemplate, c.SourcePath, r.compileTimeout); err != nil {
			report.CompileErr = err.Error()
			logger.Warn(ctx, "candidate compilation failed",
				zap.String("candidate", c.Name),
				zap.String("error", err.Error()))
			return report
		}
	}

	for _, req := range c.Requests {
		verified, err := r.manager.Run(ctx, req)
		if err != nil {
			// Invalid request: recorded like a failed test so one bad
			// entry cannot sink the rest of the candidate.
			verified = result.Verified{
				Error:  appErr.GetError(err).Error(),
				Result: result.ExecutionError,
			}
		}
		report.Results = append(report.Results, verified)
	}

	report.Total = len(report.Results)
	for _, res := range report.Results {
		if res.Result == result.Match {
			report.Passed++
		}
	}
	if report.Total > 0 {
		report.PassRatio = float64(report.Passed) / float64(report.Total) * 100
	}
	logger.Info(ctx, "candidate finished",
		zap.String("candidate", c.Name),
		zap.Int("total", report.Total),
		zap.Int("passed", report.Passed))
	return report
}
