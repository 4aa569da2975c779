// Package runner executes candidate programs in short-lived OS processes
// and captures their output. Every run owns exactly one process group and
// guarantees it is reaped, forcibly if the timeout expires.
package runner

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
	"go.uber.org/zap"

	"checkrun/internal/execution/result"
	"checkrun/pkg/utils/logger"
)

// killRetryInterval bounds how long a kill signal goes unconfirmed before
// it is sent again. A single signal is not assumed sufficient.
const killRetryInterval = 50 * time.Millisecond

// Runner runs one command with all input delivered up front.
type Runner struct{}

// NewRunner creates a sequential runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run launches the command, writes the entire input blob to its stdin,
// and waits for exit or timeout. A launch failure (command not found,
// permission denied) is reported through the outcome's stderr, not as a
// distinct error kind.
func (r *Runner) Run(ctx context.Context, command, input string, timeout time.Duration) result.Outcome {
	return execute(ctx, command, input, timeout)
}

// Interactive runs programs that alternate prompting and reading. Input
// is still delivered in one batch: the candidate consumes buffered lines
// as it reads them. Kept as a distinct runner so turn-by-turn delivery
// can be added without touching the sequential contract.
type Interactive struct{}

// NewInteractive creates an interactive runner.
func NewInteractive() *Interactive {
	return &Interactive{}
}

// RunInterleaved joins the input lines with newlines and runs the command
// under the same termination guarantees as the sequential runner. Any
// setup failure is converted into an outcome carrying the error text as
// stderr rather than propagated.
func (i *Interactive) RunInterleaved(ctx context.Context, command string, inputs []string, timeout time.Duration) result.Outcome {
	return execute(ctx, command, strings.Join(inputs, "\n"), timeout)
}

func execute(ctx context.Context, command, input string, timeout time.Duration) result.Outcome {
	argv, err := shlex.Split(command)
	if err != nil {
		return result.Outcome{Stderr: "invalid command: " + err.Error()}
	}
	if len(argv) == 0 {
		return result.Outcome{Stderr: "invalid command: empty"}
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		// Merged with candidate stderr on purpose: callers classify both
		// as an execution error.
		return result.Outcome{Stderr: err.Error()}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		out := stripTrailingNewline(stdout.String())
		return result.Outcome{
			Stdout: stripCarriageReturn(out),
			Stderr: stripCarriageReturn(stderr.String()),
		}
	case <-ctx.Done():
	case <-timer.C:
	}

	killProcessGroup(cmd, done)
	logger.Warn(ctx, "candidate terminated on timeout",
		zap.String("command", command),
		zap.Duration("timeout", timeout),
		zap.Duration("elapsed", time.Since(start)))
	return result.Outcome{Timeout: true}
}

// killProcessGroup signals the whole process group and retries until the
// wait goroutine confirms the process is dead. The ordinary signal may be
// ignored by the child, so confirmation is mandatory.
func killProcessGroup(cmd *exec.Cmd, done <-chan error) {
	for {
		signalKill(cmd)
		select {
		case <-done:
			return
		case <-time.After(killRetryInterval):
		}
	}
}

// stripTrailingNewline removes the single newline appended by
// line-buffered writes.
func stripTrailingNewline(s string) string {
	return strings.TrimSuffix(s, "\n")
}

// stripCarriageReturn normalizes Windows line endings in captured output.
func stripCarriageReturn(s string) string {
	return strings.ReplaceAll(s, "\r", "")
}
