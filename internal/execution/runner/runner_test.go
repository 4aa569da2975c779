package runner

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRunCapturesStdout(t *testing.T) {
	outcome := NewRunner().Run(context.Background(), "echo hello", "", 5*time.Second)
	if outcome.Timeout {
		t.Fatal("unexpected timeout")
	}
	if outcome.Stdout != "hello" {
		t.Fatalf("expected %q, got %q", "hello", outcome.Stdout)
	}
	if outcome.Stderr != "" {
		t.Fatalf("unexpected stderr: %q", outcome.Stderr)
	}
}

func TestRunFeedsInput(t *testing.T) {
	outcome := NewRunner().Run(context.Background(), "cat", "5", 5*time.Second)
	if outcome.Stdout != "5" {
		t.Fatalf("expected %q, got %q", "5", outcome.Stdout)
	}
}

func TestRunStripsSingleTrailingNewline(t *testing.T) {
	// echo appends one newline; only that one is stripped.
	outcome := NewRunner().Run(context.Background(), `sh -c 'printf "a\n\n"'`, "", 5*time.Second)
	if outcome.Stdout != "a\n" {
		t.Fatalf("expected %q, got %q", "a\n", outcome.Stdout)
	}
}

func TestRunStripsCarriageReturns(t *testing.T) {
	outcome := NewRunner().Run(context.Background(), `sh -c 'printf "a\r\nb"'`, "", 5*time.Second)
	if outcome.Stdout != "a\nb" {
		t.Fatalf("expected %q, got %q", "a\nb", outcome.Stdout)
	}
}

func TestRunCapturesStderr(t *testing.T) {
	outcome := NewRunner().Run(context.Background(), `sh -c "echo oops >&2"`, "", 5*time.Second)
	if !strings.Contains(outcome.Stderr, "oops") {
		t.Fatalf("expected stderr to contain %q, got %q", "oops", outcome.Stderr)
	}
}

func TestRunLaunchFailureReportedAsStderr(t *testing.T) {
	// A command that cannot start surfaces through stderr, the same
	// channel as candidate-written errors.
	outcome := NewRunner().Run(context.Background(), "/nonexistent/binary", "", 5*time.Second)
	if outcome.Timeout {
		t.Fatal("unexpected timeout")
	}
	if outcome.Stderr == "" {
		t.Fatal("expected launch failure in stderr")
	}
}

func TestRunEmptyCommandReportedAsStderr(t *testing.T) {
	outcome := NewRunner().Run(context.Background(), "", "", time.Second)
	if outcome.Stderr == "" {
		t.Fatal("expected error in stderr")
	}
}

func TestRunIdempotent(t *testing.T) {
	r := NewRunner()
	first := r.Run(context.Background(), "echo same", "", 5*time.Second)
	second := r.Run(context.Background(), "echo same", "", 5*time.Second)
	if first != second {
		t.Fatalf("expected identical outcomes, got %+v and %+v", first, second)
	}
}

func TestRunTimeoutEnforced(t *testing.T) {
	start := time.Now()
	outcome := NewRunner().Run(context.Background(), "sleep 5", "", time.Second)
	elapsed := time.Since(start)

	if !outcome.Timeout {
		t.Fatal("expected timeout")
	}
	if outcome.Stdout != "" || outcome.Stderr != "" {
		t.Fatalf("timed-out outcome must carry empty output, got %+v", outcome)
	}
	if elapsed > 2500*time.Millisecond {
		t.Fatalf("run took %s, expected bounded overhead over 1s", elapsed)
	}
}

func TestRunContextCancellationKills(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	outcome := NewRunner().Run(ctx, "sleep 5", "", 10*time.Second)
	if !outcome.Timeout {
		t.Fatal("expected cancelled run to report timeout")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("cancellation took %s", elapsed)
	}
}

func TestRunInterleavedMatchesSequential(t *testing.T) {
	// Today both runners deliver input in one batch.
	sequential := NewRunner().Run(context.Background(), "cat", "a\nb", 5*time.Second)
	interactive := NewInteractive().RunInterleaved(context.Background(), "cat", []string{"a", "b"}, 5*time.Second)
	if sequential != interactive {
		t.Fatalf("expected identical outcomes, got %+v and %+v", sequential, interactive)
	}
}

func TestRunInterleavedSetupErrorAsStderr(t *testing.T) {
	outcome := NewInteractive().RunInterleaved(context.Background(), `unbalanced "quote`, nil, time.Second)
	if outcome.Stderr == "" {
		t.Fatal("expected setup error in stderr")
	}
	if outcome.Timeout {
		t.Fatal("setup errors must not be reported as timeouts")
	}
}
