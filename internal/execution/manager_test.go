package execution

import (
	"context"
	"testing"
	"time"

	"checkrun/internal/execution/result"
	"checkrun/internal/execution/spec"
	appErr "checkrun/pkg/errors"
)

type fakeSequential struct {
	outcome result.Outcome
	command string
	input   string
	timeout time.Duration
	calls   int
}

func (f *fakeSequential) Run(ctx context.Context, command, input string, timeout time.Duration) result.Outcome {
	f.command = command
	f.input = input
	f.timeout = timeout
	f.calls++
	return f.outcome
}

type fakeInterleaved struct {
	outcome result.Outcome
	inputs  []string
	calls   int
}

func (f *fakeInterleaved) RunInterleaved(ctx context.Context, command string, inputs []string, timeout time.Duration) result.Outcome {
	f.inputs = inputs
	f.calls++
	return f.outcome
}

func TestManagerJoinsInputAndSelectsSequential(t *testing.T) {
	sequential := &fakeSequential{outcome: result.Outcome{Stdout: "3"}}
	interactive := &fakeInterleaved{}
	m := NewManagerWithRunners(sequential, interactive)

	verified, err := m.Run(context.Background(), spec.Request{
		Command: "adder",
		Input:   []string{"1", "2"},
		Output:  []string{"3"},
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sequential.calls != 1 || interactive.calls != 0 {
		t.Fatalf("expected sequential runner, got %d/%d calls", sequential.calls, interactive.calls)
	}
	if sequential.input != "1\n2" {
		t.Fatalf("expected joined input %q, got %q", "1\n2", sequential.input)
	}
	if sequential.timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", sequential.timeout)
	}
	if verified.Result != result.Match {
		t.Fatalf("expected MATCH, got %s", verified.Result)
	}
}

func TestManagerSelectsInterleavedRunner(t *testing.T) {
	sequential := &fakeSequential{}
	interactive := &fakeInterleaved{outcome: result.Outcome{Stdout: "ok"}}
	m := NewManagerWithRunners(sequential, interactive)

	verified, err := m.Run(context.Background(), spec.Request{
		Command:     "prompter",
		Input:       []string{"a", "b"},
		Output:      []string{"ok"},
		Timeout:     5,
		Interleaved: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if interactive.calls != 1 || sequential.calls != 0 {
		t.Fatalf("expected interactive runner, got %d/%d calls", interactive.calls, sequential.calls)
	}
	if len(interactive.inputs) != 2 {
		t.Fatalf("expected input lines passed through, got %v", interactive.inputs)
	}
	if verified.Result != result.Match {
		t.Fatalf("expected MATCH, got %s", verified.Result)
	}
}

func TestManagerComparisonModesFlowThrough(t *testing.T) {
	sequential := &fakeSequential{outcome: result.Outcome{Stdout: "123"}}
	m := NewManagerWithRunners(sequential, nil)

	verified, err := m.Run(context.Background(), spec.Request{
		Command:  "counter",
		Output:   []string{`\d+`},
		Timeout:  5,
		UseRegex: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verified.Result != result.Match {
		t.Fatalf("expected regex MATCH, got %s", verified.Result)
	}
}

func TestManagerRejectsInvalidRequest(t *testing.T) {
	m := NewManager()
	_, err := m.Run(context.Background(), spec.Request{Command: "", Timeout: 5})
	if !appErr.Is(err, appErr.ValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = m.Run(context.Background(), spec.Request{Command: "cat", Timeout: 0})
	if !appErr.Is(err, appErr.ValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestManagerEndToEndExactMatch(t *testing.T) {
	m := NewManager()
	verified, err := m.Run(context.Background(), spec.Request{
		Command: "cat",
		Input:   []string{"5"},
		Output:  []string{"5"},
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verified.Result != result.Match {
		t.Fatalf("expected MATCH, got %s (%+v)", verified.Result, verified)
	}
}

func TestManagerEndToEndMismatch(t *testing.T) {
	m := NewManager()
	verified, err := m.Run(context.Background(), spec.Request{
		Command: "cat",
		Input:   []string{"5"},
		Output:  []string{"6"},
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verified.Result != result.Mismatch {
		t.Fatalf("expected MISMATCH, got %s", verified.Result)
	}
}

func TestManagerEndToEndTimeout(t *testing.T) {
	m := NewManager()
	start := time.Now()
	verified, err := m.Run(context.Background(), spec.Request{
		Command: "sleep 10",
		Output:  []string{""},
		Timeout: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verified.Result != result.TimedOut {
		t.Fatalf("expected TIMEOUT, got %s", verified.Result)
	}
	if elapsed := time.Since(start); elapsed > 2500*time.Millisecond {
		t.Fatalf("run took %s, expected ~1s", elapsed)
	}
}
