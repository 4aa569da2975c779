package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewUsesDefaultMessage(t *testing.T) {
	err := New(QueueFull)
	if err.Code != QueueFull {
		t.Fatalf("expected code %d, got %d", QueueFull, err.Code)
	}
	if err.Error() != QueueFull.Message() {
		t.Fatalf("expected default message, got %q", err.Error())
	}
}

func TestWrapPreservesUnderlying(t *testing.T) {
	cause := stderrors.New("disk on fire")
	err := Wrapf(cause, ExecSystemError, "run failed")
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be found")
	}
	if err.Error() != "run failed" {
		t.Fatalf("expected wrap message, got %q", err.Error())
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := New(TaskTimeout)
	if !Is(err, TaskTimeout) {
		t.Fatal("expected code match")
	}
	if Is(err, QueueTimeout) {
		t.Fatal("expected distinct codes not to match")
	}
	if Is(stderrors.New("plain"), TaskTimeout) {
		t.Fatal("plain errors have no code")
	}
}

func TestGetCodeFallsBackToInternal(t *testing.T) {
	if GetCode(stderrors.New("plain")) != InternalError {
		t.Fatal("expected InternalError for foreign errors")
	}
	if GetCode(nil) != Success {
		t.Fatal("expected Success for nil")
	}
}

func TestCompileError(t *testing.T) {
	err := CompileError("undefined reference to main", 2)
	if err.Code != CompileFailed {
		t.Fatalf("expected CompileFailed, got %d", err.Code)
	}
	if err.Details["exit_code"] != 2 {
		t.Fatalf("expected exit code detail, got %v", err.Details["exit_code"])
	}
	if !strings.Contains(err.Error(), "undefined reference") {
		t.Fatalf("expected stderr in message, got %q", err.Error())
	}

	timedOut := CompileError("compilation timed out", -1)
	if timedOut.Code != CompileTimeout {
		t.Fatalf("expected CompileTimeout for sentinel exit code, got %d", timedOut.Code)
	}
}

func TestValidationErrorDetails(t *testing.T) {
	err := ValidationError("timeout", "must be at least 1 second")
	if err.Code != ValidationFailed {
		t.Fatalf("expected ValidationFailed, got %d", err.Code)
	}
	if err.Details["field"] != "timeout" {
		t.Fatalf("expected field detail, got %v", err.Details)
	}
}
