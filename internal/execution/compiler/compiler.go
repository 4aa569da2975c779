// Package compiler turns a source file into a runnable artifact via a
// templated shell command, for languages that need a build step before
// the runner can execute them.
package compiler

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/shlex"
	"go.uber.org/zap"

	appErr "checkrun/pkg/errors"
	"checkrun/pkg/utils/logger"
)

// timeoutExitCode is the sentinel recorded when the compiler itself is
// killed on timeout; real compilers never exit with it.
const timeoutExitCode = -1

// DefaultTimeout bounds a compile step when the caller does not.
const DefaultTimeout = 30 * time.Second

// Compiler runs templated compile commands.
type Compiler struct{}

// NewCompiler creates a compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile expands the command template and runs it with the source file's
// directory as the working directory, so artifacts stay colocated with
// submissions. {source} expands to the file name, {output} to the file
// stem. An empty template means no compilation is needed and returns "".
// A non-zero exit or timeout yields a typed error carrying the captured
// stderr and exit code.
func (c *Compiler) Compile(ctx context.Context, template, sourcePath string, timeout time.Duration) (string, error) {
	if strings.TrimSpace(template) == "" {
		return "", nil
	}
	if sourcePath == "" {
		return "", appErr.ValidationError("source_path", "required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	absSource, err := filepath.Abs(sourcePath)
	if err != nil {
		return "", appErr.Wrapf(err, appErr.InvalidParams, "resolve source path failed")
	}
	sourceDir := filepath.Dir(absSource)
	sourceName := filepath.Base(absSource)
	outputName := strings.TrimSuffix(sourceName, filepath.Ext(sourceName))
	artifactPath := filepath.Join(sourceDir, outputName)

	command := strings.ReplaceAll(template, "{source}", sourceName)
	command = strings.ReplaceAll(command, "{output}", outputName)

	argv, err := shlex.Split(command)
	if err != nil {
		return "", appErr.Wrapf(err, appErr.InvalidParams, "parse compile command failed")
	}
	if len(argv) == 0 {
		return "", appErr.New(appErr.InvalidParams).WithMessage("compile command is empty after expansion")
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = sourceDir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return "", appErr.CompileError(
			"compilation timed out after "+timeout.String(), timeoutExitCode)
	}
	if err != nil {
		exitCode := 0
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		message := stderr.String()
		if message == "" {
			message = err.Error()
		}
		return "", appErr.CompileError(message, exitCode)
	}

	logger.Debug(ctx, "compiled candidate",
		zap.String("source", absSource),
		zap.String("artifact", artifactPath),
		zap.Duration("elapsed", time.Since(start)))
	return artifactPath, nil
}
