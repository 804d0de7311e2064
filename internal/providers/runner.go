package providers

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultCommandTimeout bounds each shelled-out command.
const DefaultCommandTimeout = 30 * time.Second

// CommandRunner abstracts process execution so providers can be tested
// without touching the host system.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// RunnerFunc adapts a function to the CommandRunner interface.
type RunnerFunc func(ctx context.Context, name string, args ...string) (string, error)

func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) (string, error) {
	return f(ctx, name, args...)
}

// ExecRunner runs commands on the host with a per-command timeout.
type ExecRunner struct {
	timeout time.Duration
}

// NewExecRunner creates a runner. A non-positive timeout applies the default.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &ExecRunner{timeout: timeout}
}

// Run executes name with args and returns the combined output. Stderr is
// appended under a STDERR marker when present, on success and failure alike.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	output := strings.TrimSpace(stdout.String())
	if s := strings.TrimSpace(stderr.String()); s != "" {
		if output != "" {
			output += "\n"
		}
		output += "STDERR:\n" + s
	}

	if ctx.Err() == context.DeadlineExceeded {
		return output, context.DeadlineExceeded
	}
	if err != nil {
		return output, fmt.Errorf("execution failed: %w", err)
	}
	return output, nil
}
