package providers

import (
	"context"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}

	runner := NewExecRunner(5 * time.Second)
	ctx := context.Background()

	t.Run("Captures Stdout", func(t *testing.T) {
		out, err := runner.Run(ctx, "sh", "-c", "echo hello")
		require.NoError(t, err)
		assert.Equal(t, "hello", out)
	})

	t.Run("Marks Stderr", func(t *testing.T) {
		out, err := runner.Run(ctx, "sh", "-c", "echo out; echo oops >&2")
		require.NoError(t, err)
		assert.Equal(t, "out\nSTDERR:\noops", out)
	})

	t.Run("Reports Exit Failure With Output", func(t *testing.T) {
		out, err := runner.Run(ctx, "sh", "-c", "echo broken >&2; exit 3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "execution failed")
		assert.Equal(t, "STDERR:\nbroken", out)
	})

	t.Run("Times Out", func(t *testing.T) {
		quick := NewExecRunner(50 * time.Millisecond)
		_, err := quick.Run(ctx, "sleep", "5")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Missing Binary", func(t *testing.T) {
		_, err := runner.Run(ctx, "definitely-not-a-real-binary-20af91")
		require.Error(t, err)
		assert.ErrorIs(t, err, exec.ErrNotFound)
	})
}

func TestNewExecRunner_DefaultTimeout(t *testing.T) {
	runner := NewExecRunner(0)
	assert.Equal(t, DefaultCommandTimeout, runner.timeout)
}

func TestRunnerFunc(t *testing.T) {
	var got runnerCall
	r := RunnerFunc(func(ctx context.Context, name string, args ...string) (string, error) {
		got = runnerCall{name: name, args: args}
		return "ok", nil
	})

	out, err := r.Run(context.Background(), "uptime", "-p")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, runnerCall{name: "uptime", args: []string{"-p"}}, got)
}
