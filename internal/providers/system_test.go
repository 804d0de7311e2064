package providers

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_ExecuteCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults To Sh", func(t *testing.T) {
		runner := &fakeRunner{out: "hello"}
		sys := NewSystem(runner)

		out, err := sys.ExecuteCommand(ctx, map[string]any{"command_str": "echo hello"})
		require.NoError(t, err)
		assert.Equal(t, "Command executed. Output:\nhello", out)
		assert.Equal(t, runnerCall{name: "sh", args: []string{"-c", "echo hello"}}, runner.last(t))
	})

	t.Run("Known Shell Passes Through", func(t *testing.T) {
		runner := &fakeRunner{}
		sys := NewSystem(runner)

		_, err := sys.ExecuteCommand(ctx, map[string]any{
			"command_str": "Get-Date",
			"shell_type":  "PowerShell",
		})
		require.NoError(t, err)
		assert.Equal(t, runnerCall{name: "powershell", args: []string{"-c", "Get-Date"}}, runner.last(t))
	})

	t.Run("Unknown Shell Runs Direct", func(t *testing.T) {
		runner := &fakeRunner{out: "Linux"}
		sys := NewSystem(runner)

		_, err := sys.ExecuteCommand(ctx, map[string]any{
			"command_str": "uname -s",
			"shell_type":  "none",
		})
		require.NoError(t, err)
		assert.Equal(t, runnerCall{name: "uname", args: []string{"-s"}}, runner.last(t))
	})

	t.Run("Empty Direct Command", func(t *testing.T) {
		sys := NewSystem(&fakeRunner{})

		_, err := sys.ExecuteCommand(ctx, map[string]any{
			"command_str": "   ",
			"shell_type":  "none",
		})
		failure := asFailure(t, err)
		assert.Equal(t, "I need a command to execute.", failure.Message)
	})

	t.Run("Timeout", func(t *testing.T) {
		runner := &fakeRunner{err: context.DeadlineExceeded}
		sys := NewSystem(runner)

		_, err := sys.ExecuteCommand(ctx, map[string]any{"command_str": "sleep 99"})
		failure := asFailure(t, err)
		assert.Equal(t, "Command 'sleep 99' timed out after 30 seconds.", failure.Message)
	})

	t.Run("Failure Reports Captured Output", func(t *testing.T) {
		runner := &fakeRunner{out: "STDERR:\nboom", err: errors.New("execution failed: exit status 1")}
		sys := NewSystem(runner)

		_, err := sys.ExecuteCommand(ctx, map[string]any{"command_str": "false"})
		failure := asFailure(t, err)
		assert.Equal(t, "Command failed:\nSTDERR:\nboom", failure.Message)
	})

	t.Run("Failure Without Output Uses Error", func(t *testing.T) {
		runner := &fakeRunner{err: errors.New("execution failed: exit status 127")}
		sys := NewSystem(runner)

		_, err := sys.ExecuteCommand(ctx, map[string]any{"command_str": "nope"})
		failure := asFailure(t, err)
		assert.Equal(t, "Command failed:\nexecution failed: exit status 127", failure.Message)
	})
}

func TestSystem_SetBrightness(t *testing.T) {
	ctx := context.Background()

	t.Run("Sets Level", func(t *testing.T) {
		runner := &fakeRunner{}
		sys := NewSystem(runner)

		out, err := sys.SetBrightness(ctx, map[string]any{"level": int64(75)})
		require.NoError(t, err)
		assert.Equal(t, "Brightness set to 75%", out)
		assert.Equal(t, runnerCall{name: "brightnessctl", args: []string{"set", "75%"}}, runner.last(t))
	})

	t.Run("Rejects Out Of Range", func(t *testing.T) {
		runner := &fakeRunner{}
		sys := NewSystem(runner)

		_, err := sys.SetBrightness(ctx, map[string]any{"level": int64(150)})
		failure := asFailure(t, err)
		assert.Equal(t, "Brightness level must be between 0 and 100.", failure.Message)
		assert.Empty(t, runner.calls)
	})

	t.Run("Tool Missing", func(t *testing.T) {
		runner := &fakeRunner{err: fmt.Errorf("execution failed: %w", exec.ErrNotFound)}
		sys := NewSystem(runner)

		_, err := sys.SetBrightness(ctx, map[string]any{"level": int64(40)})
		failure := asFailure(t, err)
		assert.Equal(t, "brightnessctl not found. Cannot set brightness.", failure.Message)
	})
}

func TestSystem_SetVolume(t *testing.T) {
	ctx := context.Background()

	t.Run("Linux Uses Amixer", func(t *testing.T) {
		runner := &fakeRunner{}
		sys := &System{runner: runner, goos: "linux"}

		out, err := sys.SetVolume(ctx, map[string]any{"level": 0.5})
		require.NoError(t, err)
		assert.Equal(t, "Volume set to 50% on Linux using amixer.", out)
		assert.Equal(t, runnerCall{name: "amixer", args: []string{"-q", "sset", "Master", "50%"}}, runner.last(t))
	})

	t.Run("Mac Uses Osascript", func(t *testing.T) {
		runner := &fakeRunner{}
		sys := &System{runner: runner, goos: "darwin"}

		out, err := sys.SetVolume(ctx, map[string]any{"level": 0.8})
		require.NoError(t, err)
		assert.Equal(t, "Volume set to 80% on macOS.", out)
		assert.Equal(t, runnerCall{name: "osascript", args: []string{"-e", "set volume output volume 80"}}, runner.last(t))
	})

	t.Run("Whole Number Level", func(t *testing.T) {
		runner := &fakeRunner{}
		sys := &System{runner: runner, goos: "linux"}

		out, err := sys.SetVolume(ctx, map[string]any{"level": int64(1)})
		require.NoError(t, err)
		assert.Contains(t, out, "100%")
	})

	t.Run("Rejects Out Of Range", func(t *testing.T) {
		sys := &System{runner: &fakeRunner{}, goos: "linux"}

		_, err := sys.SetVolume(ctx, map[string]any{"level": 1.5})
		failure := asFailure(t, err)
		assert.Equal(t, "Volume level must be between 0.0 and 1.0.", failure.Message)
	})

	t.Run("Amixer Missing", func(t *testing.T) {
		runner := &fakeRunner{err: fmt.Errorf("execution failed: %w", exec.ErrNotFound)}
		sys := &System{runner: runner, goos: "linux"}

		_, err := sys.SetVolume(ctx, map[string]any{"level": 0.3})
		failure := asFailure(t, err)
		assert.Equal(t, "Volume control not implemented for this POSIX system (amixer not found or not macOS).", failure.Message)
	})
}
