package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApps_OpenApp(t *testing.T) {
	ctx := context.Background()

	t.Run("Linux Launches Detached", func(t *testing.T) {
		runner := &fakeRunner{}
		apps := &Apps{runner: runner, goos: "linux"}

		out, err := apps.OpenApp(ctx, map[string]any{"app_name": "firefox"})
		require.NoError(t, err)
		assert.Equal(t, "Opening firefox.", out)

		require.Len(t, runner.calls, 2)
		assert.Equal(t, runnerCall{name: "sh", args: []string{"-c", "command -v -- 'firefox'"}}, runner.calls[0])
		assert.Equal(t, runnerCall{name: "sh", args: []string{"-c", "nohup 'firefox' >/dev/null 2>&1 &"}}, runner.calls[1])
	})

	t.Run("Linux App Not Installed", func(t *testing.T) {
		runner := &fakeRunner{seq: []error{errors.New("execution failed: exit status 1")}}
		apps := &Apps{runner: runner, goos: "linux"}

		_, err := apps.OpenApp(ctx, map[string]any{"app_name": "ghostapp"})
		failure := asFailure(t, err)
		assert.Equal(t, "Sorry, I couldn't open 'ghostapp'. Ensure it's installed and on your PATH.", failure.Message)
		assert.Len(t, runner.calls, 1, "launch must not be attempted after the lookup fails")
	})

	t.Run("Mac Uses Open", func(t *testing.T) {
		runner := &fakeRunner{}
		apps := &Apps{runner: runner, goos: "darwin"}

		_, err := apps.OpenApp(ctx, map[string]any{"app_name": "Safari"})
		require.NoError(t, err)
		assert.Equal(t, runnerCall{name: "open", args: []string{"-a", "Safari"}}, runner.last(t))
	})

	t.Run("Windows Uses Start", func(t *testing.T) {
		runner := &fakeRunner{}
		apps := &Apps{runner: runner, goos: "windows"}

		_, err := apps.OpenApp(ctx, map[string]any{"app_name": "notepad"})
		require.NoError(t, err)
		assert.Equal(t, runnerCall{name: "cmd", args: []string{"/C", "start", "", "notepad"}}, runner.last(t))
	})
}

func TestApps_CloseApp(t *testing.T) {
	ctx := context.Background()

	t.Run("Linux Uses Pkill", func(t *testing.T) {
		runner := &fakeRunner{}
		apps := &Apps{runner: runner, goos: "linux"}

		out, err := apps.CloseApp(ctx, map[string]any{"app_name": "slack"})
		require.NoError(t, err)
		assert.Equal(t, "Attempting to close slack.", out)
		assert.Equal(t, runnerCall{name: "pkill", args: []string{"-f", "slack"}}, runner.last(t))
	})

	t.Run("Windows Appends Exe", func(t *testing.T) {
		runner := &fakeRunner{}
		apps := &Apps{runner: runner, goos: "windows"}

		_, err := apps.CloseApp(ctx, map[string]any{"app_name": "notepad"})
		require.NoError(t, err)
		assert.Equal(t, runnerCall{name: "taskkill", args: []string{"/IM", "notepad.exe", "/F"}}, runner.last(t))
	})

	t.Run("Windows Keeps Explicit Image", func(t *testing.T) {
		runner := &fakeRunner{}
		apps := &Apps{runner: runner, goos: "windows"}

		_, err := apps.CloseApp(ctx, map[string]any{"app_name": "code.exe"})
		require.NoError(t, err)
		assert.Equal(t, "code.exe", runner.last(t).args[1])
	})

	t.Run("Not Running", func(t *testing.T) {
		runner := &fakeRunner{err: errors.New("execution failed: exit status 1")}
		apps := &Apps{runner: runner, goos: "linux"}

		_, err := apps.CloseApp(ctx, map[string]any{"app_name": "slack"})
		failure := asFailure(t, err)
		assert.Equal(t, "Sorry, I couldn't close slack or it wasn't running.", failure.Message)
	})
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "'firefox'", shellQuote("firefox"))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
	assert.Equal(t, `'a b'`, shellQuote("a b"))
}
