package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"runtime"
	"strings"

	"github.com/aretw0/valet/pkg/domain"
)

// System executes shell commands and adjusts host settings.
type System struct {
	runner CommandRunner
	goos   string
}

// NewSystem creates the system provider group.
func NewSystem(runner CommandRunner) *System {
	return &System{runner: runner, goos: runtime.GOOS}
}

// knownShells are invoked as `shell -c command`; anything else is treated as
// a direct command line split on whitespace.
var knownShells = map[string]bool{
	"sh":         true,
	"bash":       true,
	"zsh":        true,
	"powershell": true,
}

type executeCommandArgs struct {
	CommandStr string `mapstructure:"command_str"`
	ShellType  string `mapstructure:"shell_type"`
}

// ExecuteCommand runs an arbitrary command through the configured shell and
// reports its combined output.
func (s *System) ExecuteCommand(ctx context.Context, entities map[string]any) (string, error) {
	var args executeCommandArgs
	if err := decode(entities, &args); err != nil {
		return "", err
	}

	shell := strings.ToLower(args.ShellType)
	if shell == "" {
		shell = "sh"
	}

	var out string
	var err error
	if knownShells[shell] {
		out, err = s.runner.Run(ctx, shell, "-c", args.CommandStr)
	} else {
		fields := strings.Fields(args.CommandStr)
		if len(fields) == 0 {
			return "", domain.Failf(domain.FailureProvider, "I need a command to execute.")
		}
		out, err = s.runner.Run(ctx, fields[0], fields[1:]...)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "", domain.Failf(domain.FailureProvider, "Command '%s' timed out after 30 seconds.", args.CommandStr)
	}
	if err != nil {
		detail := out
		if detail == "" {
			detail = err.Error()
		}
		return "", domain.Failf(domain.FailureProvider, "Command failed:\n%s", detail)
	}
	return "Command executed. Output:\n" + out, nil
}

type setBrightnessArgs struct {
	Level int `mapstructure:"level"`
}

// SetBrightness sets the screen backlight as a 0-100 percentage.
func (s *System) SetBrightness(ctx context.Context, entities map[string]any) (string, error) {
	var args setBrightnessArgs
	if err := decode(entities, &args); err != nil {
		return "", err
	}
	if args.Level < 0 || args.Level > 100 {
		return "", domain.Failf(domain.FailureProvider, "Brightness level must be between 0 and 100.")
	}

	if _, err := s.runner.Run(ctx, "brightnessctl", "set", fmt.Sprintf("%d%%", args.Level)); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", domain.Failf(domain.FailureProvider, "brightnessctl not found. Cannot set brightness.")
		}
		return "", fmt.Errorf("setting brightness: %w", err)
	}
	return fmt.Sprintf("Brightness set to %d%%", args.Level), nil
}

type setVolumeArgs struct {
	Level float64 `mapstructure:"level"`
}

// SetVolume sets the master volume from a 0.0-1.0 scalar.
func (s *System) SetVolume(ctx context.Context, entities map[string]any) (string, error) {
	var args setVolumeArgs
	if err := decode(entities, &args); err != nil {
		return "", err
	}
	if args.Level < 0 || args.Level > 1 {
		return "", domain.Failf(domain.FailureProvider, "Volume level must be between 0.0 and 1.0.")
	}

	pct := int(math.Round(args.Level * 100))
	if s.goos == "darwin" {
		if _, err := s.runner.Run(ctx, "osascript", "-e", fmt.Sprintf("set volume output volume %d", pct)); err != nil {
			return "", fmt.Errorf("setting volume: %w", err)
		}
		return fmt.Sprintf("Volume set to %d%% on macOS.", pct), nil
	}

	if _, err := s.runner.Run(ctx, "amixer", "-q", "sset", "Master", fmt.Sprintf("%d%%", pct)); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", domain.Failf(domain.FailureProvider, "Volume control not implemented for this POSIX system (amixer not found or not macOS).")
		}
		return "", fmt.Errorf("setting volume: %w", err)
	}
	return fmt.Sprintf("Volume set to %d%% on Linux using amixer.", pct), nil
}
