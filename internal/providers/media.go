package providers

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/aretw0/valet/pkg/domain"
)

// Media controls playback through the host's media tooling: playerctl on
// Linux, AppleScript on macOS.
type Media struct {
	runner CommandRunner
	goos   string
}

// NewMedia creates the media provider group.
func NewMedia(runner CommandRunner) *Media {
	return &Media{runner: runner, goos: runtime.GOOS}
}

type mediaArgs struct {
	PlayerName string `mapstructure:"player_name"`
}

// Play resumes or starts playback.
func (m *Media) Play(ctx context.Context, entities map[string]any) (string, error) {
	return m.control(ctx, entities, "play")
}

// Pause pauses playback.
func (m *Media) Pause(ctx context.Context, entities map[string]any) (string, error) {
	return m.control(ctx, entities, "pause")
}

// Skip advances to the next track.
func (m *Media) Skip(ctx context.Context, entities map[string]any) (string, error) {
	return m.control(ctx, entities, "next")
}

// Previous goes back one track.
func (m *Media) Previous(ctx context.Context, entities map[string]any) (string, error) {
	return m.control(ctx, entities, "previous")
}

func (m *Media) control(ctx context.Context, entities map[string]any, action string) (string, error) {
	var args mediaArgs
	if err := decode(entities, &args); err != nil {
		return "", err
	}

	player := strings.ToLower(args.PlayerName)
	if player == "" {
		player = "default"
	}

	switch m.goos {
	case "darwin":
		app := "Spotify"
		if player == "music" || player == "apple music" {
			app = "Music"
		}
		if _, err := m.runner.Run(ctx, "osascript", "-e", appleScriptFor(app, action)); err != nil {
			return "", domain.Failf(domain.FailureProvider, "Error executing AppleScript for %s: %v", app, err)
		}
		return fmt.Sprintf("Executed '%s' for %s on macOS.", action, app), nil

	case "windows":
		return "", domain.Failf(domain.FailureProvider, "Direct CLI control for '%s' on Windows is often limited or player-specific.", args.PlayerName)

	default:
		argv := []string{}
		if player != "default" {
			argv = append(argv, "-p", player)
		}
		argv = append(argv, action)
		if _, err := m.runner.Run(ctx, "playerctl", argv...); err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				return "", domain.Failf(domain.FailureProvider, "playerctl not found. Please install it to control media players on Linux.")
			}
			return "", domain.Failf(domain.FailureProvider, "Error using playerctl for %s on Linux: %v", player, err)
		}
		target := player
		if target == "default" {
			target = "default player"
		}
		return fmt.Sprintf("Executed '%s' for %s via playerctl on Linux.", action, target), nil
	}
}

func appleScriptFor(app, action string) string {
	switch action {
	case "next":
		return fmt.Sprintf("tell application %q to next track", app)
	case "previous":
		return fmt.Sprintf("tell application %q to previous track", app)
	default:
		return fmt.Sprintf("tell application %q to %s", app, action)
	}
}
