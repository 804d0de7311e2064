package providers

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/aretw0/valet/pkg/domain"
)

// Apps opens and closes desktop applications.
type Apps struct {
	runner CommandRunner
	goos   string
}

// NewApps creates the application provider group.
func NewApps(runner CommandRunner) *Apps {
	return &Apps{runner: runner, goos: runtime.GOOS}
}

type appArgs struct {
	AppName string `mapstructure:"app_name"`
}

// OpenApp launches an application by name without blocking on its lifetime.
func (a *Apps) OpenApp(ctx context.Context, entities map[string]any) (string, error) {
	var args appArgs
	if err := decode(entities, &args); err != nil {
		return "", err
	}

	var err error
	switch a.goos {
	case "darwin":
		_, err = a.runner.Run(ctx, "open", "-a", args.AppName)
	case "windows":
		_, err = a.runner.Run(ctx, "cmd", "/C", "start", "", args.AppName)
	default:
		// Verify the binary exists, then launch it detached so the turn
		// does not wait for the application to exit.
		quoted := shellQuote(args.AppName)
		if _, err = a.runner.Run(ctx, "sh", "-c", "command -v -- "+quoted); err == nil {
			_, err = a.runner.Run(ctx, "sh", "-c", "nohup "+quoted+" >/dev/null 2>&1 &")
		}
	}
	if err != nil {
		return "", domain.Failf(domain.FailureProvider, "Sorry, I couldn't open '%s'. Ensure it's installed and on your PATH.", args.AppName)
	}
	return fmt.Sprintf("Opening %s.", args.AppName), nil
}

// CloseApp terminates processes matching the application name.
func (a *Apps) CloseApp(ctx context.Context, entities map[string]any) (string, error) {
	var args appArgs
	if err := decode(entities, &args); err != nil {
		return "", err
	}

	var err error
	switch a.goos {
	case "windows":
		image := args.AppName
		if !strings.Contains(image, ".") {
			image += ".exe"
		}
		_, err = a.runner.Run(ctx, "taskkill", "/IM", image, "/F")
	default:
		_, err = a.runner.Run(ctx, "pkill", "-f", args.AppName)
	}
	if err != nil {
		return "", domain.Failf(domain.FailureProvider, "Sorry, I couldn't close %s or it wasn't running.", args.AppName)
	}
	return fmt.Sprintf("Attempting to close %s.", args.AppName), nil
}

// shellQuote wraps s in single quotes for safe interpolation into sh -c.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
