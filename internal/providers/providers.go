// Package providers implements the builtin capability providers behind the
// intent schema: filesystem operations, shell execution, system settings,
// application and media control, web search, and general queries.
//
// All host access funnels through CommandRunner so tests can substitute fakes.
package providers

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/valet/pkg/ports"
	"github.com/aretw0/valet/pkg/registry"
)

// Config carries the dependencies the builtin providers share.
type Config struct {
	// Runner executes host commands. Defaults to an ExecRunner with the
	// default timeout.
	Runner CommandRunner

	// Completer, when set, backs general_query and summarized searches.
	Completer ports.Completer

	// Root anchors relative filesystem paths. Defaults to the user's home.
	Root string
}

// RegisterBuiltins wires every builtin provider into reg.
func RegisterBuiltins(reg *registry.Registry, cfg Config) {
	if cfg.Runner == nil {
		cfg.Runner = NewExecRunner(DefaultCommandTimeout)
	}

	files := NewFiles(cfg.Root)
	reg.RegisterFunc("create_file", files.CreateFile)
	reg.RegisterFunc("read_file", files.ReadFile)
	reg.RegisterFunc("create_directory", files.CreateDirectory)
	reg.RegisterFunc("delete_path", files.DeletePath)
	reg.RegisterFunc("move_path", files.MovePath)
	reg.RegisterFunc("list_directory_contents", files.ListDirectory)

	system := NewSystem(cfg.Runner)
	reg.RegisterFunc("execute_command", system.ExecuteCommand)
	reg.RegisterFunc("set_brightness", system.SetBrightness)
	reg.RegisterFunc("set_volume", system.SetVolume)

	apps := NewApps(cfg.Runner)
	reg.RegisterFunc("open_app", apps.OpenApp)
	reg.RegisterFunc("close_app", apps.CloseApp)

	web := NewWeb(cfg.Runner, cfg.Completer)
	reg.RegisterFunc("open_website", web.OpenWebsite)
	reg.RegisterFunc("search_info", web.SearchInfo)

	media := NewMedia(cfg.Runner)
	reg.RegisterFunc("media_play", media.Play)
	reg.RegisterFunc("media_pause", media.Pause)
	reg.RegisterFunc("media_skip", media.Skip)
	reg.RegisterFunc("media_previous", media.Previous)

	query := NewQuery(cfg.Completer)
	reg.RegisterFunc("general_query", query.GeneralQuery)

	reg.RegisterFunc("exit", func(ctx context.Context, entities map[string]any) (string, error) {
		return "Goodbye!", nil
	})
}

// decode maps validated entities onto a provider's argument struct.
func decode(entities map[string]any, out any) error {
	if err := mapstructure.Decode(entities, out); err != nil {
		return fmt.Errorf("decoding entities: %w", err)
	}
	return nil
}
