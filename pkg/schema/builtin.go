package schema

// Builtin returns the definitions of the assistant's built-in intents. The
// table mirrors what capability providers implement; keeping it data-only means
// adding an intent never touches dispatch logic.
func Builtin() []Definition {
	return []Definition{
		{
			Name:        "create_file",
			Description: "Create a file with optional content.",
			Required: []Entity{
				{Key: "filepath", Type: String(), Prompt: "I need a filepath to create a file."},
			},
			Optional: []Entity{
				{Key: "content", Type: String(), Default: ""},
				{Key: "file_type", Type: String(), Default: "txt"},
			},
		},
		{
			Name:        "read_file",
			Description: "Read a file and return its contents.",
			Required: []Entity{
				{Key: "filepath", Type: String(), Prompt: "I need a filepath to read a file."},
			},
		},
		{
			Name:        "create_directory",
			Description: "Create a directory.",
			Required: []Entity{
				{Key: "dir_path", Type: String(), Prompt: "I need a directory path to create a directory."},
			},
		},
		{
			Name:        "delete_path",
			Description: "Delete a file or directory.",
			Required: []Entity{
				{Key: "path", Type: String(), Prompt: "I need a path to delete."},
			},
		},
		{
			Name:        "move_path",
			Description: "Move or rename a file or directory.",
			Required: []Entity{
				{Key: "source_path", Type: String(), Prompt: "I need both a source and a destination path to move."},
				{Key: "destination_path", Type: String(), Prompt: "I need both a source and a destination path to move."},
			},
		},
		{
			Name:        "list_directory_contents",
			Description: "List the contents of a directory.",
			Optional: []Entity{
				{Key: "dir_path", Type: String(), Default: "~"},
			},
		},
		{
			Name:        "execute_command",
			Description: "Run a shell command and return its output.",
			Required: []Entity{
				{Key: "command_str", Type: String(), Prompt: "I need a command to execute."},
			},
			Optional: []Entity{
				{Key: "shell_type", Type: String(), Default: "sh"},
			},
		},
		{
			Name:        "set_brightness",
			Description: "Set the screen brightness (0-100).",
			Required: []Entity{
				{Key: "level", Type: Percent(), Prompt: "I need a brightness level."},
			},
		},
		{
			Name:        "set_volume",
			Description: "Set the audio volume (0.0-1.0).",
			Required: []Entity{
				{Key: "level", Type: Unit(), Prompt: "I need a volume level."},
			},
		},
		{
			Name:        "open_app",
			Description: "Launch an installed application.",
			Required: []Entity{
				{Key: "app_name", Type: String(), Prompt: "Which application would you like to open?"},
			},
		},
		{
			Name:        "close_app",
			Description: "Close a running application.",
			Required: []Entity{
				{Key: "app_name", Type: String(), Prompt: "Which application would you like to close?"},
			},
		},
		{
			Name:        "open_website",
			Description: "Open a URL in the default browser.",
			Required: []Entity{
				{Key: "url", Type: String(), Prompt: "Which website would you like to open?"},
			},
		},
		{
			Name:        "search_info",
			Description: "Search the web for a query, optionally summarizing the results.",
			Required: []Entity{
				{Key: "query", Type: String(), Prompt: "What would you like me to search for?"},
			},
			Optional: []Entity{
				{Key: "summarize", Type: Bool(), Default: false},
			},
		},
		{
			Name:        "media_play",
			Description: "Start or resume media playback.",
			Optional: []Entity{
				{Key: "player_name", Type: String(), Default: "default"},
				{Key: "track_or_playlist", Type: String()},
			},
		},
		{
			Name:        "media_pause",
			Description: "Pause media playback.",
			Optional: []Entity{
				{Key: "player_name", Type: String(), Default: "default"},
			},
		},
		{
			Name:        "media_skip",
			Description: "Skip to the next track.",
			Optional: []Entity{
				{Key: "player_name", Type: String(), Default: "default"},
			},
		},
		{
			Name:        "media_previous",
			Description: "Go back to the previous track.",
			Optional: []Entity{
				{Key: "player_name", Type: String(), Default: "default"},
			},
		},
		{
			Name:        "general_query",
			Description: "Answer a general question (time, facts, small talk).",
			Required: []Entity{
				{Key: "query_text", Type: String(), Prompt: "What would you like to know?"},
			},
		},
		{
			Name:        "exit",
			Description: "End the session.",
		},
	}
}
