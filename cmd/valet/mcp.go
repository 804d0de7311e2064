package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/valet/internal/logging"
	mcpadapter "github.com/aretw0/valet/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the valet assistant as an MCP server over stdio.
This allows AI agents (like Claude Desktop) to dispatch commands and call
intents as tools. Logs go to stderr so JSON-RPC on stdout stays clean.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		// Stdout belongs to JSON-RPC; everything else goes to stderr.
		log.SetOutput(os.Stderr)
		level := parseLevel(cfg.Log.Level)
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			level = slog.LevelDebug
		}
		logger := logging.New(level)
		slog.SetDefault(logger)

		assistant, cleanup, err := openAssistant(cmd.Context(), cfg, logger)
		if err != nil {
			slog.Error("Error initializing valet", "error", err)
			os.Exit(1)
		}
		defer cleanup()

		srv := mcpadapter.NewServer(assistant)

		slog.Info("Starting valet MCP server (stdio)")
		if err := srv.ServeStdio(); err != nil {
			slog.Error("MCP server execution failed", "error", err)
			cleanup()
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
