package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/valet"
	"github.com/aretw0/valet/internal/presentation/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long:  `Starts a terminal session where each line is dispatched to the assistant and the reply is rendered as markdown.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		debug, _ := cmd.Flags().GetBool("debug")
		logger := createLogger(debug)

		sessionID, _ := cmd.Flags().GetString("session")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		assistant, cleanup, err := openAssistant(ctx, cfg, logger)
		if err != nil {
			fmt.Printf("Error initializing valet: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		tui.PrintBanner(valet.Version)
		if cfg.LLM.APIKey == "" {
			printSystemMessage("No language model configured. Set OPENAI_API_KEY to enable dispatching.")
		}
		if sessionID != "" {
			printSystemMessage("Session '%s' active.", sessionID)
		}

		render := tui.NewRenderer()

		// Reading happens on its own goroutine so CTRL+C interrupts the prompt.
		lines := make(chan string)
		go func() {
			defer close(lines)
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				select {
				case lines <- scanner.Text():
				case <-ctx.Done():
					return
				}
			}
		}()

		for {
			fmt.Print("> ")

			var input string
			select {
			case <-ctx.Done():
				fmt.Println("[CTRL+C]")
				farewell(ctx, assistant, sessionID, render)
				return
			case line, ok := <-lines:
				if !ok {
					// Stdin closed (piped input ran out).
					fmt.Println()
					return
				}
				input = strings.TrimSpace(line)
			}

			if input == "" {
				continue
			}
			// Leaving should never need a model round-trip.
			if input == "exit" || input == "quit" {
				farewell(ctx, assistant, sessionID, render)
				return
			}

			res := assistant.Dispatch(ctx, sessionID, input)
			printReply(render, res.Text())
			if res.OK && res.Response == "Goodbye!" {
				return
			}
		}
	},
}

// farewell runs the exit intent so the goodbye text has one source of truth.
func farewell(ctx context.Context, assistant *valet.Assistant, sessionID string, render func(string) (string, error)) {
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	res := assistant.Execute(ctx, sessionID, "exit", nil)
	printReply(render, res.Text())
}

func printReply(render func(string) (string, error), text string) {
	if out, err := render(text); err == nil {
		fmt.Print(out)
		return
	}
	fmt.Println(text)
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("session", "s", "", "Session ID to resume or create")

	// Chatting is the default when no subcommand is given.
	rootCmd.Run = chatCmd.Run
}
