package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <command>",
	Short: "Dispatch a single command and print the reply",
	Long: `Runs one command through the full pipeline and exits. The command may span
multiple arguments; they are joined with spaces before dispatching.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		debug, _ := cmd.Flags().GetBool("debug")
		logger := createLogger(debug)

		sessionID, _ := cmd.Flags().GetString("session")
		jsonMode, _ := cmd.Flags().GetBool("json")

		assistant, cleanup, err := openAssistant(cmd.Context(), cfg, logger)
		if err != nil {
			fmt.Printf("Error initializing valet: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		res := assistant.Dispatch(cmd.Context(), sessionID, strings.Join(args, " "))

		if jsonMode {
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				fmt.Printf("Error marshaling result: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
		} else {
			fmt.Println(res.Text())
		}

		if !res.OK {
			cleanup()
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", "", "Session ID to resume or create")
	runCmd.Flags().Bool("json", false, "Print the full result as JSON")
}
