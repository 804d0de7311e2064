package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/valet/pkg/schema"
)

var intentsCmd = &cobra.Command{
	Use:   "intents",
	Short: "List the intents the assistant understands",
	Long:  `Prints every intent definition: builtins plus anything loaded from the configured intent pack.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		debug, _ := cmd.Flags().GetBool("debug")
		assistant, cleanup, err := openAssistant(cmd.Context(), cfg, createLogger(debug))
		if err != nil {
			fmt.Printf("Error initializing valet: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "INTENT\tREQUIRED\tOPTIONAL\tDESCRIPTION")
		for _, def := range assistant.Schema().Definitions() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				def.Name,
				entityList(def.Required),
				entityList(def.Optional),
				def.Description,
			)
		}
		w.Flush()
	},
}

func entityList(entities []schema.Entity) string {
	if len(entities) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(entities))
	for _, ent := range entities {
		name := ent.Key
		if ent.Type != nil {
			name += ":" + ent.Type.Name()
		}
		keys = append(keys, name)
	}
	return strings.Join(keys, ", ")
}

func init() {
	rootCmd.AddCommand(intentsCmd)
}
