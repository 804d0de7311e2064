package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/valet"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of valet",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("valet version %s\n", strings.TrimSpace(valet.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
