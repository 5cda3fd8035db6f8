package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustgd/machinae"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of machinae",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("machinae version %s\n", strings.TrimSpace(machinae.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
