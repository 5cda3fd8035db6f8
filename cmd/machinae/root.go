package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "machinae",
	Short: "Machinae is a stack-based state machine toolkit",
	Long:  `Machinae drives layered game and application states through a pushdown stack, with journaling and metrics built in.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log verbosity (debug, info, warn, error)")
}
