package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustgd/machinae/internal/cli"
)

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the interactive survival loop demo",
	Long: `Starts the demo game on a fixed-timestep loop. Type inputs at the
terminal, or replay a recorded scenario with --script. Pass --trace to
journal every lifecycle event for later inspection with 'machinae trace'.`,
	Run: func(cmd *cobra.Command, args []string) {
		logLevel, _ := cmd.Flags().GetString("log-level")
		script, _ := cmd.Flags().GetString("script")
		duration, _ := cmd.Flags().GetDuration("duration")
		fps, _ := cmd.Flags().GetInt("fps")
		tracePath, _ := cmd.Flags().GetString("trace")
		redisAddr, _ := cmd.Flags().GetString("redis")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
		noBanner, _ := cmd.Flags().GetBool("no-banner")

		if tracePath != "" && redisAddr != "" {
			fmt.Println("Error: --trace and --redis cannot be used together.")
			os.Exit(1)
		}

		err := cli.RunDemo(cli.DemoOptions{
			Script:      script,
			Duration:    duration,
			FPS:         fps,
			TracePath:   tracePath,
			RedisAddr:   redisAddr,
			MetricsAddr: metricsAddr,
			LogLevel:    logLevel,
			NoBanner:    noBanner,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().String("script", "", "Scenario file to replay instead of reading stdin")
	demoCmd.Flags().Duration("duration", 0, "Stop after this long (0 runs until quit)")
	demoCmd.Flags().Int("fps", 60, "Fixed updates per second")
	demoCmd.Flags().String("trace", "", "Write a journal to this file")
	demoCmd.Flags().String("redis", "", "Write the journal to this redis address instead")
	demoCmd.Flags().String("metrics-addr", "", "Serve prometheus metrics on this address (e.g. :2112)")
	demoCmd.Flags().Bool("no-banner", false, "Skip the startup banner")

	// Make 'demo' the default if no command is provided.
	rootCmd.Run = demoCmd.Run
}
