package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustgd/machinae/internal/cli"
	redisAdapter "github.com/rustgd/machinae/pkg/adapters/redis"
	"github.com/rustgd/machinae/pkg/trace"
)

// traceCmd represents the trace command
var traceCmd = &cobra.Command{
	Use:   "trace [journal]",
	Short: "Render a recorded journal as a timeline",
	Long: `Reads a journal written by 'machinae demo --trace' (or --redis) and
prints its timeline and per-kind statistics.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		run, _ := cmd.Flags().GetString("run")
		redisAddr, _ := cmd.Flags().GetString("redis")

		entries, err := loadEntries(cmd.Context(), args, run, redisAddr)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		report := cli.BuildReport(entries)
		if err := cli.WriteReport(cmd.OutOrStdout(), report, format); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func loadEntries(ctx context.Context, args []string, run, redisAddr string) ([]trace.Entry, error) {
	if redisAddr != "" {
		store := redisAdapter.New(redisAddr, "", 0)
		defer store.Close()
		if run == "" {
			runs, err := store.Runs(ctx)
			if err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("pick a run with --run; available: %v", runs)
		}
		return store.Entries(ctx, run)
	}

	if len(args) != 1 {
		return nil, fmt.Errorf("provide a journal path or --redis")
	}
	entries, err := trace.ReadFile(args[0])
	if err != nil {
		return nil, err
	}
	if run != "" {
		entries = cli.FilterRun(entries, run)
	}
	return entries, nil
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().String("format", "text", "Output format (text, json or mermaid)")
	traceCmd.Flags().String("run", "", "Only show entries for this run")
	traceCmd.Flags().String("redis", "", "Read the journal from this redis address")
}
