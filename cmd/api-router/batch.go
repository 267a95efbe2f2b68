// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/api-router/internal/batch"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file.yaml>",
	Short: "Route every query listed in a YAML file",
	Long: `Batch reads a YAML file with a "queries" list, routes each query and
prints a summary. With --output the queries, results and summary are saved
to a YAML file that batch can read again.

Example file:
  queries:
    - What's the weather in Palo Alto, CA tomorrow at 3pm?
    - How did AAPL close on 2024-01-05?`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	f, err := batch.Read(args[0])
	if err != nil {
		return err
	}

	r, cleanup, err := setupRouter(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	results := batch.Run(cmd.Context(), r, f.Queries, concurrency)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	for _, res := range results {
		if err := printRoute(res, jsonOutput); err != nil {
			return err
		}
		if !jsonOutput {
			fmt.Println()
		}
	}

	now := time.Now()
	sum := batch.Summarize(results, now)
	fmt.Fprintf(os.Stderr, "%d queries, %d failed\n", sum.Total, sum.Failed)
	for _, api := range sum.APIs() {
		fmt.Fprintf(os.Stderr, "  %-20s %d\n", api, sum.ByAPI[api])
	}

	if out, _ := cmd.Flags().GetString("output"); out != "" {
		if err := batch.Write(out, results, now); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved to %s\n", out)
	}
	return nil
}

func init() {
	batchCmd.Flags().IntP("concurrency", "c", batch.DefaultConcurrency, "queries routed at once")
	batchCmd.Flags().StringP("output", "o", "", "save queries and results to this YAML file")
	batchCmd.Flags().Bool("json", false, "print each result as JSON")

	rootCmd.AddCommand(batchCmd)
}
