// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/api-router/internal/history"
	"github.com/pdiddy/api-router/internal/router"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect previously routed queries (list, show, export, prune)",
	Long: `History manages the local SQLite record of routed queries kept in
history.dir (default .api-router/history.db).`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent routed queries, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	opts := listOptsFromFlags(cmd)

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	routes, err := store.List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return router.FormatJSON(os.Stdout, routes)
	}

	if len(routes) == 0 {
		fmt.Println("No routed queries recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-19s  %-18s  %-40s  %s\n", "ID", "When", "API", "Query", "Status")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, r := range routes {
		status := "ok"
		if !r.OK() {
			status = "error"
		}
		fmt.Fprintf(os.Stdout, "%-8s  %-19s  %-18s  %-40s  %s\n",
			shorten(r.ID, 8), r.CreatedAt.Local().Format(time.DateTime),
			shorten(string(r.APIUsed), 18), shorten(r.Query, 40), status)
	}
	fmt.Fprintf(os.Stdout, "\n%d queries\n", len(routes))
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one routed query with its parameters and results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		res, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return printRoute(res, jsonOutput)
	},
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export routed queries to YAML or JSON",
	Long: `Export writes the history (or the subset matching the filter flags) to
stdout, or to --output when given.`,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	opts := listOptsFromFlags(cmd)

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	if err := store.Export(cmd.Context(), opts, format, w); err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintf(os.Stderr, "Exported to %s\n", output)
	}
	return nil
}

// --- prune subcommand ---

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete routed queries older than --older-than",
	RunE: func(cmd *cobra.Command, args []string) error {
		olderThan, _ := cmd.Flags().GetDuration("older-than")
		if olderThan <= 0 {
			return fmt.Errorf("--older-than must be positive")
		}

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Prune(cmd.Context(), olderThan)
		if err != nil {
			return err
		}
		fmt.Printf("Pruned %d queries.\n", n)
		return nil
	},
}

// --- shared helpers ---

func listOptsFromFlags(cmd *cobra.Command) history.ListOptions {
	contains, _ := cmd.Flags().GetString("contains")
	limit, _ := cmd.Flags().GetInt("limit")
	since, _ := cmd.Flags().GetDuration("since")

	opts := history.ListOptions{API: getAPI(cmd.Flags(), "api"), Contains: contains, Limit: limit}
	if since > 0 {
		opts.Since = time.Now().Add(-since)
	}
	return opts
}

func shorten(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyExportCmd} {
		apiFlag(c.Flags(), "api", "filter by API (name or slug, e.g. weather)")
		c.Flags().String("contains", "", "filter by query substring")
		c.Flags().Duration("since", 0, "only queries newer than this (e.g. 24h)")
	}
	historyListCmd.Flags().Int("limit", 20, "maximum number of queries")
	historyListCmd.Flags().Bool("json", false, "output as JSON")

	historyShowCmd.Flags().Bool("json", false, "output as JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("output", "", "write to this file instead of stdout")
	historyExportCmd.Flags().Int("limit", 0, "maximum queries to export (0 = all)")

	historyPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "age beyond which queries are deleted")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyPruneCmd)

	rootCmd.AddCommand(historyCmd)
}
