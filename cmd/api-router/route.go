// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/api-router/internal/router"
	"github.com/pdiddy/api-router/pkg/types"
)

var routeCmd = &cobra.Command{
	Use:   "route <query...>",
	Short: "Route a natural-language query to the right API and print the result",
	Long: `Route classifies the query, extracts the parameters the chosen API needs
and calls it. The result is printed as text, or as JSON with --json, and
recorded in the history unless --no-history is set.

Examples:
  api-router route "What's the weather in Palo Alto, CA tomorrow at 3pm?"
  api-router route --json "How did AAPL close on 2024-01-05?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRoute,
}

func runRoute(cmd *cobra.Command, args []string) error {
	r, cleanup, err := setupRouter(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	res := r.Route(cmd.Context(), strings.Join(args, " "))

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if err := printRoute(res, jsonOutput); err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("%s", res.Error)
	}
	return nil
}

func printRoute(res types.RouteResult, jsonOutput bool) error {
	if jsonOutput {
		return router.FormatJSON(os.Stdout, res)
	}
	return router.FormatText(os.Stdout, res)
}

func init() {
	routeCmd.Flags().Bool("json", false, "output the result as JSON")

	rootCmd.AddCommand(routeCmd)
}
