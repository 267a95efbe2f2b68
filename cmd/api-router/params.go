// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/api-router/internal/router"
	"github.com/pdiddy/api-router/pkg/types"
)

var paramsCmd = &cobra.Command{
	Use:   "params <api> <query...>",
	Short: "Extract the parameters a named API needs from a query",
	Long: `Params runs parameter extraction only and prints the parameters as JSON.
The API is given by name or slug: google-search, stock-data,
sentiment-analysis or weather.

Example:
  api-router params weather "Will it rain in Seattle tomorrow at noon?"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runParams,
}

func runParams(cmd *cobra.Command, args []string) error {
	api, err := types.ParseAPISlug(args[0])
	if err != nil {
		return err
	}

	r, cleanup, err := setupRouter(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	p, err := r.ParseQueryParams(cmd.Context(), strings.Join(args[1:], " "), api)
	if err != nil {
		return err
	}
	return router.FormatJSON(os.Stdout, p)
}

func init() {
	rootCmd.AddCommand(paramsCmd)
}
