// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/api-router/internal/router"
	"github.com/pdiddy/api-router/pkg/types"
)

// --- direct API subcommands ---

var searchCmd = &cobra.Command{
	Use:   "search <term...>",
	Short: "Run a Google Custom Search query",
	Long: `Search queries the Google Custom Search API and, unless --no-content is
set, attaches the first characters of each result page.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		num, _ := cmd.Flags().GetInt("num")
		noContent, _ := cmd.Flags().GetBool("no-content")
		if noContent {
			viper.Set("search.fetch_content", false)
		}
		return callAPI(cmd, types.APIGoogleSearch, types.Params{
			router.ParamSearchTerm: strings.Join(args, " "),
			router.ParamNumResults: num,
		})
	},
}

var stockCmd = &cobra.Command{
	Use:   "stock <symbol>",
	Short: "Look up a stock quote or a historical daily bar",
	Long: `Stock returns the current Alpha Vantage quote for a symbol, or the daily
open/high/low/close/volume for --date.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		return callAPI(cmd, types.APIStockData, types.Params{
			router.ParamSymbol: args[0],
			router.ParamDate:   date,
		})
	},
}

var sentimentCmd = &cobra.Command{
	Use:   "sentiment <text...>",
	Short: "Score the sentiment of a piece of text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAPI(cmd, types.APISentiment, types.Params{
			router.ParamText: strings.Join(args, " "),
		})
	},
}

var weatherCmd = &cobra.Command{
	Use:   "weather <location...>",
	Short: "Get the hourly forecast for a location",
	Long: `Weather geocodes the city (the part of the location before the first
comma) with Open-Meteo and returns the forecast for --date at --hour.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		hour, _ := cmd.Flags().GetString("hour")
		return callAPI(cmd, types.APIWeather, types.Params{
			router.ParamLocation: strings.Join(args, " "),
			router.ParamDate:     date,
			router.ParamHour:     hour,
		})
	},
}

// callAPI calls one tool directly and prints its result.
func callAPI(cmd *cobra.Command, api types.APIName, params types.Params) error {
	cfg := loadRouterConfig(viper.GetViper(), loadedSecrets)
	tools, err := newTools(cfg)
	if err != nil {
		return err
	}

	res, err := router.New(nil, tools...).Call(cmd.Context(), api, params)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return router.FormatJSON(os.Stdout, res)
	}
	return router.FormatResults(os.Stdout, res)
}

func init() {
	searchCmd.Flags().Int("num", 0, "number of results, at most 10 (0 = search.num_results)")
	searchCmd.Flags().Bool("no-content", false, "skip fetching result pages")

	stockCmd.Flags().String("date", "", "trading day (YYYY-MM-DD); empty returns the current quote")

	weatherCmd.Flags().String("date", "", "forecast date (YYYY-MM-DD, default today)")
	weatherCmd.Flags().String("hour", "", "hour of day 0-23 (default weather.default_hour)")

	for _, c := range []*cobra.Command{searchCmd, stockCmd, sentimentCmd, weatherCmd} {
		c.Flags().Bool("json", false, "output the result as JSON")
		rootCmd.AddCommand(c)
	}
}
