// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/api-router/pkg/types"
)

// FormatJSON writes res as indented JSON.
func FormatJSON(w io.Writer, res any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// FormatText writes a human-readable rendering of a routed query.
func FormatText(w io.Writer, res types.RouteResult) error {
	api := string(res.APIUsed)
	if api == "" {
		api = "(none)"
	}
	fmt.Fprintf(w, "Query:      %s\n", res.Query)
	fmt.Fprintf(w, "API:        %s\n", api)
	if len(res.Parameters) > 0 {
		fmt.Fprintf(w, "Parameters: %s\n", formatParams(res.Parameters))
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))

	if res.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", res.Error)
	} else if err := FormatResults(w, res.Results); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n(%s in %s)\n", res.ID, res.Duration.Round(time.Millisecond))
	return nil
}

// FormatResults writes one API result in text form. Unknown result types
// are written as JSON.
func FormatResults(w io.Writer, v any) error {
	switch r := v.(type) {
	case []types.WebResult:
		if len(r) == 0 {
			fmt.Fprintln(w, "No results found.")
			return nil
		}
		for i, item := range r {
			fmt.Fprintf(w, "%2d. %s\n", i+1, item.Title)
			fmt.Fprintf(w, "    %s\n", item.Link)
			if item.Snippet != "" {
				fmt.Fprintf(w, "    %s\n", oneLine(item.Snippet))
			}
			switch {
			case item.WebpageError != "":
				fmt.Fprintf(w, "    [%s]\n", item.WebpageError)
			case item.WebpageContent != "":
				fmt.Fprintf(w, "    > %s\n", item.WebpageContent)
			}
		}
		fmt.Fprintf(w, "\n%d results\n", len(r))
	case types.StockQuote:
		fmt.Fprintf(w, "%-8s  %12s  %10s  %s\n", "Symbol", "Price", "Change", "Change %")
		fmt.Fprintf(w, "%-8s  %12.4f  %+10.4f  %s\n", r.Symbol, r.Price, r.Change, r.ChangePercent)
	case types.StockDay:
		fmt.Fprintf(w, "%-10s  %10s  %10s  %10s  %10s  %12s\n", "Date", "Open", "High", "Low", "Close", "Volume")
		fmt.Fprintf(w, "%-10s  %10.4f  %10.4f  %10.4f  %10.4f  %12d\n", r.Date, r.Open, r.High, r.Low, r.Close, r.Volume)
	case types.SentimentResult:
		fmt.Fprintf(w, "Sentiment:    %s\n", r.Sentiment)
		fmt.Fprintf(w, "Polarity:     %.3f\n", r.Polarity)
		fmt.Fprintf(w, "Subjectivity: %.3f\n", r.Subjectivity)
	case types.WeatherReport:
		fmt.Fprintf(w, "Conditions:  %s\n", r.WeatherDescription)
		fmt.Fprintf(w, "Temperature: %s\n", r.Temperature)
		fmt.Fprintf(w, "Humidity:    %s\n", r.Humidity)
		fmt.Fprintf(w, "Wind:        %s\n", r.WindSpeed)
	case nil:
		fmt.Fprintln(w, "No results.")
	default:
		return FormatJSON(w, v)
	}
	return nil
}

// formatParams renders params as key=value pairs in key order.
func formatParams(p types.Params) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, p.String(k))
	}
	return strings.Join(parts, " ")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
