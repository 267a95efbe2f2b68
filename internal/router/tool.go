// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/pdiddy/api-router/pkg/types"
)

// ErrMissingParam is returned when a tool is called without one of its
// required parameters.
var ErrMissingParam = errors.New("missing required parameter")

// Parameter names as they appear in classifier replies.
const (
	ParamSearchTerm = "search_term"
	ParamNumResults = "num_results"
	ParamSymbol     = "symbol"
	ParamDate       = "date"
	ParamText       = "text"
	ParamLocation   = "location"
	ParamHour       = "hour"
)

// requiredParams lists, per API, the parameters a call cannot do without.
var requiredParams = map[types.APIName][]string{
	types.APIGoogleSearch: {ParamSearchTerm},
	types.APIStockData:    {ParamSymbol},
	types.APISentiment:    {ParamText},
	types.APIWeather:      {ParamLocation},
}

// RequiredParams returns the parameters api needs.
func RequiredParams(api types.APIName) []string {
	return requiredParams[api]
}

// missingParams returns the required parameters of api absent from p.
func missingParams(api types.APIName, p types.Params) []string {
	var missing []string
	for _, k := range requiredParams[api] {
		if !p.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// Tool is one routable API. Implementations validate their own parameters.
type Tool interface {
	Name() types.APIName
	Call(ctx context.Context, params types.Params) (any, error)
}

// Searcher runs web searches.
type Searcher interface {
	Search(ctx context.Context, term string, numResults int) ([]types.WebResult, error)
}

// StockLookup returns a current quote when date is empty, otherwise the
// daily bar for date.
type StockLookup interface {
	Lookup(ctx context.Context, symbol, date string) (any, error)
}

// SentimentAnalyzer scores text.
type SentimentAnalyzer interface {
	Analyze(text string) types.SentimentResult
}

// Forecaster returns the hourly forecast for a location.
type Forecaster interface {
	Forecast(ctx context.Context, location, date, hour string) (types.WeatherReport, error)
}

// SearchTool adapts a Searcher to the Google Search API contract.
type SearchTool struct{ Searcher Searcher }

func (t SearchTool) Name() types.APIName { return types.APIGoogleSearch }

func (t SearchTool) Call(ctx context.Context, p types.Params) (any, error) {
	if err := requireParams(t.Name(), p); err != nil {
		return nil, err
	}
	return t.Searcher.Search(ctx, p.String(ParamSearchTerm), p.Int(ParamNumResults, 0))
}

// StockTool adapts a StockLookup to the Stock Data API contract.
type StockTool struct{ Lookup StockLookup }

func (t StockTool) Name() types.APIName { return types.APIStockData }

func (t StockTool) Call(ctx context.Context, p types.Params) (any, error) {
	if err := requireParams(t.Name(), p); err != nil {
		return nil, err
	}
	return t.Lookup.Lookup(ctx, p.String(ParamSymbol), p.String(ParamDate))
}

// SentimentTool adapts a SentimentAnalyzer to the Sentiment Analysis API
// contract.
type SentimentTool struct{ Analyzer SentimentAnalyzer }

func (t SentimentTool) Name() types.APIName { return types.APISentiment }

func (t SentimentTool) Call(_ context.Context, p types.Params) (any, error) {
	if err := requireParams(t.Name(), p); err != nil {
		return nil, err
	}
	return t.Analyzer.Analyze(p.String(ParamText)), nil
}

// WeatherTool adapts a Forecaster to the Weather API contract. An absent
// hour is left to the Forecaster's default.
type WeatherTool struct{ Forecaster Forecaster }

func (t WeatherTool) Name() types.APIName { return types.APIWeather }

func (t WeatherTool) Call(ctx context.Context, p types.Params) (any, error) {
	if err := requireParams(t.Name(), p); err != nil {
		return nil, err
	}
	hour := p.String(ParamHour)
	if n := p.Int(ParamHour, -1); n >= 0 {
		hour = strconv.Itoa(n)
	}
	return t.Forecaster.Forecast(ctx, p.String(ParamLocation), p.String(ParamDate), hour)
}

func requireParams(api types.APIName, p types.Params) error {
	if missing := missingParams(api, p); len(missing) > 0 {
		return fmt.Errorf("%s: %w %q", api, ErrMissingParam, missing[0])
	}
	return nil
}
