// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RouteResult is the outcome of routing one natural-language query.
// Failures are reported in Error rather than as a Go error so that a
// result can always be printed and recorded.
type RouteResult struct {
	// ID uniquely identifies the routed query in the history store.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Query is the natural-language input.
	Query string `json:"query" yaml:"query"`

	// APIUsed is the API the query was routed to. Empty when
	// classification failed.
	APIUsed APIName `json:"api_used,omitempty" yaml:"api_used,omitempty"`

	// Parameters are the call parameters after extraction and defaults.
	Parameters Params `json:"parameters,omitempty" yaml:"parameters,omitempty"`

	// Results holds the API result: []WebResult, StockQuote, StockDay,
	// SentimentResult or WeatherReport.
	Results any `json:"results,omitempty" yaml:"results,omitempty"`

	// Error describes what went wrong, if anything.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Duration is the wall time spent classifying and calling the API.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// CreatedAt is when routing started.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// OK reports whether the query was routed and answered without error.
func (r RouteResult) OK() bool {
	return r.Error == ""
}
