// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the api-router.
// Each routable API has a name, a parameter bag, and a normalized result
// type; RouteResult wraps whichever result the router produced.
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// APIName identifies one of the routable external APIs. The string values
// are the exact names the classifier must answer with.
type APIName string

const (
	APIGoogleSearch APIName = "Google Search"
	APIStockData    APIName = "Stock Data"
	APISentiment    APIName = "Sentiment Analysis"
	APIWeather      APIName = "Weather"
)

// ErrUnknownAPI is returned when a name does not match any routable API.
var ErrUnknownAPI = errors.New("unknown API")

// APINames returns the routable APIs in the order they are offered to the
// classifier.
func APINames() []APIName {
	return []APIName{APIGoogleSearch, APIStockData, APISentiment, APIWeather}
}

// ParseAPIName matches s against the routable API names, ignoring case and
// surrounding whitespace.
func ParseAPIName(s string) (APIName, error) {
	trimmed := strings.TrimSpace(s)
	for _, name := range APINames() {
		if strings.EqualFold(trimmed, string(name)) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAPI, s)
}

// Slug returns a lowercase, hyphenated form of the name (e.g. "stock-data")
// suitable for CLI arguments and log fields.
func (n APIName) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(n)), " ", "-")
}

// ParseAPISlug accepts either the exact API name or its slug.
func ParseAPISlug(s string) (APIName, error) {
	for _, name := range APINames() {
		if strings.EqualFold(s, name.Slug()) {
			return name, nil
		}
	}
	return ParseAPIName(s)
}

// Params holds call parameters as decoded from a classifier reply. Values
// are whatever JSON produced, so accessors coerce between numbers and strings.
type Params map[string]any

// String returns the parameter as a trimmed string. Numbers are formatted
// without a trailing ".0"; missing or null values yield "".
func (p Params) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// Int returns the parameter as an integer, or def when it is missing or not
// numeric.
func (p Params) Int(key string, def int) int {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return def
}

// Has reports whether key is present with a non-empty value.
func (p Params) Has(key string) bool {
	return p.String(key) != ""
}

// Merge returns a copy of p with keys from other filled in where p has no
// value. Values already in p win.
func (p Params) Merge(other Params) Params {
	out := make(Params, len(p)+len(other))
	for k, v := range other {
		out[k] = v
	}
	for k, v := range p {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// WebResult is one Google Search hit with an excerpt of the linked page.
type WebResult struct {
	Title   string `json:"title" yaml:"title"`
	Link    string `json:"link" yaml:"link"`
	Snippet string `json:"snippet" yaml:"snippet"`

	// WebpageContent is the visible text of the linked page, truncated with
	// a trailing "..." when it exceeds the configured length.
	WebpageContent string `json:"webpage_content,omitempty" yaml:"webpage_content,omitempty"`

	// WebpageError describes why the page could not be fetched, e.g.
	// "Error Status: 403". Set only when WebpageContent is empty.
	WebpageError string `json:"webpage_error,omitempty" yaml:"webpage_error,omitempty"`
}

// StockQuote is the current quote for a symbol.
type StockQuote struct {
	Symbol        string  `json:"symbol" yaml:"symbol"`
	Price         float64 `json:"price" yaml:"price"`
	Change        float64 `json:"change" yaml:"change"`
	ChangePercent string  `json:"change_percent" yaml:"change_percent"`
}

// StockDay is one day of historical prices for a symbol.
type StockDay struct {
	Date   string  `json:"date" yaml:"date"`
	Open   float64 `json:"open" yaml:"open"`
	High   float64 `json:"high" yaml:"high"`
	Low    float64 `json:"low" yaml:"low"`
	Close  float64 `json:"close" yaml:"close"`
	Volume int64   `json:"volume" yaml:"volume"`
}

// Sentiment is the thresholded label of a polarity score.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// SentimentResult holds the label and the raw scores it was derived from.
type SentimentResult struct {
	Sentiment    Sentiment `json:"sentiment" yaml:"sentiment"`
	Polarity     float64   `json:"polarity" yaml:"polarity"`
	Subjectivity float64   `json:"subjectivity" yaml:"subjectivity"`
}

// WeatherReport is the hourly forecast for a location. Values are strings
// as rendered from the forecast API.
type WeatherReport struct {
	Temperature        string `json:"temperature" yaml:"temperature"`
	WeatherDescription string `json:"weather_description" yaml:"weather_description"`
	Humidity           string `json:"humidity" yaml:"humidity"`
	WindSpeed          string `json:"wind_speed" yaml:"wind_speed"`
}
