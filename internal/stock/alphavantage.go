// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stock reads current quotes and daily history from Alpha Vantage.
package stock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/api-router/internal/httputil"
	"github.com/pdiddy/api-router/pkg/types"
)

// alphaVantageURL is the Alpha Vantage query endpoint. Declared as a var so
// tests can substitute an httptest server.
var alphaVantageURL = "https://www.alphavantage.co/query"

const dateLayout = "2006-01-02"

// ErrNoData is returned when the API answers but has no quote for the
// symbol, or no bar for the requested date.
var ErrNoData = errors.New("no stock data")

// AlphaVantage queries the Alpha Vantage time series API.
type AlphaVantage struct {
	Client *http.Client
	Config types.StockConfig
}

// NewAlphaVantage returns a client with the given config.
func NewAlphaVantage(client *http.Client, cfg types.StockConfig) *AlphaVantage {
	return &AlphaVantage{Client: client, Config: cfg}
}

// Lookup returns the current quote when date is empty, otherwise the daily
// bar for that date. The result is a types.StockQuote or types.StockDay.
func (a *AlphaVantage) Lookup(ctx context.Context, symbol, date string) (any, error) {
	if strings.TrimSpace(date) == "" {
		return a.Quote(ctx, symbol)
	}
	return a.Daily(ctx, symbol, date)
}

// Quote returns the latest GLOBAL_QUOTE for symbol.
func (a *AlphaVantage) Quote(ctx context.Context, symbol string) (types.StockQuote, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return types.StockQuote{}, err
	}

	body, err := a.query(ctx, url.Values{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {symbol},
	})
	if err != nil {
		return types.StockQuote{}, err
	}

	quote := gjson.GetBytes(body, escapeKey("Global Quote"))
	if !quote.IsObject() || len(quote.Map()) == 0 {
		return types.StockQuote{}, fmt.Errorf("%w for %s", ErrNoData, symbol)
	}

	field := func(k string) gjson.Result { return quote.Get(escapeKey(k)) }
	return types.StockQuote{
		Symbol:        field("01. symbol").String(),
		Price:         field("05. price").Float(),
		Change:        field("09. change").Float(),
		ChangePercent: field("10. change percent").String(),
	}, nil
}

// Daily returns the TIME_SERIES_DAILY bar for symbol on date (YYYY-MM-DD).
// Only the compact series (latest 100 trading days) is searched.
func (a *AlphaVantage) Daily(ctx context.Context, symbol, date string) (types.StockDay, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return types.StockDay{}, err
	}
	date = strings.TrimSpace(date)
	if _, err := time.Parse(dateLayout, date); err != nil {
		return types.StockDay{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
	}

	body, err := a.query(ctx, url.Values{
		"function":   {"TIME_SERIES_DAILY"},
		"symbol":     {symbol},
		"outputsize": {"compact"},
	})
	if err != nil {
		return types.StockDay{}, err
	}

	bar := gjson.GetBytes(body, escapeKey("Time Series (Daily)")+"."+escapeKey(date))
	if !bar.Exists() {
		return types.StockDay{}, fmt.Errorf("%w for %s on %s", ErrNoData, symbol, date)
	}

	field := func(k string) gjson.Result { return bar.Get(escapeKey(k)) }
	return types.StockDay{
		Date:   date,
		Open:   field("1. open").Float(),
		High:   field("2. high").Float(),
		Low:    field("3. low").Float(),
		Close:  field("4. close").Float(),
		Volume: field("5. volume").Int(),
	}, nil
}

// query issues one API call and returns the body after checking for the
// error envelopes Alpha Vantage sends with HTTP 200.
func (a *AlphaVantage) query(ctx context.Context, params url.Values) ([]byte, error) {
	if a.Config.APIKey == "" {
		return nil, fmt.Errorf("Alpha Vantage API key is not configured")
	}
	params.Set("apikey", a.Config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, alphaVantageURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httputil.SetUserAgent(req, a.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, a.Config.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("Alpha Vantage request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Alpha Vantage returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading Alpha Vantage response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("parsing Alpha Vantage response: invalid JSON")
	}

	for _, key := range []string{"Error Message", "Note", "Information"} {
		if msg := gjson.GetBytes(body, escapeKey(key)); msg.Exists() {
			return nil, fmt.Errorf("Alpha Vantage: %s", msg.String())
		}
	}
	return body, nil
}

func normalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(symbol), "$")))
	if s == "" {
		return "", fmt.Errorf("empty stock symbol")
	}
	return s, nil
}

// escapeKey makes an Alpha Vantage field name ("01. symbol",
// "Time Series (Daily)") usable as a single gjson path component.
func escapeKey(k string) string {
	var b strings.Builder
	for _, r := range k {
		if strings.ContainsRune(`.*?|#@!=<>%()[]{}\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
