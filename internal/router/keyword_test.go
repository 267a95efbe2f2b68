// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/api-router/pkg/types"
)

func fixedKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{now: func() time.Time {
		return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	}}
}

func TestKeywordClassify(t *testing.T) {
	tests := []struct {
		query      string
		wantAPI    types.APIName
		wantParams types.Params
	}{
		{
			query:      "What's the weather in Palo Alto, CA tomorrow at 3pm?",
			wantAPI:    types.APIWeather,
			wantParams: types.Params{"location": "Palo Alto, CA", "date": "2026-03-15", "hour": "15"},
		},
		{
			query:      "Will it rain in Seattle on 2026-04-01 at 9",
			wantAPI:    types.APIWeather,
			wantParams: types.Params{"location": "Seattle", "date": "2026-04-01", "hour": "9"},
		},
		{
			query:      "temperature in Boston at noon",
			wantAPI:    types.APIWeather,
			wantParams: types.Params{"location": "Boston", "hour": "12"},
		},
		{
			query:      "What is the stock price of Apple?",
			wantAPI:    types.APIStockData,
			wantParams: types.Params{"symbol": "AAPL"},
		},
		{
			query:      "How did $tsla trade on 2024-01-05",
			wantAPI:    types.APIStockData,
			wantParams: types.Params{"symbol": "TSLA", "date": "2024-01-05"},
		},
		{
			query:      "What was MSFT's close yesterday?",
			wantAPI:    types.APIStockData,
			wantParams: types.Params{"symbol": "MSFT", "date": "2026-03-13"},
		},
		{
			query:      "What's the price of AAPL?",
			wantAPI:    types.APIStockData,
			wantParams: types.Params{"symbol": "AAPL"},
		},
		{
			query:      "What was NVDA's closing price on 2024-01-05?",
			wantAPI:    types.APIStockData,
			wantParams: types.Params{"symbol": "NVDA", "date": "2024-01-05"},
		},
		{
			query:      "latest quote for Netflix",
			wantAPI:    types.APIStockData,
			wantParams: types.Params{"symbol": "NFLX"},
		},
		{
			query:      "price of a used bike",
			wantAPI:    types.APIGoogleSearch,
			wantParams: types.Params{"search_term": "price of a used bike"},
		},
		{
			query:      `Analyze the sentiment of "I absolutely love this phone"`,
			wantAPI:    types.APISentiment,
			wantParams: types.Params{"text": "I absolutely love this phone"},
		},
		{
			query:      "What's the sentiment of 'the service was awful'",
			wantAPI:    types.APISentiment,
			wantParams: types.Params{"text": "the service was awful"},
		},
		{
			query:      "What is the tone of this review: the food was cold and bland",
			wantAPI:    types.APISentiment,
			wantParams: types.Params{"text": "the food was cold and bland"},
		},
		{
			query:      "Search for the history of the Go programming language",
			wantAPI:    types.APIGoogleSearch,
			wantParams: types.Params{"search_term": "the history of the Go programming language"},
		},
		{
			query:      "best hiking trails near Denver, top 5",
			wantAPI:    types.APIGoogleSearch,
			wantParams: types.Params{"search_term": "best hiking trails near Denver, top 5", "num_results": 5},
		},
	}

	k := fixedKeywordClassifier()
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := k.Classify(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAPI, got.API)
			assert.Equal(t, tt.wantParams, got.Params)
		})
	}
}

func TestKeywordExtractParamsForNamedAPI(t *testing.T) {
	k := fixedKeywordClassifier()

	got, err := k.ExtractParams(context.Background(), "is it sunny in Rome today", types.APIWeather)
	require.NoError(t, err)
	assert.Equal(t, types.Params{"location": "Rome", "date": "2026-03-14"}, got)

	got, err = k.ExtractParams(context.Background(), "nothing useful here", types.APIStockData)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = k.ExtractParams(context.Background(), "q", "Translate")
	assert.ErrorIs(t, err, types.ErrUnknownAPI)
}

func TestFindHour(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"at 3pm", 15, true},
		{"12am", 0, true},
		{"12 pm", 12, true},
		{"9:30 am", 9, true},
		{"at 17", 17, true},
		{"at 17:45", 17, true},
		{"midnight", 0, true},
		{"at 30", 0, false},
		{"13pm", 0, false},
		{"no time", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := findHour(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
