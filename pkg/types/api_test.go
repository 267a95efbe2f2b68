// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAPIName(t *testing.T) {
	tests := []struct {
		in      string
		want    APIName
		wantErr bool
	}{
		{"Google Search", APIGoogleSearch, false},
		{"  stock data ", APIStockData, false},
		{"SENTIMENT ANALYSIS", APISentiment, false},
		{"Weather", APIWeather, false},
		{"Translate", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAPIName(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownAPI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "google-search", APIGoogleSearch.Slug())
	assert.Equal(t, "sentiment-analysis", APISentiment.Slug())

	for _, name := range APINames() {
		got, err := ParseAPISlug(name.Slug())
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}

	got, err := ParseAPISlug("Stock Data")
	require.NoError(t, err)
	assert.Equal(t, APIStockData, got)

	_, err = ParseAPISlug("nope")
	assert.ErrorIs(t, err, ErrUnknownAPI)
}

func TestParamsString(t *testing.T) {
	p := Params{
		"s":      "  padded  ",
		"float":  15.0,
		"frac":   2.5,
		"int":    7,
		"number": json.Number("42"),
		"bool":   true,
		"null":   nil,
	}
	assert.Equal(t, "padded", p.String("s"))
	assert.Equal(t, "15", p.String("float"))
	assert.Equal(t, "2.5", p.String("frac"))
	assert.Equal(t, "7", p.String("int"))
	assert.Equal(t, "42", p.String("number"))
	assert.Equal(t, "true", p.String("bool"))
	assert.Equal(t, "", p.String("null"))
	assert.Equal(t, "", p.String("missing"))
}

func TestParamsInt(t *testing.T) {
	p := Params{
		"int":    3,
		"float":  4.0,
		"number": json.Number("5"),
		"string": " 6 ",
		"bad":    "six",
		"frac":   json.Number("2.5"),
	}
	assert.Equal(t, 3, p.Int("int", 0))
	assert.Equal(t, 4, p.Int("float", 0))
	assert.Equal(t, 5, p.Int("number", 0))
	assert.Equal(t, 6, p.Int("string", 0))
	assert.Equal(t, 10, p.Int("bad", 10))
	assert.Equal(t, 10, p.Int("frac", 10))
	assert.Equal(t, 10, p.Int("missing", 10))
}

func TestParamsHas(t *testing.T) {
	p := Params{"a": "x", "blank": "  ", "nil": nil}
	assert.True(t, p.Has("a"))
	assert.False(t, p.Has("blank"))
	assert.False(t, p.Has("nil"))
	assert.False(t, p.Has("missing"))
}

func TestParamsMerge(t *testing.T) {
	p := Params{"symbol": "AAPL", "date": "", "hour": nil}
	other := Params{"symbol": "MSFT", "date": "2024-01-05", "hour": "12", "extra": 1}

	got := p.Merge(other)
	assert.Equal(t, Params{"symbol": "AAPL", "date": "2024-01-05", "hour": "12", "extra": 1}, got)

	assert.Equal(t, "", p["date"], "receiver is not modified")
	assert.Equal(t, Params{"a": 1}, Params(nil).Merge(Params{"a": 1}))
}

func TestRouteResultOK(t *testing.T) {
	assert.True(t, RouteResult{}.OK())
	assert.False(t, RouteResult{Error: "boom"}.OK())
}
