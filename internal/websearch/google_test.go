// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/api-router/pkg/types"
)

type searchItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// newSearchServer serves the Custom Search list call with items and a few
// result pages under /pages/.
func newSearchServer(t *testing.T, items func(base string) []searchItem, captured *url.Values) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var ts *httptest.Server

	mux.HandleFunc("/customsearch/v1", func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			*captured = r.URL.Query()
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"items": items(ts.URL)})
	})
	mux.HandleFunc("/pages/article", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Go</title><style>body{}</style></head>
<body><script>var x = 1;</script><p>Go is an open source   programming language.</p></body></html>`))
	})
	mux.HandleFunc("/pages/long", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<p>" + strings.Repeat("a", 1000) + "</p>"))
	})
	mux.HandleFunc("/pages/forbidden", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusForbidden)
	})

	ts = httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	old := customSearchEndpoint
	customSearchEndpoint = ts.URL + "/"
	t.Cleanup(func() { customSearchEndpoint = old })
	return ts
}

func testBackend(ts *httptest.Server, fetch bool) *GoogleBackend {
	b := NewGoogleBackend(types.SearchConfig{
		EngineID:     "cx-123",
		FetchContent: fetch,
	})
	b.Client = ts.Client()
	b.PageClient = ts.Client()
	return b
}

func TestSearch(t *testing.T) {
	var q url.Values
	ts := newSearchServer(t, func(base string) []searchItem {
		return []searchItem{
			{Title: "The Go Programming Language", Link: base + "/pages/article", Snippet: "Go is expressive."},
			{Title: "Long page", Link: base + "/pages/long", Snippet: "aaaa"},
			{Title: "Forbidden", Link: base + "/pages/forbidden", Snippet: "nope"},
		}
	}, &q)

	got, err := testBackend(ts, true).Search(context.Background(), "  golang  ", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "golang", q.Get("q"))
	assert.Equal(t, "cx-123", q.Get("cx"))
	assert.Equal(t, "3", q.Get("num"))

	assert.Equal(t, "The Go Programming Language", got[0].Title)
	assert.Equal(t, "Go is expressive.", got[0].Snippet)
	assert.Equal(t, "Go Go is an open source programming language.", got[0].WebpageContent)
	assert.Empty(t, got[0].WebpageError)

	assert.Equal(t, strings.Repeat("a", 400)+"...", got[1].WebpageContent)

	assert.Empty(t, got[2].WebpageContent)
	assert.Equal(t, "Error Status: 403", got[2].WebpageError)
}

func TestSearchWithoutContent(t *testing.T) {
	ts := newSearchServer(t, func(base string) []searchItem {
		return []searchItem{{Title: "A", Link: base + "/pages/article"}}
	}, nil)

	got, err := testBackend(ts, false).Search(context.Background(), "golang", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].WebpageContent)
	assert.Empty(t, got[0].WebpageError)
}

func TestSearchResultCount(t *testing.T) {
	tests := []struct {
		name    string
		num     int
		wantNum string
	}{
		{"default", 0, "10"},
		{"explicit", 5, "5"},
		{"clamped", 25, "10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q url.Values
			ts := newSearchServer(t, func(string) []searchItem { return nil }, &q)

			got, err := testBackend(ts, true).Search(context.Background(), "golang", tt.num)
			require.NoError(t, err)
			assert.Empty(t, got)
			assert.Equal(t, tt.wantNum, q.Get("num"))
		})
	}
}

func TestSearchValidation(t *testing.T) {
	ts := newSearchServer(t, func(string) []searchItem { return nil }, nil)

	_, err := testBackend(ts, false).Search(context.Background(), "   ", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty search term")

	b := testBackend(ts, false)
	b.Config.EngineID = ""
	_, err = b.Search(context.Background(), "golang", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine ID")

	b = NewGoogleBackend(types.SearchConfig{EngineID: "cx"})
	_, err = b.Search(context.Background(), "golang", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestSearchAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"code": 403, "message": "API key not valid"}}`))
	}))
	defer ts.Close()

	old := customSearchEndpoint
	customSearchEndpoint = ts.URL + "/"
	defer func() { customSearchEndpoint = old }()

	_, err := testBackend(ts, false).Search(context.Background(), "golang", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Custom Search request")
}

func TestNewGoogleBackendDefaults(t *testing.T) {
	b := NewGoogleBackend(types.SearchConfig{})
	assert.Equal(t, 10, b.Config.NumResults)
	assert.Equal(t, 400, b.Config.ContentLength)
	assert.Equal(t, defaultFetchTimeout, b.Config.FetchTimeout)
	assert.Equal(t, 4, b.Config.FetchConcurrency)
}
