// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/api-router/pkg/types"
)

func TestVisibleText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"plain paragraph", "<p>Hello   world</p>", "Hello world"},
		{"script and style skipped", "<style>p{}</style><p>a</p><script>alert(1)</script><p>b</p>", "a b"},
		{"noscript skipped", "<noscript>enable js</noscript>content", "content"},
		{"nested skip", "<svg><style>x</style><text>chart</text></svg>after", "after"},
		{"entities decoded", "<p>Fish &amp; chips</p>", "Fish & chips"},
		{"empty document", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VisibleText(strings.NewReader(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "héé...", Truncate("hééllo", 3), "counts characters, not bytes")
	assert.Equal(t, strings.Repeat("x", 400)+"...", Truncate(strings.Repeat("x", 401), 0))
}

func TestFetchErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	f := &PageFetcher{Client: ts.Client(), MaxLength: 400}

	_, err := f.Fetch(context.Background(), ts.URL+"/missing")
	require.Error(t, err)
	assert.Equal(t, "Error Status: 404", err.Error())

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)

	_, err = f.Fetch(context.Background(), "http://127.0.0.1:1/unreachable")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Error: "), "got %q", err.Error())
}

func TestFetchAllPreservesOrder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("<p>" + strings.TrimPrefix(r.URL.Path, "/") + "</p>"))
	}))
	defer ts.Close()

	results := []types.WebResult{
		{Link: ts.URL + "/one"},
		{Link: ts.URL + "/bad"},
		{Link: ts.URL + "/three"},
		{Link: ts.URL + "/four"},
	}
	f := &PageFetcher{Client: ts.Client(), MaxLength: 400, Concurrency: 2}
	f.FetchAll(context.Background(), results)

	assert.Equal(t, "one", results[0].WebpageContent)
	assert.Equal(t, "Error Status: 500", results[1].WebpageError)
	assert.Empty(t, results[1].WebpageContent)
	assert.Equal(t, "three", results[2].WebpageContent)
	assert.Equal(t, "four", results[3].WebpageContent)
}

func TestFetchSendsUserAgent(t *testing.T) {
	var ua string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	f := &PageFetcher{Client: ts.Client(), UserAgent: "api-router/test"}
	got, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, "api-router/test", ua)
}
