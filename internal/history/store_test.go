// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/api-router/pkg/types"
)

// --- test helpers ---

var baseTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.HistoryConfig{Dir: filepath.Join(t.TempDir(), "history"), Enabled: true})
	require.NoError(t, err)
	s.now = func() time.Time { return baseTime }
	t.Cleanup(func() { s.Close() })
	return s
}

func route(id, query string, api types.APIName, ago time.Duration) types.RouteResult {
	return types.RouteResult{
		ID:         id,
		Query:      query,
		APIUsed:    api,
		Parameters: types.Params{"k": "v"},
		Duration:   150 * time.Millisecond,
		CreatedAt:  baseTime.Add(-ago),
	}
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	for _, r := range []types.RouteResult{
		route("r1", "weather in Oslo", types.APIWeather, 3*time.Hour),
		route("r2", "apple stock price", types.APIStockData, 2*time.Hour),
		route("r3", "weather in Paris tomorrow", types.APIWeather, time.Hour),
		route("r4", "100% organic_food", types.APIGoogleSearch, 30*time.Minute),
	} {
		require.NoError(t, s.Record(ctx, r))
	}
}

func ids(routes []types.RouteResult) []string {
	out := make([]string, len(routes))
	for i, r := range routes {
		out[i] = r.ID
	}
	return out
}

// --- Open ---

func TestOpenCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	s, err := Open(types.HistoryConfig{Dir: dir})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, filepath.Join(dir, "history.db"), s.Path())
	_, err = os.Stat(s.Path())
	assert.NoError(t, err)

	// Reopening an existing database keeps the schema.
	s2, err := Open(types.HistoryConfig{Dir: dir})
	require.NoError(t, err)
	s2.Close()
}

// --- Record / Get ---

func TestRecordAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	in := types.RouteResult{
		ID:         "abc",
		Query:      "apple stock",
		APIUsed:    types.APIStockData,
		Parameters: types.Params{"symbol": "AAPL"},
		Results:    types.StockQuote{Symbol: "AAPL", Price: 190.64, Change: 1.09, ChangePercent: "0.5750%"},
		Duration:   1234 * time.Millisecond,
		CreatedAt:  baseTime,
	}
	require.NoError(t, s.Record(ctx, in))

	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "apple stock", got.Query)
	assert.Equal(t, types.APIStockData, got.APIUsed)
	assert.Equal(t, "AAPL", got.Parameters.String("symbol"))
	assert.Equal(t, 1234*time.Millisecond, got.Duration)
	assert.True(t, baseTime.Equal(got.CreatedAt))
	assert.Empty(t, got.Error)

	results, ok := got.Results.(map[string]any)
	require.True(t, ok, "results decode as a JSON object, got %T", got.Results)
	assert.Equal(t, "AAPL", results["symbol"])
	assert.Equal(t, 190.64, results["price"])
}

func TestRecordAssignsIDAndTime(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, types.RouteResult{Query: "q", Error: "query is empty"}))

	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].ID, 36, "UUID string")
	assert.True(t, baseTime.Equal(all[0].CreatedAt))
	assert.Equal(t, "query is empty", all[0].Error)
	assert.Nil(t, all[0].Results)
	assert.Nil(t, all[0].Parameters)
}

func TestRecordReplacesSameID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, route("x", "first", types.APIWeather, 0)))
	require.NoError(t, s.Record(ctx, route("x", "second", types.APIWeather, 0)))

	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "second", all[0].Query)
}

func TestGetNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

// --- List ---

func TestList(t *testing.T) {
	s := testStore(t)
	seed(t, s)
	ctx := context.Background()

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"newest first", ListOptions{}, []string{"r4", "r3", "r2", "r1"}},
		{"by API", ListOptions{API: types.APIWeather}, []string{"r3", "r1"}},
		{"contains is case-insensitive", ListOptions{Contains: "WEATHER in p"}, []string{"r3"}},
		{"contains escapes wildcards", ListOptions{Contains: "100%"}, []string{"r4"}},
		{"underscore is literal", ListOptions{Contains: "c_f"}, []string{"r4"}},
		{"percent is literal", ListOptions{Contains: "%"}, []string{"r4"}},
		{"since", ListOptions{Since: baseTime.Add(-90 * time.Minute)}, []string{"r4", "r3"}},
		{"limit", ListOptions{Limit: 2}, []string{"r4", "r3"}},
		{"combined", ListOptions{API: types.APIWeather, Since: baseTime.Add(-4 * time.Hour), Limit: 1}, []string{"r3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(ctx, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestListEmpty(t *testing.T) {
	s := testStore(t)
	got, err := s.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

// --- Prune ---

func TestPrune(t *testing.T) {
	s := testStore(t)
	seed(t, s)
	ctx := context.Background()

	n, err := s.Prune(ctx, 90*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"r4", "r3"}, ids(got))

	n, err = s.Prune(ctx, 90*time.Minute)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// --- Export ---

func TestExportYAML(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	var buf bytes.Buffer
	require.NoError(t, s.Export(context.Background(), ListOptions{API: types.APIWeather}, "yaml", &buf))

	var entries []ExportEntry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "r3", entries[0].ID)
	assert.Equal(t, "Weather", entries[0].APIUsed)
	assert.Equal(t, int64(150), entries[0].DurationMS)
	assert.Equal(t, "2026-03-14T11:00:00Z", entries[0].CreatedAt)
	assert.Equal(t, "v", entries[0].Parameters.String("k"))
}

func TestExportJSON(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	var buf bytes.Buffer
	require.NoError(t, s.Export(context.Background(), ListOptions{}, "json", &buf))

	var entries []ExportEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	assert.Len(t, entries, 4)
}

func TestExportExportsEverythingByDefault(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	for i := 0; i < defaultLimit+5; i++ {
		require.NoError(t, s.Record(ctx, types.RouteResult{Query: "q", CreatedAt: baseTime.Add(time.Duration(i) * time.Second)}))
	}

	var buf bytes.Buffer
	require.NoError(t, s.Export(ctx, ListOptions{}, "json", &buf))
	var entries []ExportEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	assert.Len(t, entries, defaultLimit+5)
}

func TestExportUnsupportedFormat(t *testing.T) {
	s := testStore(t)
	err := s.Export(context.Background(), ListOptions{}, "csv", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}
