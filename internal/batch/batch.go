// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch routes a list of queries read from a YAML file and saves
// the results next to them, so a run can be inspected or repeated later
// without retyping the queries.
package batch

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/api-router/pkg/types"
)

// DefaultConcurrency is the number of queries routed at once when Run is
// given a non-positive limit.
const DefaultConcurrency = 4

// File is the on-disk form of a batch. Only Queries is read back; Results
// and Summary are written by Write.
type File struct {
	Queries []string `yaml:"queries"`
	Results []Entry  `yaml:"results,omitempty"`
	Summary *Summary `yaml:"summary,omitempty"`
}

// Entry is one routed query in a batch file.
type Entry struct {
	ID         string       `yaml:"id"`
	Query      string       `yaml:"query"`
	APIUsed    string       `yaml:"api_used,omitempty"`
	Parameters types.Params `yaml:"parameters,omitempty"`
	Results    any          `yaml:"results,omitempty"`
	Error      string       `yaml:"error,omitempty"`
	DurationMS int64        `yaml:"duration_ms"`
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Total     int            `yaml:"total"`
	Failed    int            `yaml:"failed"`
	ByAPI     map[string]int `yaml:"by_api,omitempty"`
	Timestamp time.Time      `yaml:"timestamp"`
}

// Router routes a single query.
type Router interface {
	Route(ctx context.Context, query string) types.RouteResult
}

// Read loads a batch file. Queries are trimmed and blank ones dropped.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing batch file: %w", err)
	}

	queries := f.Queries[:0]
	for _, q := range f.Queries {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("batch file %s has no queries", path)
	}
	f.Queries = queries
	return &f, nil
}

// Run routes every query through r with at most concurrency in flight.
// Results come back in query order. Queries not started before ctx is
// cancelled carry the context error.
func Run(ctx context.Context, r Router, queries []string, concurrency int) []types.RouteResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	results := make([]types.RouteResult, len(queries))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = types.RouteResult{Query: q, Error: err.Error()}
				return nil
			}
			results[i] = r.Route(ctx, q)
			return nil
		})
	}
	g.Wait()
	return results
}

// Summarize counts results by outcome and API.
func Summarize(results []types.RouteResult, now time.Time) Summary {
	s := Summary{Total: len(results), Timestamp: now}
	for _, r := range results {
		if !r.OK() {
			s.Failed++
		}
		if r.APIUsed != "" {
			if s.ByAPI == nil {
				s.ByAPI = make(map[string]int)
			}
			s.ByAPI[string(r.APIUsed)]++
		}
	}
	return s
}

// Write saves queries, results and their summary to path.
func Write(path string, results []types.RouteResult, now time.Time) error {
	f := File{
		Queries: make([]string, len(results)),
		Results: make([]Entry, len(results)),
	}
	for i, r := range results {
		f.Queries[i] = r.Query
		f.Results[i] = Entry{
			ID:         r.ID,
			Query:      r.Query,
			APIUsed:    string(r.APIUsed),
			Parameters: r.Parameters,
			Results:    r.Results,
			Error:      r.Error,
			DurationMS: r.Duration.Milliseconds(),
		}
	}
	sum := Summarize(results, now)
	f.Summary = &sum

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling batch file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// APIs returns the API names in s.ByAPI, sorted.
func (s Summary) APIs() []string {
	names := make([]string, 0, len(s.ByAPI))
	for name := range s.ByAPI {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
