// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch runs Google Custom Search queries and attaches a short
// excerpt of each result page.
package websearch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/pdiddy/api-router/pkg/types"
)

// customSearchEndpoint overrides the Custom Search base URL when set.
// Tests point it at an httptest server.
var customSearchEndpoint = ""

const (
	defaultNumResults       = 10
	maxNumResults           = 10
	defaultContentLength    = 400
	defaultFetchTimeout     = 5 * time.Second
	defaultFetchConcurrency = 4
)

// GoogleBackend queries the Google Custom Search JSON API.
type GoogleBackend struct {
	// Client, when set, carries all Custom Search traffic. It replaces the
	// API-key transport, so it is meant for tests and proxies that inject
	// credentials themselves.
	Client *http.Client

	// PageClient fetches result pages. Nil uses a client with
	// Config.FetchTimeout.
	PageClient *http.Client

	Config types.SearchConfig
}

// NewGoogleBackend returns a backend with defaults applied to cfg.
func NewGoogleBackend(cfg types.SearchConfig) *GoogleBackend {
	if cfg.NumResults <= 0 {
		cfg.NumResults = defaultNumResults
	}
	if cfg.ContentLength <= 0 {
		cfg.ContentLength = defaultContentLength
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = defaultFetchConcurrency
	}
	return &GoogleBackend{Config: cfg}
}

// Search returns up to numResults hits for term in the order Google ranks
// them. numResults <= 0 uses the configured default; values above 10 are
// clamped because the API returns at most 10 items per call. When
// Config.FetchContent is set each result carries page text or a fetch error.
func (b *GoogleBackend) Search(ctx context.Context, term string, numResults int) ([]types.WebResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("empty search term")
	}
	if b.Config.EngineID == "" {
		return nil, fmt.Errorf("Google Custom Search engine ID is not configured")
	}
	if b.Config.APIKey == "" && b.Client == nil {
		return nil, fmt.Errorf("Google API key is not configured")
	}

	if numResults <= 0 {
		numResults = b.Config.NumResults
	}
	if numResults <= 0 {
		numResults = defaultNumResults
	}
	numResults = min(numResults, maxNumResults)

	svc, err := b.service(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating Custom Search client: %w", err)
	}

	res, err := svc.Cse.List().
		Q(term).
		Cx(b.Config.EngineID).
		Num(int64(numResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("Custom Search request: %w", err)
	}

	results := make([]types.WebResult, 0, len(res.Items))
	for _, item := range res.Items {
		if item == nil {
			continue
		}
		results = append(results, types.WebResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}

	if b.Config.FetchContent && len(results) > 0 {
		f := &PageFetcher{
			Client:      b.pageClient(),
			UserAgent:   b.Config.UserAgent,
			MaxLength:   b.Config.ContentLength,
			Concurrency: b.Config.FetchConcurrency,
		}
		f.FetchAll(ctx, results)
	}
	return results, nil
}

func (b *GoogleBackend) service(ctx context.Context) (*customsearch.Service, error) {
	var opts []option.ClientOption
	if b.Client != nil {
		opts = append(opts, option.WithHTTPClient(b.Client))
	} else {
		opts = append(opts, option.WithAPIKey(b.Config.APIKey))
	}
	if customSearchEndpoint != "" {
		opts = append(opts, option.WithEndpoint(customSearchEndpoint))
	}
	if b.Config.UserAgent != "" {
		opts = append(opts, option.WithUserAgent(b.Config.UserAgent))
	}
	return customsearch.NewService(ctx, opts...)
}

func (b *GoogleBackend) pageClient() *http.Client {
	if b.PageClient != nil {
		return b.PageClient
	}
	timeout := b.Config.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &http.Client{Timeout: timeout}
}
