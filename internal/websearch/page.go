// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/api-router/internal/httputil"
	"github.com/pdiddy/api-router/pkg/types"
)

// maxPageBytes bounds how much of a page body is read.
const maxPageBytes = 2 << 20

// FetchError describes why a result page produced no text. Its message is
// what ends up in WebResult.WebpageError.
type FetchError struct {
	// StatusCode is the HTTP status, or 0 when no response arrived.
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("Error Status: %d", e.StatusCode)
	}
	return fmt.Sprintf("Error: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PageFetcher downloads result pages and reduces them to visible text.
type PageFetcher struct {
	Client      *http.Client
	UserAgent   string
	MaxLength   int
	Concurrency int
}

// FetchAll fills WebpageContent or WebpageError on every result. Pages are
// fetched concurrently; a failed page never aborts the others.
func (f *PageFetcher) FetchAll(ctx context.Context, results []types.WebResult) {
	var g errgroup.Group
	g.SetLimit(max(f.Concurrency, 1))

	for i := range results {
		i := i
		g.Go(func() error {
			text, err := f.Fetch(ctx, results[i].Link)
			if err != nil {
				zap.S().Debugw("page fetch failed", "link", results[i].Link, "error", err)
				results[i].WebpageError = err.Error()
				return nil
			}
			results[i].WebpageContent = text
			return nil
		})
	}
	_ = g.Wait()
}

// Fetch downloads link and returns its visible text, truncated to
// MaxLength characters plus "...". Failures are returned as *FetchError.
func (f *PageFetcher) Fetch(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", &FetchError{Err: err}
	}
	httputil.SetUserAgent(req, f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageBytes))
		return "", &FetchError{StatusCode: resp.StatusCode}
	}

	text, err := VisibleText(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", &FetchError{Err: err}
	}
	return Truncate(text, f.MaxLength), nil
}

// skippedElements hold no human-visible text.
var skippedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
}

// VisibleText returns the text nodes of an HTML document with whitespace
// collapsed and nodes joined by single spaces.
func VisibleText(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	var (
		words []string
		skip  int
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			return strings.Join(words, " "), nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if skippedElements[atom.Lookup(name)] {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if skippedElements[atom.Lookup(name)] && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				words = append(words, strings.Fields(string(z.Text()))...)
			}
		}
	}
}

// Truncate keeps the first maxLen characters of s and appends "..." when
// anything was cut. maxLen <= 0 uses the default of 400.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = defaultContentLength
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
