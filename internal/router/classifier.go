// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/api-router/pkg/types"
)

// DefaultMaxRetries is the number of retries for a failed model call.
const DefaultMaxRetries = 3

// ErrNoJSON is returned when a model reply holds no JSON object.
var ErrNoJSON = errors.New("no JSON object in model reply")

// Decision is a classifier's choice of API and the parameters it read from
// the query.
type Decision struct {
	API    types.APIName `json:"api_name"`
	Params types.Params  `json:"parameters"`
}

// Classifier chooses an API for a query and extracts call parameters.
type Classifier interface {
	Classify(ctx context.Context, query string) (Decision, error)
	ExtractParams(ctx context.Context, query string, api types.APIName) (types.Params, error)
}

// LLMClassifier asks a chat model to route queries. Replies must be JSON;
// surrounding prose and markdown fences are ignored.
type LLMClassifier struct {
	Model      Model
	MaxRetries int

	now func() time.Time
}

// NewLLMClassifier returns a classifier over m. maxRetries <= 0 uses
// DefaultMaxRetries.
func NewLLMClassifier(m Model, maxRetries int) *LLMClassifier {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &LLMClassifier{Model: m, MaxRetries: maxRetries, now: time.Now}
}

// Classify asks the model which API answers query.
func (c *LLMClassifier) Classify(ctx context.Context, query string) (Decision, error) {
	system, err := renderRoutingPrompt(c.clock())
	if err != nil {
		return Decision{}, fmt.Errorf("rendering prompt: %w", err)
	}
	return withRetry(ctx, c.MaxRetries, func() (Decision, error) {
		reply, err := c.Model.Complete(ctx, system, query)
		if err != nil {
			return Decision{}, err
		}
		return parseDecision(reply)
	})
}

// ExtractParams asks the model for the parameters of api only.
func (c *LLMClassifier) ExtractParams(ctx context.Context, query string, api types.APIName) (types.Params, error) {
	if _, ok := requiredParams[api]; !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownAPI, api)
	}
	system, err := renderParamsPrompt(api, c.clock())
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}
	return withRetry(ctx, c.MaxRetries, func() (types.Params, error) {
		reply, err := c.Model.Complete(ctx, system, query)
		if err != nil {
			return nil, err
		}
		return parseParams(reply)
	})
}

func (c *LLMClassifier) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// withRetry calls fn up to maxRetries+1 times with exponential backoff.
func withRetry[T any](ctx context.Context, maxRetries int, fn func() (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			zap.S().Debugw("retrying model call", "attempt", attempt, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
		}

		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	return zero, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// parseDecision decodes a routing reply and validates the API name.
func parseDecision(reply string) (Decision, error) {
	var raw struct {
		APIName    string       `json:"api_name"`
		Parameters types.Params `json:"parameters"`
	}
	if err := decodeObject(reply, &raw); err != nil {
		return Decision{}, err
	}
	api, err := types.ParseAPIName(raw.APIName)
	if err != nil {
		return Decision{}, err
	}
	if raw.Parameters == nil {
		raw.Parameters = types.Params{}
	}
	return Decision{API: api, Params: raw.Parameters}, nil
}

// parseParams decodes a parameter reply. A reply shaped like a routing
// decision is accepted and its "parameters" object used.
func parseParams(reply string) (types.Params, error) {
	var p types.Params
	if err := decodeObject(reply, &p); err != nil {
		return nil, err
	}
	if inner, ok := p["parameters"].(map[string]any); ok {
		return types.Params(inner), nil
	}
	return p, nil
}

// decodeObject decodes the outermost {...} span of reply into out. Numbers
// are kept as json.Number so integers survive intact.
func decodeObject(reply string, out any) error {
	obj, ok := extractObject(reply)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoJSON, abbreviate(reply, 80))
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(obj)))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parsing model reply JSON: %w", err)
	}
	return nil
}

// extractObject returns the text from the first '{' to the last '}'.
func extractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

func abbreviate(s string, n int) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > n {
		return string(r[:n]) + "..."
	}
	return s
}
