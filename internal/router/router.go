// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package router turns natural-language queries into calls against one of
// the routable APIs. A Classifier picks the API and reads its parameters;
// the matching Tool makes the call.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/api-router/pkg/types"
)

// ErrEmptyQuery is reported for blank queries.
var ErrEmptyQuery = errors.New("query is empty")

// Recorder persists routed queries.
type Recorder interface {
	Record(ctx context.Context, r types.RouteResult) error
}

// Router dispatches queries to tools.
type Router struct {
	Classifier Classifier

	// Recorder, when set, receives every routed result.
	Recorder Recorder

	tools map[types.APIName]Tool
	now   func() time.Time
}

// New returns a Router that classifies with c and dispatches to tools.
func New(c Classifier, tools ...Tool) *Router {
	r := &Router{
		Classifier: c,
		tools:      make(map[types.APIName]Tool, len(tools)),
		now:        time.Now,
	}
	for _, t := range tools {
		r.tools[t.Name()] = t
	}
	return r
}

// Call invokes the tool for api directly, skipping classification.
func (r *Router) Call(ctx context.Context, api types.APIName, params types.Params) (any, error) {
	t, ok := r.tools[api]
	if !ok {
		return nil, fmt.Errorf("%w: no tool registered for %q", types.ErrUnknownAPI, api)
	}
	return t.Call(ctx, params)
}

// ParseQueryParams extracts the parameters of api from query.
func (r *Router) ParseQueryParams(ctx context.Context, query string, api types.APIName) (types.Params, error) {
	if _, ok := requiredParams[api]; !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownAPI, api)
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	p, err := r.Classifier.ExtractParams(ctx, query, api)
	if err != nil {
		return nil, fmt.Errorf("parsing %s parameters: %w", api, err)
	}
	return p, nil
}

// Route classifies query, fills in missing parameters and calls the chosen
// API. It always returns a result; failures are described in its Error
// field.
func (r *Router) Route(ctx context.Context, query string) (res types.RouteResult) {
	start := r.now()
	res = types.RouteResult{
		ID:        uuid.NewString(),
		Query:     query,
		CreatedAt: start,
	}
	log := zap.S().With("route_id", res.ID)

	defer func() {
		if p := recover(); p != nil {
			log.Errorw("route panicked", "panic", p)
			res.Error = fmt.Sprintf("internal error: %v", p)
		}
		res.Duration = r.now().Sub(start)
		r.record(context.WithoutCancel(ctx), res)
	}()

	if strings.TrimSpace(query) == "" {
		res.Error = ErrEmptyQuery.Error()
		return res
	}

	decision, err := r.Classifier.Classify(ctx, query)
	if err != nil {
		log.Warnw("classification failed", "error", err)
		res.Error = fmt.Sprintf("classifying query: %v", err)
		return res
	}
	res.APIUsed = decision.API
	log.Debugw("classified query", "api", decision.API, "params", decision.Params)

	params := decision.Params
	if missing := missingParams(decision.API, params); len(missing) > 0 {
		log.Debugw("extracting missing parameters", "missing", missing)
		extra, err := r.ParseQueryParams(ctx, query, decision.API)
		if err != nil {
			log.Warnw("parameter extraction failed", "error", err)
		} else {
			params = params.Merge(extra)
		}
	}
	res.Parameters = params

	results, err := r.Call(ctx, decision.API, params)
	if err != nil {
		log.Warnw("API call failed", "api", decision.API, "error", err)
		res.Error = err.Error()
		return res
	}
	res.Results = results
	return res
}

func (r *Router) record(ctx context.Context, res types.RouteResult) {
	if r.Recorder == nil {
		return
	}
	if err := r.Recorder.Record(ctx, res); err != nil {
		zap.S().Warnw("recording route failed", "route_id", res.ID, "error", err)
	}
}
