// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/api-router/pkg/types"
)

// ExportEntry is one routed query as written by Export.
type ExportEntry struct {
	ID         string       `json:"id" yaml:"id"`
	Query      string       `json:"query" yaml:"query"`
	APIUsed    string       `json:"api_used,omitempty" yaml:"api_used,omitempty"`
	Parameters types.Params `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Results    any          `json:"results,omitempty" yaml:"results,omitempty"`
	Error      string       `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMS int64        `json:"duration_ms" yaml:"duration_ms"`
	CreatedAt  string       `json:"created_at" yaml:"created_at"`
}

// Export writes the routes matching opts to w as "yaml" or "json". A zero
// opts.Limit exports everything.
func (s *Store) Export(ctx context.Context, opts ListOptions, format string, w io.Writer) error {
	if opts.Limit == 0 {
		opts.Limit = -1
	}
	routes, err := s.List(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(routes))
	for i, r := range routes {
		entries[i] = ExportEntry{
			ID:         r.ID,
			Query:      r.Query,
			APIUsed:    string(r.APIUsed),
			Parameters: r.Parameters,
			Results:    r.Results,
			Error:      r.Error,
			DurationMS: r.Duration.Milliseconds(),
			CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}
