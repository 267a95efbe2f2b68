// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Key names recognized by the router.
const (
	GoogleAPIKey      = "google-api-key"
	GoogleCXID        = "google-cx-id"
	AlphaVantageKey   = "alpha-vantage-api-key"
	AnthropicAPIKey   = "anthropic-api-key"
	OpenAIAPIKey      = "openai-api-key"
	DefaultSecretsDir = ".secrets/"
)

// Set is a loaded collection of secrets.
type Set map[string]string

// Load reads all files in dir and returns a Set of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty Set.
// Unreadable files are logged and skipped.
func Load(dir string) (Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	set := make(Set)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			zap.S().Warnw("could not read secret", "name", name, "error", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			set[name] = value
		}
	}

	return set, nil
}

// Resolve returns explicit when it is non-empty, otherwise the secret stored
// under key.
func (s Set) Resolve(explicit, key string) string {
	if explicit != "" {
		return explicit
	}
	return s[key]
}

// Names returns the loaded key names in sorted order. Values are never
// exposed so the list is safe to log.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
