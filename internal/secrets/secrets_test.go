// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// secretsDir writes files (name -> content) into a fresh directory.
func secretsDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  Set
	}{
		{
			name: "all router keys, whitespace trimmed",
			files: map[string]string{
				GoogleAPIKey:    "  AIza_abc123  \n",
				GoogleCXID:      "cx-0042",
				AlphaVantageKey: "AV123\n",
				AnthropicAPIKey: "sk-ant\n",
				OpenAIAPIKey:    "sk-oa",
			},
			want: Set{
				GoogleAPIKey:    "AIza_abc123",
				GoogleCXID:      "cx-0042",
				AlphaVantageKey: "AV123",
				AnthropicAPIKey: "sk-ant",
				OpenAIAPIKey:    "sk-oa",
			},
		},
		{
			name:  "blank files ignored",
			files: map[string]string{AlphaVantageKey: "", GoogleCXID: " \n\t", OpenAIAPIKey: "sk"},
			want:  Set{OpenAIAPIKey: "sk"},
		},
		{
			name:  "dotfiles ignored",
			files: map[string]string{".gitkeep": "", ".google-api-key": "old", GoogleAPIKey: "new"},
			want:  Set{GoogleAPIKey: "new"},
		},
		{
			name:  "unknown names still loaded",
			files: map[string]string{"custom-token": "t"},
			want:  Set{"custom-token": "t"},
		},
		{
			name: "empty directory",
			want: Set{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(secretsDir(t, tt.files))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadMissingDir(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadSkipsSubdirectories(t *testing.T) {
	dir := secretsDir(t, map[string]string{AnthropicAPIKey: "ak"})
	require.NoError(t, os.Mkdir(filepath.Join(dir, OpenAIAPIKey), 0o755))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Set{AnthropicAPIKey: "ak"}, got)
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := secretsDir(t, map[string]string{GoogleAPIKey: "ok"})
	bad := filepath.Join(dir, AlphaVantageKey)
	require.NoError(t, os.WriteFile(bad, []byte("secret"), 0o000))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Set{GoogleAPIKey: "ok"}, got)
}

func TestSetResolve(t *testing.T) {
	s := Set{GoogleAPIKey: "from-file"}

	assert.Equal(t, "from-config", s.Resolve("from-config", GoogleAPIKey))
	assert.Equal(t, "from-file", s.Resolve("", GoogleAPIKey))
	assert.Equal(t, "", s.Resolve("", AlphaVantageKey))
	assert.Equal(t, "", Set(nil).Resolve("", GoogleAPIKey))
}

func TestSetNames(t *testing.T) {
	s := Set{OpenAIAPIKey: "b", AlphaVantageKey: "a", GoogleCXID: "c"}
	assert.Equal(t, []string{AlphaVantageKey, GoogleCXID, OpenAIAPIKey}, s.Names())
	assert.Empty(t, Set{}.Names())
}
