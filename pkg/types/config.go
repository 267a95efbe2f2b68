// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by every network-backed API.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "api-router/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the Google Search API.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the Google API key for Custom Search.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// EngineID is the Custom Search Engine ID (cx).
	EngineID string `json:"engine_id,omitempty" yaml:"engine_id,omitempty"`

	// NumResults is the default number of results (default 10, max 10).
	NumResults int `json:"num_results" yaml:"num_results"`

	// FetchContent controls whether each result page is downloaded.
	FetchContent bool `json:"fetch_content" yaml:"fetch_content"`

	// ContentLength is the number of characters of page text kept before
	// truncating with "..." (default 400).
	ContentLength int `json:"content_length" yaml:"content_length"`

	// FetchTimeout bounds each page download (default 5s).
	FetchTimeout time.Duration `json:"fetch_timeout" yaml:"fetch_timeout"`

	// FetchConcurrency bounds parallel page downloads (default 4).
	FetchConcurrency int `json:"fetch_concurrency" yaml:"fetch_concurrency"`
}

// StockConfig holds settings for the Alpha Vantage API.
type StockConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the Alpha Vantage API key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries bounds retries on HTTP 429 (0 uses the shared default).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// WeatherConfig holds settings for the Open-Meteo APIs.
type WeatherConfig struct {
	HTTPConfig `yaml:",inline"`

	// DefaultHour is the forecast hour used when a query names none ("12").
	DefaultHour string `json:"default_hour" yaml:"default_hour"`
}

// SentimentConfig holds the thresholds that label a polarity score.
type SentimentConfig struct {
	// PositiveThreshold: polarity strictly above is positive (default 0.1).
	PositiveThreshold float64 `json:"positive_threshold" yaml:"positive_threshold"`

	// NegativeThreshold: polarity strictly below is negative (default -0.1).
	NegativeThreshold float64 `json:"negative_threshold" yaml:"negative_threshold"`

	// Lexicon is an optional path to a replacement lexicon YAML file.
	Lexicon string `json:"lexicon,omitempty" yaml:"lexicon,omitempty"`
}

// AIProvider selects the model behind the query classifier.
type AIProvider string

const (
	ProviderAuto    AIProvider = "auto"
	ProviderClaude  AIProvider = "claude"
	ProviderOpenAI  AIProvider = "openai"
	ProviderKeyword AIProvider = "keyword"
)

// AIConfig holds settings for the language model that classifies queries.
type AIConfig struct {
	// Provider is claude, openai, keyword, or auto (first available key).
	Provider AIProvider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed model calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// HistoryConfig holds settings for the routed-query history store.
type HistoryConfig struct {
	// Dir holds history.db.
	Dir string `json:"dir" yaml:"dir"`

	// Enabled controls whether routed queries are recorded.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// RouterConfig groups all component configurations.
type RouterConfig struct {
	Search    SearchConfig    `json:"search" yaml:"search"`
	Stock     StockConfig     `json:"stock" yaml:"stock"`
	Weather   WeatherConfig   `json:"weather" yaml:"weather"`
	Sentiment SentimentConfig `json:"sentiment" yaml:"sentiment"`
	AI        AIConfig        `json:"ai" yaml:"ai"`
	History   HistoryConfig   `json:"history" yaml:"history"`
}
