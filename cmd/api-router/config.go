// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/api-router/internal/history"
	"github.com/pdiddy/api-router/internal/router"
	"github.com/pdiddy/api-router/internal/secrets"
	"github.com/pdiddy/api-router/internal/sentiment"
	"github.com/pdiddy/api-router/internal/stock"
	"github.com/pdiddy/api-router/internal/weather"
	"github.com/pdiddy/api-router/internal/websearch"
	"github.com/pdiddy/api-router/pkg/types"
)

// setDefaults registers the default value of every config key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.user_agent", "api-router/"+version)

	v.SetDefault("search.num_results", 10)
	v.SetDefault("search.content_length", 400)
	v.SetDefault("search.fetch_content", true)
	v.SetDefault("search.fetch_timeout", 5*time.Second)
	v.SetDefault("search.fetch_concurrency", 4)

	v.SetDefault("stock.max_retries", 0)

	v.SetDefault("weather.default_hour", "12")

	v.SetDefault("sentiment.positive_threshold", sentiment.DefaultPositiveThreshold)
	v.SetDefault("sentiment.negative_threshold", sentiment.DefaultNegativeThreshold)
	v.SetDefault("sentiment.lexicon", "")

	v.SetDefault("ai.provider", string(types.ProviderAuto))
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.max_retries", router.DefaultMaxRetries)

	v.SetDefault("history.dir", history.DefaultDir)
	v.SetDefault("history.enabled", true)
}

// loadRouterConfig assembles the component configuration from v, falling
// back to s for API keys the config leaves empty.
func loadRouterConfig(v *viper.Viper, s secrets.Set) types.RouterConfig {
	httpCfg := types.HTTPConfig{
		Timeout:   v.GetDuration("http.timeout"),
		UserAgent: v.GetString("http.user_agent"),
	}

	cfg := types.RouterConfig{
		Search: types.SearchConfig{
			HTTPConfig:       httpCfg,
			APIKey:           s.Resolve(v.GetString("search.api_key"), secrets.GoogleAPIKey),
			EngineID:         s.Resolve(v.GetString("search.engine_id"), secrets.GoogleCXID),
			NumResults:       v.GetInt("search.num_results"),
			FetchContent:     v.GetBool("search.fetch_content"),
			ContentLength:    v.GetInt("search.content_length"),
			FetchTimeout:     v.GetDuration("search.fetch_timeout"),
			FetchConcurrency: v.GetInt("search.fetch_concurrency"),
		},
		Stock: types.StockConfig{
			HTTPConfig: httpCfg,
			APIKey:     s.Resolve(v.GetString("stock.api_key"), secrets.AlphaVantageKey),
			MaxRetries: v.GetInt("stock.max_retries"),
		},
		Weather: types.WeatherConfig{
			HTTPConfig:  httpCfg,
			DefaultHour: v.GetString("weather.default_hour"),
		},
		Sentiment: types.SentimentConfig{
			PositiveThreshold: v.GetFloat64("sentiment.positive_threshold"),
			NegativeThreshold: v.GetFloat64("sentiment.negative_threshold"),
			Lexicon:           v.GetString("sentiment.lexicon"),
		},
		AI: types.AIConfig{
			Provider:   types.AIProvider(v.GetString("ai.provider")),
			Model:      v.GetString("ai.model"),
			APIKey:     v.GetString("ai.api_key"),
			MaxRetries: v.GetInt("ai.max_retries"),
		},
		History: types.HistoryConfig{
			Dir:     v.GetString("history.dir"),
			Enabled: v.GetBool("history.enabled"),
		},
	}
	cfg.AI = resolveProvider(cfg.AI, s)
	return cfg
}

// resolveProvider settles "auto" on the first provider with a key and
// fills the key from secrets. With no key at all the keyword classifier
// is used.
func resolveProvider(ai types.AIConfig, s secrets.Set) types.AIConfig {
	switch ai.Provider {
	case types.ProviderClaude:
		ai.APIKey = s.Resolve(ai.APIKey, secrets.AnthropicAPIKey)
	case types.ProviderOpenAI:
		ai.APIKey = s.Resolve(ai.APIKey, secrets.OpenAIAPIKey)
	case types.ProviderKeyword:
	default:
		switch {
		case ai.APIKey != "" || s[secrets.AnthropicAPIKey] != "":
			ai.Provider = types.ProviderClaude
			ai.APIKey = s.Resolve(ai.APIKey, secrets.AnthropicAPIKey)
		case s[secrets.OpenAIAPIKey] != "":
			ai.Provider = types.ProviderOpenAI
			ai.APIKey = s[secrets.OpenAIAPIKey]
		default:
			ai.Provider = types.ProviderKeyword
		}
	}
	return ai
}

// newClassifier builds the classifier named by ai.Provider.
func newClassifier(ai types.AIConfig, client *http.Client) (router.Classifier, error) {
	switch ai.Provider {
	case types.ProviderClaude:
		if ai.APIKey == "" {
			return nil, fmt.Errorf("claude provider needs ai.api_key or .secrets/%s", secrets.AnthropicAPIKey)
		}
		return router.NewLLMClassifier(&router.ClaudeModel{APIKey: ai.APIKey, Model: ai.Model, Client: client}, ai.MaxRetries), nil
	case types.ProviderOpenAI:
		if ai.APIKey == "" {
			return nil, fmt.Errorf("openai provider needs ai.api_key or .secrets/%s", secrets.OpenAIAPIKey)
		}
		return router.NewLLMClassifier(&router.OpenAIModel{APIKey: ai.APIKey, Model: ai.Model, Client: client}, ai.MaxRetries), nil
	case types.ProviderKeyword:
		return router.NewKeywordClassifier(), nil
	default:
		return nil, fmt.Errorf("unknown ai.provider %q: use auto, claude, openai or keyword", ai.Provider)
	}
}

// newTools builds the four API tools.
func newTools(cfg types.RouterConfig) ([]router.Tool, error) {
	client := &http.Client{Timeout: cfg.Search.Timeout}

	analyzer, err := sentiment.NewAnalyzer(cfg.Sentiment)
	if err != nil {
		return nil, err
	}

	return []router.Tool{
		router.SearchTool{Searcher: websearch.NewGoogleBackend(cfg.Search)},
		router.StockTool{Lookup: stock.NewAlphaVantage(client, cfg.Stock)},
		router.SentimentTool{Analyzer: analyzer},
		router.WeatherTool{Forecaster: weather.NewOpenMeteo(client, cfg.Weather)},
	}, nil
}

// setupRouter builds a Router from the loaded configuration. The returned
// cleanup closes the history store when one was opened.
func setupRouter(cmd *cobra.Command) (*router.Router, func(), error) {
	cfg := loadRouterConfig(viper.GetViper(), loadedSecrets)

	tools, err := newTools(cfg)
	if err != nil {
		return nil, nil, err
	}
	classifier, err := newClassifier(cfg.AI, &http.Client{Timeout: 2 * cfg.Search.Timeout})
	if err != nil {
		return nil, nil, err
	}
	zap.S().Debugw("router configured", "provider", cfg.AI.Provider, "model", cfg.AI.Model)

	r := router.New(classifier, tools...)
	cleanup := func() {}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	if cfg.History.Enabled && !noHistory {
		store, err := history.Open(cfg.History)
		if err != nil {
			zap.S().Warnw("history disabled", "error", err)
		} else {
			r.Recorder = store
			cleanup = func() { closeLogged("history", store) }
		}
	}
	return r, cleanup, nil
}

// closeLogged closes c and logs a failure as a warning.
func closeLogged(what string, c io.Closer) {
	if err := c.Close(); err != nil {
		zap.S().Warnw("closing "+what+" failed", "error", err)
	}
}

// openHistory opens the configured history store.
func openHistory() (*history.Store, error) {
	cfg := loadRouterConfig(viper.GetViper(), loadedSecrets)
	return history.Open(cfg.History)
}
