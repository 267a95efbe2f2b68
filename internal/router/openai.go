// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openAIBaseURL overrides the OpenAI endpoint when set. Tests point it at
// an httptest server.
var openAIBaseURL = ""

// DefaultOpenAIModel is used when no model is configured for the openai
// provider.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIModel calls the OpenAI Chat Completions API.
type OpenAIModel struct {
	APIKey string
	Model  string
	Client *http.Client
}

// Complete sends one exchange at temperature 0 and returns the first
// choice. Retries are left to the classifier.
func (m *OpenAIModel) Complete(ctx context.Context, system, user string) (string, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(m.APIKey),
		option.WithMaxRetries(0),
	}
	if openAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(openAIBaseURL))
	}
	if m.Client != nil {
		opts = append(opts, option.WithHTTPClient(m.Client))
	}
	client := openai.NewClient(opts...)

	model := m.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
