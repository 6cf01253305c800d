package providers

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenRouterBaseURL is the OpenAI-compatible endpoint OpenRouter exposes.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenAIProvider calls any OpenAI-compatible chat completion endpoint.
// With the base URL pointed at OpenRouter it doubles as the openrouter
// provider.
type OpenAIProvider struct {
	client      llms.Model
	name        string
	maxTokens   int
	temperature float64
}

// NewOpenAIProvider creates a provider against api.openai.com, or against
// baseURL when one is given.
func NewOpenAIProvider(name, apiKey, model, baseURL string, maxTokens int, temperature float64) (*OpenAIProvider, error) {
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", name, err)
	}

	return &OpenAIProvider{
		client:      client,
		name:        name,
		maxTokens:   maxTokens,
		temperature: temperature,
	}, nil
}

// Name implements llm.Provider.
func (op *OpenAIProvider) Name() string {
	return op.name
}

// Complete implements llm.Provider.
func (op *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := llms.GenerateFromSinglePrompt(ctx, op.client, prompt,
		llms.WithMaxTokens(op.maxTokens),
		llms.WithTemperature(op.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("%s API call failed: %w", op.name, err)
	}
	return resp, nil
}
