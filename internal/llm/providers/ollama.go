package providers

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaProvider calls a local Ollama server. No API key involved.
type OllamaProvider struct {
	client      llms.Model
	temperature float64
}

// NewOllamaProvider creates an Ollama provider. serverURL defaults to the
// standard local port when empty.
func NewOllamaProvider(model, serverURL string, temperature float64) (*OllamaProvider, error) {
	opts := []ollama.Option{
		ollama.WithModel(model),
	}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	return &OllamaProvider{
		client:      client,
		temperature: temperature,
	}, nil
}

// Name implements llm.Provider.
func (op *OllamaProvider) Name() string {
	return "ollama"
}

// Complete implements llm.Provider.
func (op *OllamaProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := llms.GenerateFromSinglePrompt(ctx, op.client, prompt,
		llms.WithTemperature(op.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("ollama API call failed: %w", err)
	}
	return resp, nil
}
