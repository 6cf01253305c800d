// Package providers contains the completion backends the capture pipeline
// can run against.
package providers

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeProvider calls Anthropic's Messages API.
type ClaudeProvider struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature float64
}

// NewClaudeProvider creates a Claude provider.
func NewClaudeProvider(apiKey, model string, maxTokens int, temperature float64) *ClaudeProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &ClaudeProvider{
		client:      client,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Name implements llm.Provider.
func (cp *ClaudeProvider) Name() string {
	return "claude"
}

// Complete implements llm.Provider.
func (cp *ClaudeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(cp.model),
		MaxTokens:   int64(cp.maxTokens),
		Temperature: anthropic.Float(cp.temperature),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("claude API call failed: %w", err)
	}

	if len(response.Content) == 0 {
		return "", fmt.Errorf("empty response from Claude")
	}

	var responseText string
	for _, content := range response.Content {
		textContent := content.AsText()
		responseText = textContent.Text
		break
	}

	if responseText == "" {
		return "", fmt.Errorf("no text content in Claude response")
	}

	return responseText, nil
}
