// Package llm turns scraped job posting text into clean Markdown and a
// structured extract, via a configurable model provider.
package llm

import "context"

// Provider is a minimal completion backend. Each supported vendor gets one
// implementation under providers/.
type Provider interface {
	// Complete sends a single-user-turn prompt and returns the model's text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the provider identifier for logging.
	Name() string
}
