package llm

import (
	"fmt"
	"strings"

	"jobvault/internal/config"
	"jobvault/internal/llm/providers"
)

// NewProvider creates the completion backend named by the configuration.
// Supported providers: claude, openai, openrouter, ollama.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "claude", "anthropic":
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("claude provider requires an API key")
		}
		return providers.NewClaudeProvider(
			cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.MaxTokens, cfg.LLM.Temperature), nil

	case "openai":
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return providers.NewOpenAIProvider(
			"openai", cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL,
			cfg.LLM.MaxTokens, cfg.LLM.Temperature)

	case "openrouter":
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("openrouter provider requires an API key")
		}
		baseURL := cfg.LLM.BaseURL
		if baseURL == "" {
			baseURL = providers.OpenRouterBaseURL
		}
		return providers.NewOpenAIProvider(
			"openrouter", cfg.LLM.APIKey, cfg.LLM.Model, baseURL,
			cfg.LLM.MaxTokens, cfg.LLM.Temperature)

	case "ollama":
		return providers.NewOllamaProvider(
			cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.Temperature)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLM.Provider)
	}
}
