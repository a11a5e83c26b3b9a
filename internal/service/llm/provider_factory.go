package llm

import (
	"context"
	"fmt"

	"idive/internal/config"
	domainllm "idive/internal/domain/services/llm"
	"idive/internal/service/llm/adapters"
)

// ProviderFactory creates LLM provider adapters from config
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// GetProvider returns a provider instance for the given provider name
//
// Supported providers:
//   - "anthropic" - Claude models via meridian-llm-go
//   - "gemini" - Google Gemini models via genai
//   - "lorem" - Mock provider for testing (no API key required)
func (f *ProviderFactory) GetProvider(ctx context.Context, providerName string) (domainllm.LLMProvider, error) {
	switch providerName {
	case ProviderAnthropic:
		return f.createAnthropicProvider()
	case ProviderGemini:
		return f.createGeminiProvider(ctx)
	case ProviderLorem:
		return adapters.NewLoremAdapter(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

func (f *ProviderFactory) createAnthropicProvider() (domainllm.LLMProvider, error) {
	if f.config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	adapter, err := adapters.NewAnthropicAdapter(f.config.AnthropicAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}
	return adapter, nil
}

func (f *ProviderFactory) createGeminiProvider(ctx context.Context) (domainllm.LLMProvider, error) {
	if f.config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	adapter, err := adapters.NewGeminiAdapter(ctx, f.config.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
	}
	return adapter, nil
}
