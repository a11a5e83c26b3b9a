package llm

import (
	"fmt"
	"strings"
)

// Provider names understood by the factory
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderLorem     = "lorem"
)

// ModelInfo contains parsed provider and model information
type ModelInfo struct {
	Provider string // Provider name: "anthropic", "gemini", "lorem"
	Model    string // Model identifier for that provider
}

// ParseModel extracts provider information from a model string
//
// Supported formats:
//   - "claude-haiku-4-5" → {Provider: "anthropic", Model: "claude-haiku-4-5"}
//   - "gemini-1.5-flash" → {Provider: "gemini", Model: "gemini-1.5-flash"}
//   - "lorem-fast" → {Provider: "lorem", Model: "lorem-fast"}
//   - "gemini/gemini-1.5-pro" → {Provider: "gemini", Model: "gemini-1.5-pro"}
func ParseModel(modelStr string) (*ModelInfo, error) {
	if modelStr == "" {
		return nil, fmt.Errorf("model string cannot be empty")
	}

	if provider, model, ok := strings.Cut(modelStr, "/"); ok {
		if provider == "" {
			return nil, fmt.Errorf("provider cannot be empty in model string: %s", modelStr)
		}
		if model == "" {
			return nil, fmt.Errorf("model cannot be empty in model string: %s", modelStr)
		}
		return &ModelInfo{Provider: provider, Model: model}, nil
	}

	provider := inferProvider(modelStr)
	if provider == "" {
		return nil, fmt.Errorf("unable to infer provider from model: %s", modelStr)
	}

	return &ModelInfo{Provider: provider, Model: modelStr}, nil
}

// ResolveModel picks the provider for a configured model. An explicit
// provider wins over the one inferred from the model name.
func ResolveModel(provider, model string) (*ModelInfo, error) {
	if provider != "" && model != "" && !strings.Contains(model, "/") {
		return &ModelInfo{Provider: provider, Model: model}, nil
	}
	return ParseModel(model)
}

// inferProvider infers the provider from model name prefix
func inferProvider(model string) string {
	modelLower := strings.ToLower(model)

	switch {
	case strings.HasPrefix(modelLower, "claude-"):
		return ProviderAnthropic
	case strings.HasPrefix(modelLower, "gemini-"):
		return ProviderGemini
	case strings.HasPrefix(modelLower, "lorem-"):
		return ProviderLorem
	default:
		return ""
	}
}
