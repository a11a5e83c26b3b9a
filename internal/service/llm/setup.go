package llm

import (
	"fmt"
	"log/slog"

	"idive/internal/config"
)

// SetupGenerator builds the provider registry and the script generator for
// the configured transform model. The registry must be closed on shutdown.
func SetupGenerator(cfg *config.Config, logger *slog.Logger) (*ScriptGenerator, *ProviderRegistry, error) {
	registry := NewProviderRegistry(NewProviderFactory(cfg))
	if err := registry.Validate(); err != nil {
		return nil, nil, fmt.Errorf("provider registry validation failed: %w", err)
	}

	model, err := ResolveModel(cfg.TransformProvider, cfg.TransformModel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid transform model: %w", err)
	}

	switch model.Provider {
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			logger.Warn("ANTHROPIC_API_KEY not set - transforms will fail", "model", model.Model)
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			logger.Warn("GEMINI_API_KEY not set - transforms will fail", "model", model.Model)
		}
	}

	logger.Info("script generator configured",
		"provider", model.Provider,
		"model", model.Model,
		"timeout", cfg.GenerationTimeout.String(),
	)

	return NewScriptGenerator(registry, model, cfg.GenerationTimeout, logger), registry, nil
}
