package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"idive/internal/config"
	domainllm "idive/internal/domain/services/llm"
	scriptSvc "idive/internal/domain/services/script"
)

const generationMaxTokens = 4096

// ProviderSource resolves a provider by name. Implemented by ProviderRegistry.
type ProviderSource interface {
	GetProvider(ctx context.Context, provider string) (domainllm.LLMProvider, error)
}

// ScriptGenerator implements the script TextGenerator on top of an LLM provider.
type ScriptGenerator struct {
	providers ProviderSource
	model     *ModelInfo
	timeout   time.Duration
	logger    *slog.Logger
}

// NewScriptGenerator creates a generator for one configured model.
func NewScriptGenerator(providers ProviderSource, model *ModelInfo, timeout time.Duration, logger *slog.Logger) *ScriptGenerator {
	if timeout <= 0 {
		timeout = config.DefaultGenerationTimeout
	}
	return &ScriptGenerator{
		providers: providers,
		model:     model,
		timeout:   timeout,
		logger:    logger,
	}
}

// Generate calls the provider under the generation timeout and returns the
// cleaned text. Empty output is an error.
func (g *ScriptGenerator) Generate(ctx context.Context, req *scriptSvc.GenerationRequest) (*scriptSvc.GenerationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	provider, err := g.providers.GetProvider(ctx, g.model.Provider)
	if err != nil {
		return nil, err
	}

	system, prompt := buildPrompt(req)
	start := time.Now()

	resp, err := provider.GenerateResponse(ctx, &domainllm.GenerateRequest{
		System:    system,
		Messages:  []domainllm.Message{{Role: domainllm.RoleUser, Text: prompt}},
		Model:     g.model.Model,
		MaxTokens: generationMaxTokens,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s timed out after %s: %w", g.model.Provider, g.timeout, ctx.Err())
		}
		return nil, fmt.Errorf("%s: %w", g.model.Provider, err)
	}

	text := cleanOutput(resp.Text)
	if text == "" {
		return nil, fmt.Errorf("%s returned empty output (stop reason %q)", g.model.Provider, resp.StopReason)
	}

	model := resp.Model
	if model == "" {
		model = g.model.Model
	}

	g.logger.Debug("script generated",
		"mode", req.Mode,
		"provider", provider.Name(),
		"model", model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &scriptSvc.GenerationResult{
		Content:  text,
		Provider: provider.Name(),
		Model:    model,
	}, nil
}
