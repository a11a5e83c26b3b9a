package adapters

import (
	"context"

	llmprovider "github.com/haowjy/meridian-llm-go"
	"github.com/haowjy/meridian-llm-go/providers/anthropic"
	"github.com/haowjy/meridian-llm-go/providers/lorem"

	domainllm "idive/internal/domain/services/llm"
)

// LibraryAdapter wraps a meridian-llm-go provider (anthropic, lorem) and
// implements the backend's LLMProvider interface.
type LibraryAdapter struct {
	provider llmprovider.Provider
}

// NewLibraryAdapter creates an adapter from an existing library provider.
// Used by the provider factory for dynamic provider creation.
func NewLibraryAdapter(provider llmprovider.Provider) *LibraryAdapter {
	return &LibraryAdapter{
		provider: provider,
	}
}

// NewAnthropicAdapter creates an adapter backed by the library's Anthropic provider.
func NewAnthropicAdapter(apiKey string) (*LibraryAdapter, error) {
	provider, err := anthropic.NewProvider(apiKey)
	if err != nil {
		return nil, err
	}
	return NewLibraryAdapter(provider), nil
}

// NewLoremAdapter creates an adapter backed by the library's mock provider.
// No API key required.
func NewLoremAdapter() *LibraryAdapter {
	return NewLibraryAdapter(lorem.NewProvider())
}

// Name returns the provider name.
func (a *LibraryAdapter) Name() string {
	return a.provider.Name().String()
}

// SupportsModel returns true if this provider supports the given model.
func (a *LibraryAdapter) SupportsModel(model string) bool {
	return a.provider.SupportsModel(model)
}

// GenerateResponse runs a single completion. MaxTokens is left to the
// library's default for these providers.
func (a *LibraryAdapter) GenerateResponse(ctx context.Context, req *domainllm.GenerateRequest) (*domainllm.GenerateResponse, error) {
	libReq := ConvertToLibraryRequest(req)

	libResp, err := a.provider.GenerateResponse(ctx, libReq)
	if err != nil {
		return nil, err
	}

	return convertFromLibraryResponse(libResp), nil
}
