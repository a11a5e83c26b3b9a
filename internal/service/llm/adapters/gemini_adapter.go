package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	domainllm "idive/internal/domain/services/llm"
)

const geminiProviderName = "gemini"

// GeminiAdapter talks to Google Gemini through the genai client.
type GeminiAdapter struct {
	client *genai.Client
}

// NewGeminiAdapter creates a Gemini client for the given API key.
// Call Close when the adapter is no longer needed.
func NewGeminiAdapter(ctx context.Context, apiKey string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiAdapter{client: client}, nil
}

// Name returns the provider name.
func (a *GeminiAdapter) Name() string {
	return geminiProviderName
}

// SupportsModel returns true for gemini-* models.
func (a *GeminiAdapter) SupportsModel(model string) bool {
	return strings.HasPrefix(strings.ToLower(model), "gemini-")
}

// GenerateResponse sends the conversation as a single prompt; earlier turns
// are flattened with their role as prefix.
func (a *GeminiAdapter) GenerateResponse(ctx context.Context, req *domainllm.GenerateRequest) (*domainllm.GenerateResponse, error) {
	model := a.client.GenerativeModel(req.Model)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(flattenMessages(req.Messages)))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	out := &domainllm.GenerateResponse{
		Model:            req.Model,
		ResponseMetadata: map[string]interface{}{},
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		out.StopReason = fmt.Sprint(cand.FinishReason)
		// First candidate only
		break
	}
	out.Text = sb.String()

	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return out, nil
}

// Close releases the underlying client.
func (a *GeminiAdapter) Close() error {
	return a.client.Close()
}

func flattenMessages(messages []domainllm.Message) string {
	if len(messages) == 1 {
		return messages[0].Text
	}

	var sb strings.Builder
	for i, msg := range messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Text)
	}
	return sb.String()
}
