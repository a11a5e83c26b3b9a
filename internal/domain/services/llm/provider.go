package llm

import "context"

// LLMProvider defines the interface that all LLM providers must implement.
// Scripts are plain text, so requests and responses carry text only.
type LLMProvider interface {
	// GenerateResponse runs one non-streaming completion.
	GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider name (e.g., "anthropic", "gemini")
	Name() string

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}

// Roles used in Message.Role
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// GenerateRequest contains the parameters for an LLM generation request.
type GenerateRequest struct {
	// System is the system prompt. Providers without a native system slot
	// prepend it to the first user message.
	System string

	// Messages in conversation order
	Messages []Message

	// Model is the model identifier (e.g., "claude-haiku-4-5-20251001")
	Model string

	// MaxTokens caps the response length; 0 leaves it to the provider
	MaxTokens int
}

// Message represents a single message in the conversation.
type Message struct {
	Role string
	Text string
}

// GenerateResponse contains the LLM provider's response.
type GenerateResponse struct {
	// Text is the concatenated text output
	Text string

	// Model is the model that was used (may differ from request if aliased)
	Model string

	InputTokens  int
	OutputTokens int

	// StopReason indicates why generation stopped (e.g., "end_turn", "max_tokens")
	StopReason string

	// ResponseMetadata contains provider-specific response data
	ResponseMetadata map[string]interface{}
}
