package adapters

import (
	"strings"

	llmprovider "github.com/haowjy/meridian-llm-go"

	domainllm "idive/internal/domain/services/llm"
)

const blockTypeText = "text"

// ConvertToLibraryRequest converts a text request into the library's block format.
// The library request has no system slot, so the system prompt is prepended
// to the first user message.
func ConvertToLibraryRequest(req *domainllm.GenerateRequest) *llmprovider.GenerateRequest {
	messages := make([]llmprovider.Message, 0, len(req.Messages))
	systemPending := req.System != ""

	for _, msg := range req.Messages {
		text := msg.Text
		if systemPending && msg.Role == domainllm.RoleUser {
			text = req.System + "\n\n" + text
			systemPending = false
		}
		messages = append(messages, llmprovider.Message{
			Role:   msg.Role,
			Blocks: []*llmprovider.Block{textBlock(text)},
		})
	}

	if systemPending {
		messages = append([]llmprovider.Message{{
			Role:   domainllm.RoleUser,
			Blocks: []*llmprovider.Block{textBlock(req.System)},
		}}, messages...)
	}

	return &llmprovider.GenerateRequest{
		Messages: messages,
		Model:    req.Model,
	}
}

func textBlock(text string) *llmprovider.Block {
	return &llmprovider.Block{
		BlockType:   blockTypeText,
		Sequence:    0,
		TextContent: &text,
	}
}

// convertFromLibraryResponse joins the text blocks of a library response.
// Thinking and tool blocks are dropped.
func convertFromLibraryResponse(resp *llmprovider.GenerateResponse) *domainllm.GenerateResponse {
	var sb strings.Builder
	for _, block := range resp.Blocks {
		if block == nil || block.BlockType != blockTypeText || block.TextContent == nil {
			continue
		}
		sb.WriteString(*block.TextContent)
	}

	return &domainllm.GenerateResponse{
		Text:             sb.String(),
		Model:            resp.Model,
		InputTokens:      resp.InputTokens,
		OutputTokens:     resp.OutputTokens,
		StopReason:       resp.StopReason,
		ResponseMetadata: resp.ResponseMetadata,
	}
}
