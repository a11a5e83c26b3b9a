package llm

import (
	"fmt"
	"strings"

	scriptSvc "idive/internal/domain/services/script"
)

const scriptSystemPrompt = `You write spoken scripts for an AI video presenter.
The script is read aloud exactly as written, so return only the script text:
no title, no headings, no stage directions, no markdown, no surrounding quotes.
Keep paragraphs separated by a blank line.`

// buildPrompt returns the system and user prompt for a generation request.
func buildPrompt(req *scriptSvc.GenerationRequest) (string, string) {
	var sb strings.Builder

	switch req.Mode {
	case scriptSvc.GenerationModeGenerate:
		sb.WriteString("Write a new script")
		if req.PresenterName != "" {
			fmt.Fprintf(&sb, " for the presenter %q", req.PresenterName)
		}
		fmt.Fprintf(&sb, " in language %q.\n\nBrief:\n%s", req.Language, req.Instruction)
		if strings.TrimSpace(req.Content) != "" {
			fmt.Fprintf(&sb, "\n\nThe current script, for reference only:\n%s", req.Content)
		}

	default:
		fmt.Fprintf(&sb, "Rewrite the script below. Instruction: %s\n", req.Instruction)
		fmt.Fprintf(&sb, "Write the result in language %q.\n\nScript:\n%s", req.Language, req.Content)
	}

	return scriptSystemPrompt, sb.String()
}

// cleanOutput strips wrappers models add despite the prompt: code fences
// and a pair of quotes around the whole text.
func cleanOutput(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Drop an info string such as ```text
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[i+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	for _, q := range [][2]string{{`"`, `"`}, {"“", "”"}} {
		if len(text) >= len(q[0])+len(q[1]) && strings.HasPrefix(text, q[0]) && strings.HasSuffix(text, q[1]) {
			inner := text[len(q[0]) : len(text)-len(q[1])]
			if !strings.Contains(inner, q[0]) {
				text = strings.TrimSpace(inner)
			}
		}
	}

	return text
}
