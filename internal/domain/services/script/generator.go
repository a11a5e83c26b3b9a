package script

import "context"

// GenerationMode selects the kind of prompt a TextGenerator builds.
type GenerationMode string

const (
	GenerationModeTransform GenerationMode = "transform"
	GenerationModeGenerate  GenerationMode = "generate"
)

// TextGenerator produces replacement script text. Implementations bound the
// call with their own timeout and must not touch storage.
type TextGenerator interface {
	Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)
}

// GenerationRequest is the input to a TextGenerator
type GenerationRequest struct {
	Mode GenerationMode

	// Content is the current script (transform) or empty (generate)
	Content string

	// Instruction is the rewrite instruction (transform) or the brief (generate)
	Instruction string

	// Language is the language the output must be written in
	Language string

	PresenterName string
}

// GenerationResult is the raw generator output plus where it came from
type GenerationResult struct {
	Content  string
	Provider string
	Model    string
}
