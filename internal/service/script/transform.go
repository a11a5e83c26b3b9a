package script

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"idive/internal/config"
	"idive/internal/domain"
	models "idive/internal/domain/models/script"
	scriptSvc "idive/internal/domain/services/script"
)

// rewriteParams describes one AI write to a script
type rewriteParams struct {
	scriptID        string
	userID          string
	expectedVersion *int64
	mode            scriptSvc.GenerationMode
	instruction     string // Sent to the generator
	rawInstruction  string // As given by the caller, recorded in history
	preset          string
	language        *string
	source          models.HistorySource
}

// Transform rewrites the current content following an instruction or preset
func (s *scriptService) Transform(ctx context.Context, req *scriptSvc.TransformRequest) (*models.Script, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ScriptID, validation.Required, is.UUID),
		validation.Field(&req.Instruction, validation.Required, validation.RuneLength(1, config.MaxInstructionLength)),
		validation.Field(&req.ExpectedVersion, validation.Min(int64(1))),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	resolved, err := s.presets.Resolve(req.Instruction)
	if err != nil {
		return nil, fmt.Errorf("%w: instruction: %v", domain.ErrValidation, err)
	}

	return s.rewrite(ctx, &rewriteParams{
		scriptID:        req.ScriptID,
		userID:          req.UserID,
		expectedVersion: req.ExpectedVersion,
		mode:            scriptSvc.GenerationModeTransform,
		instruction:     resolved.Instruction,
		rawInstruction:  req.Instruction,
		preset:          resolved.Preset,
		language:        resolved.Language,
		source:          models.HistorySourceTransformed,
	})
}

// Generate writes a new script from a brief
func (s *scriptService) Generate(ctx context.Context, req *scriptSvc.GenerateRequest) (*models.Script, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ScriptID, validation.Required, is.UUID),
		validation.Field(&req.Brief, validation.Required, validation.RuneLength(1, config.MaxInstructionLength)),
		validation.Field(&req.ExpectedVersion, validation.Min(int64(1))),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	return s.rewrite(ctx, &rewriteParams{
		scriptID:        req.ScriptID,
		userID:          req.UserID,
		expectedVersion: req.ExpectedVersion,
		mode:            scriptSvc.GenerationModeGenerate,
		instruction:     req.Brief,
		rawInstruction:  req.Brief,
		source:          models.HistorySourceGenerated,
	})
}

// rewrite runs the generator and commits its output as the next version.
// The generator is called before any write to the live row; when it fails
// or its output is rejected the script is left untouched.
func (s *scriptService) rewrite(ctx context.Context, p *rewriteParams) (*models.Script, error) {
	current, err := s.loadScript(ctx, p.userID, p.scriptID)
	if err != nil {
		return nil, err
	}

	// Fast path before paying for a generation call
	if err := s.checkExpectedVersion(current, p.expectedVersion); err != nil {
		return nil, err
	}

	if _, err := s.appendHistory(ctx, &models.HistoryEntry{
		ScriptID: current.ID,
		Version:  current.Version,
		Content:  current.Content,
		Source:   models.HistorySourceManual,
		Metadata: map[string]interface{}{
			models.MetaPhase:       "pre",
			models.MetaInstruction: p.rawInstruction,
		},
		CreatedBy: p.userID,
	}); err != nil {
		return nil, err
	}

	language := current.Language
	if p.language != nil {
		language = *p.language
	}

	genReq := &scriptSvc.GenerationRequest{
		Mode:        p.mode,
		Content:     current.Content,
		Instruction: p.instruction,
		Language:    language,
	}
	if p.mode == scriptSvc.GenerationModeGenerate {
		genReq.PresenterName = s.presenterName(ctx, current.PresenterID)
	}

	start := time.Now()
	result, err := s.generator.Generate(ctx, genReq)
	if err != nil {
		s.logger.Error("generation failed",
			"script_id", current.ID,
			"mode", p.mode,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil, &domain.GenerationFailedError{Reason: "text generator error", Err: err}
	}

	content := normalizeWhitespace(result.Content)
	length := utf8.RuneCountInString(content)

	switch {
	case length == 0:
		s.logger.Error("generation returned empty output", "script_id", current.ID, "mode", p.mode)
		return nil, &domain.GenerationFailedError{Reason: "empty output"}
	case length > config.MaxScriptContentLength:
		s.logger.Error("generation output too long", "script_id", current.ID, "length", length)
		return nil, &domain.GenerationFailedError{
			Reason: fmt.Sprintf("output of %d characters exceeds the %d limit", length, config.MaxScriptContentLength),
		}
	case length < config.MinGeneratedContentChars:
		s.logger.Warn("generated content too short",
			"script_id", current.ID,
			"length", length,
			"minimum", config.MinGeneratedContentChars,
		)
		return nil, &domain.ContentTooShortError{Length: length, Minimum: config.MinGeneratedContentChars}
	}

	base := current.Version
	updated, err := s.applyUpdate(ctx, &models.ContentUpdate{
		ScriptID:    current.ID,
		Content:     content,
		Language:    p.language,
		BaseVersion: &base,
		UpdatedBy:   p.userID,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	metadata := map[string]interface{}{
		models.MetaPhase:       "post",
		models.MetaInstruction: p.rawInstruction,
		models.MetaProvider:    result.Provider,
		models.MetaModel:       result.Model,
	}
	if p.preset != "" {
		metadata[models.MetaPreset] = p.preset
	}

	s.recordCommitted(ctx, &models.HistoryEntry{
		ScriptID:  updated.ID,
		Version:   updated.Version,
		Content:   updated.Content,
		Source:    p.source,
		Metadata:  metadata,
		CreatedBy: p.userID,
	})

	s.logger.Info("script rewritten",
		"id", updated.ID,
		"version", updated.Version,
		"source", p.source,
		"preset", p.preset,
		"provider", result.Provider,
		"model", result.Model,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return updated, nil
}

// presenterName is prompt context only; a lookup failure leaves it empty
func (s *scriptService) presenterName(ctx context.Context, presenterID string) string {
	presenter, err := s.presenters.GetByID(ctx, presenterID)
	if err != nil {
		s.logger.Debug("presenter lookup for prompt failed", "presenter_id", presenterID, "error", err)
		return ""
	}
	return presenter.Name
}
