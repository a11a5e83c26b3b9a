package script

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"idive/internal/config"
	"idive/internal/domain"
	models "idive/internal/domain/models/script"
)

// ListHistory returns entries newest first. Content longer than the preview
// size is cut and flagged; GetHistoryEntry returns it in full.
func (s *scriptService) ListHistory(ctx context.Context, userID, scriptID string, limit int) ([]models.HistoryEntry, error) {
	if err := validateScriptID(scriptID); err != nil {
		return nil, err
	}

	if err := s.authorizer.CanAccessScript(ctx, userID, scriptID); err != nil {
		return nil, storageError("authorize script", err)
	}

	entries, err := s.history.List(ctx, scriptID, clampHistoryLimit(limit))
	if err != nil {
		return nil, storageError("list history", err)
	}

	for i := range entries {
		entries[i].Content, entries[i].Truncated = preview(entries[i].Content, config.HistoryPreviewChars)
	}
	return entries, nil
}

// GetHistoryEntry returns one entry of the script with its full content
func (s *scriptService) GetHistoryEntry(ctx context.Context, userID, scriptID, entryID string) (*models.HistoryEntry, error) {
	if err := validateEntryRef(scriptID, entryID); err != nil {
		return nil, err
	}

	if err := s.authorizer.CanAccessScript(ctx, userID, scriptID); err != nil {
		return nil, storageError("authorize script", err)
	}

	entry, err := s.history.GetByID(ctx, scriptID, entryID)
	if err != nil {
		return nil, storageError("get history entry", err)
	}
	return entry, nil
}

// Restore makes a history entry's content the next version of the script.
//
// Before overwriting, the current state is recorded at its own (current)
// version. That insert claims no new version number and is a no-op when the
// version is already in history. Only the restore entry claims the new
// version.
func (s *scriptService) Restore(ctx context.Context, userID, scriptID, entryID string) (*models.Script, error) {
	if err := validateEntryRef(scriptID, entryID); err != nil {
		return nil, err
	}

	current, err := s.loadScript(ctx, userID, scriptID)
	if err != nil {
		return nil, err
	}

	target, err := s.history.GetByID(ctx, scriptID, entryID)
	if err != nil {
		return nil, storageError("get history entry", err)
	}

	if _, err := s.appendHistory(ctx, &models.HistoryEntry{
		ScriptID:  current.ID,
		Version:   current.Version,
		Content:   current.Content,
		Source:    models.HistorySourceManual,
		Metadata:  map[string]interface{}{models.MetaReason: "pre-restore"},
		CreatedBy: userID,
	}); err != nil {
		return nil, err
	}

	base := current.Version
	updated, err := s.applyUpdate(ctx, &models.ContentUpdate{
		ScriptID:    current.ID,
		Content:     target.Content,
		BaseVersion: &base,
		UpdatedBy:   userID,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.recordCommitted(ctx, &models.HistoryEntry{
		ScriptID: updated.ID,
		Version:  updated.Version,
		Content:  updated.Content,
		Source:   models.HistorySourceRestore,
		Metadata: map[string]interface{}{
			models.MetaFromEntryID: target.ID,
			models.MetaFromVersion: target.Version,
		},
		CreatedBy: userID,
	})

	s.logger.Info("script restored",
		"id", updated.ID,
		"version", updated.Version,
		"from_version", target.Version,
		"from_entry_id", target.ID,
	)

	return updated, nil
}

func clampHistoryLimit(limit int) int {
	if limit <= 0 {
		return config.DefaultHistoryLimit
	}
	if limit > config.MaxHistoryLimit {
		return config.MaxHistoryLimit
	}
	return limit
}

func validateEntryRef(scriptID, entryID string) error {
	err := validation.Errors{
		"script_id": validation.Validate(scriptID, validation.Required, is.UUID),
		"entry_id":  validation.Validate(entryID, validation.Required, is.UUID),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}
