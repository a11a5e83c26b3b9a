package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"idive/internal/config"
	"idive/internal/domain"
	models "idive/internal/domain/models/script"
	scriptRepo "idive/internal/domain/repositories/script"
	"idive/internal/domain/services"
	scriptSvc "idive/internal/domain/services/script"
	"idive/internal/presets"
)

// scriptService implements the ScriptService interface.
//
// Every write to the live script is a single conditional update keyed on the
// version the caller based its change on; history is appended after the
// update succeeds, at the version the update produced.
type scriptService struct {
	scripts         scriptRepo.ScriptRepository
	history         scriptRepo.HistoryRepository
	presenters      scriptRepo.PresenterRepository
	authorizer      services.ResourceAuthorizer
	generator       scriptSvc.TextGenerator
	presets         *presets.Registry
	defaultLanguage string
	logger          *slog.Logger
}

// NewService creates a new script service
func NewService(
	scripts scriptRepo.ScriptRepository,
	history scriptRepo.HistoryRepository,
	presenters scriptRepo.PresenterRepository,
	authorizer services.ResourceAuthorizer,
	generator scriptSvc.TextGenerator,
	presetRegistry *presets.Registry,
	defaultLanguage string,
	logger *slog.Logger,
) scriptSvc.ScriptService {
	if defaultLanguage == "" {
		defaultLanguage = "en"
	}
	return &scriptService{
		scripts:         scripts,
		history:         history,
		presenters:      presenters,
		authorizer:      authorizer,
		generator:       generator,
		presets:         presetRegistry,
		defaultLanguage: defaultLanguage,
		logger:          logger,
	}
}

// EnsureScript loads the presenter's script, provisioning it on first access.
// Concurrent first calls race on the unique presenter index; the loser reads
// the winner's row.
func (s *scriptService) EnsureScript(ctx context.Context, userID, presenterID string) (*models.Script, error) {
	if err := validation.Validate(presenterID, validation.Required, is.UUID); err != nil {
		return nil, fmt.Errorf("%w: presenter_id: %v", domain.ErrValidation, err)
	}
	if err := s.authorizer.CanAccessPresenter(ctx, userID, presenterID); err != nil {
		return nil, storageError("authorize presenter", err)
	}

	script, err := s.scripts.GetByPresenterID(ctx, presenterID)
	if err == nil {
		if script.Version == models.InitialVersion {
			// Heals a bootstrap entry lost to an earlier failed insert
			if _, err := s.appendBootstrap(ctx, script, userID); err != nil {
				return nil, err
			}
		}
		return script, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, storageError("get script by presenter", err)
	}

	now := time.Now().UTC()
	script = &models.Script{
		PresenterID: presenterID,
		Content:     "",
		Language:    s.defaultLanguage,
		Version:     models.InitialVersion,
		CreatedAt:   now,
		UpdatedAt:   now,
		UpdatedBy:   userID,
	}

	if err := s.scripts.Create(ctx, script); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return nil, storageError("create script", err)
		}

		s.logger.Debug("script created concurrently, loading winner", "presenter_id", presenterID)
		script, err = s.scripts.GetByPresenterID(ctx, presenterID)
		if err != nil {
			return nil, storageError("reload script", err)
		}
		if script.Version != models.InitialVersion {
			return script, nil
		}
	} else {
		s.logger.Info("script created",
			"id", script.ID,
			"presenter_id", presenterID,
		)
	}

	if _, err := s.appendBootstrap(ctx, script, userID); err != nil {
		return nil, err
	}
	return script, nil
}

func (s *scriptService) appendBootstrap(ctx context.Context, script *models.Script, userID string) (*models.HistoryEntry, error) {
	return s.appendHistory(ctx, &models.HistoryEntry{
		ScriptID:  script.ID,
		Version:   models.InitialVersion,
		Content:   "",
		Source:    models.HistorySourceBootstrap,
		Metadata:  map[string]interface{}{models.MetaReason: "bootstrap"},
		CreatedBy: userID,
	})
}

// GetScript retrieves the current script
func (s *scriptService) GetScript(ctx context.Context, userID, scriptID string) (*models.Script, error) {
	if err := validateScriptID(scriptID); err != nil {
		return nil, err
	}
	return s.loadScript(ctx, userID, scriptID)
}

// SaveScript writes client content as the next version
func (s *scriptService) SaveScript(ctx context.Context, req *scriptSvc.SaveScriptRequest) (*models.Script, error) {
	if err := s.validateSaveRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	current, err := s.loadScript(ctx, req.UserID, req.ScriptID)
	if err != nil {
		return nil, err
	}

	if !req.Force {
		if err := s.checkExpectedVersion(current, req.ExpectedVersion); err != nil {
			return nil, err
		}
	}

	update := &models.ContentUpdate{
		ScriptID:  current.ID,
		Content:   req.Content,
		Language:  req.Language,
		UpdatedBy: req.UserID,
		UpdatedAt: time.Now().UTC(),
	}
	if !req.Force {
		base := current.Version
		update.BaseVersion = &base
	}

	updated, err := s.applyUpdate(ctx, update)
	if err != nil {
		return nil, err
	}

	source := models.HistorySourceAutosave
	if req.Force || req.Source == string(models.HistorySourceManual) {
		source = models.HistorySourceManual
	}

	metadata := map[string]interface{}{}
	if req.Force {
		metadata[models.MetaReason] = "force"
	}

	s.recordCommitted(ctx, &models.HistoryEntry{
		ScriptID:  updated.ID,
		Version:   updated.Version,
		Content:   updated.Content,
		Source:    source,
		Metadata:  metadata,
		CreatedBy: req.UserID,
	})

	s.logger.Info("script saved",
		"id", updated.ID,
		"version", updated.Version,
		"source", source,
		"force", req.Force,
	)

	return updated, nil
}

// Snapshot records the current version as a manual history entry
func (s *scriptService) Snapshot(ctx context.Context, req *scriptSvc.SnapshotRequest) (*models.HistoryEntry, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ScriptID, validation.Required, is.UUID),
		validation.Field(&req.Label, validation.RuneLength(0, config.MaxSnapshotLabelLength)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	current, err := s.loadScript(ctx, req.UserID, req.ScriptID)
	if err != nil {
		return nil, err
	}

	metadata := map[string]interface{}{models.MetaReason: "snapshot"}
	if req.Label != "" {
		metadata[models.MetaLabel] = req.Label
	}

	entry, err := s.appendHistory(ctx, &models.HistoryEntry{
		ScriptID:  current.ID,
		Version:   current.Version,
		Content:   current.Content,
		Source:    models.HistorySourceManual,
		Metadata:  metadata,
		CreatedBy: req.UserID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("snapshot taken",
		"script_id", current.ID,
		"version", entry.Version,
		"entry_id", entry.ID,
	)

	return entry, nil
}

// loadScript authorizes the caller and reads the current row
func (s *scriptService) loadScript(ctx context.Context, userID, scriptID string) (*models.Script, error) {
	if err := s.authorizer.CanAccessScript(ctx, userID, scriptID); err != nil {
		return nil, storageError("authorize script", err)
	}

	script, err := s.scripts.GetByID(ctx, scriptID)
	if err != nil {
		return nil, storageError("get script", err)
	}
	return script, nil
}

// checkExpectedVersion rejects a write based on a version other than the
// current one. A nil expected version skips the check.
func (s *scriptService) checkExpectedVersion(current *models.Script, expected *int64) error {
	if expected == nil || *expected == current.Version {
		return nil
	}

	s.logger.Warn("version conflict",
		"id", current.ID,
		"expected_version", *expected,
		"server_version", current.Version,
	)

	return &domain.ScriptConflictError{
		ScriptID:        current.ID,
		ExpectedVersion: *expected,
		ServerVersion:   current.Version,
		ServerContent:   current.Content,
	}
}

// applyUpdate runs the conditional update. When the row moved on in the
// meantime it re-reads the script and reports the fresh server state.
func (s *scriptService) applyUpdate(ctx context.Context, update *models.ContentUpdate) (*models.Script, error) {
	updated, err := s.scripts.UpdateContent(ctx, update)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, domain.ErrVersionConflict) {
		return nil, storageError("update script", err)
	}

	fresh, getErr := s.scripts.GetByID(ctx, update.ScriptID)
	if getErr != nil {
		return nil, storageError("reload script after conflict", getErr)
	}

	s.logger.Warn("version conflict on write",
		"id", update.ScriptID,
		"base_version", *update.BaseVersion,
		"server_version", fresh.Version,
	)

	return nil, &domain.ScriptConflictError{
		ScriptID:        update.ScriptID,
		ExpectedVersion: *update.BaseVersion,
		ServerVersion:   fresh.Version,
		ServerContent:   fresh.Content,
	}
}

// appendHistory inserts an entry, returning the stored entry when one
// already exists at that version.
func (s *scriptService) appendHistory(ctx context.Context, entry *models.HistoryEntry) (*models.HistoryEntry, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	stored, created, err := s.history.Append(ctx, entry)
	if err != nil {
		s.logger.Error("history append failed",
			"script_id", entry.ScriptID,
			"version", entry.Version,
			"source", entry.Source,
			"error", err,
		)
		return nil, storageError("append history", err)
	}

	if !created {
		s.logger.Debug("history entry already present",
			"script_id", entry.ScriptID,
			"version", entry.Version,
			"existing_source", stored.Source,
			"skipped_source", entry.Source,
		)
	}
	return stored, nil
}

// recordCommitted appends the entry for a version the update already made
// live. A failure here is logged and swallowed: the caller's write succeeded,
// and reporting it as failed would make a retry conflict with itself. A later
// Snapshot, Transform or Restore records the missing version.
func (s *scriptService) recordCommitted(ctx context.Context, entry *models.HistoryEntry) {
	if _, err := s.appendHistory(ctx, entry); err != nil {
		s.logger.Warn("committed version has no history entry",
			"script_id", entry.ScriptID,
			"version", entry.Version,
			"source", entry.Source,
			"error", err,
		)
	}
}

func (s *scriptService) validateSaveRequest(req *scriptSvc.SaveScriptRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ScriptID, validation.Required, is.UUID),
		validation.Field(&req.Content, validation.RuneLength(0, config.MaxScriptContentLength)),
		validation.Field(&req.Language, validation.NilOrNotEmpty, validation.Match(presets.LanguagePattern)),
		validation.Field(&req.ExpectedVersion, validation.Min(int64(1))),
		validation.Field(&req.Source, validation.In(
			string(models.HistorySourceAutosave),
			string(models.HistorySourceManual),
		)),
	)
}

func validateScriptID(scriptID string) error {
	if err := validation.Validate(scriptID, validation.Required, is.UUID); err != nil {
		return fmt.Errorf("%w: script_id: %v", domain.ErrValidation, err)
	}
	return nil
}

// domainSentinels are errors that carry meaning for callers and pass
// through unchanged.
var domainSentinels = []error{
	domain.ErrNotFound,
	domain.ErrConflict,
	domain.ErrValidation,
	domain.ErrUnauthorized,
	domain.ErrForbidden,
	domain.ErrVersionConflict,
	domain.ErrGenerationFailed,
	domain.ErrContentTooShort,
	domain.ErrStorage,
}

// storageError passes domain errors through and turns anything else into an
// opaque ErrStorage failure.
func storageError(op string, err error) error {
	for _, sentinel := range domainSentinels {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
}
