package auth

import (
	"context"
	"fmt"

	"idive/internal/domain"
	scriptRepo "idive/internal/domain/repositories/script"
)

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership checks.
// A user can access a script if they own the presenter it belongs to.
type OwnerBasedAuthorizer struct {
	presenterRepo scriptRepo.PresenterRepository
	scriptRepo    scriptRepo.ScriptRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(
	presenterRepo scriptRepo.PresenterRepository,
	scriptRepo scriptRepo.ScriptRepository,
) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{
		presenterRepo: presenterRepo,
		scriptRepo:    scriptRepo,
	}
}

// CanAccessPresenter checks if user owns the presenter
func (a *OwnerBasedAuthorizer) CanAccessPresenter(ctx context.Context, userID, presenterID string) error {
	presenter, err := a.presenterRepo.GetByID(ctx, presenterID)
	if err != nil {
		return fmt.Errorf("get presenter for auth: %w", err)
	}

	if userID == "" || presenter.UserID != userID {
		return fmt.Errorf("presenter %s: %w", presenterID, domain.ErrNotFound)
	}
	return nil
}

// CanAccessScript checks if user can access a script (via its presenter)
func (a *OwnerBasedAuthorizer) CanAccessScript(ctx context.Context, userID, scriptID string) error {
	script, err := a.scriptRepo.GetByID(ctx, scriptID)
	if err != nil {
		return fmt.Errorf("get script for auth: %w", err)
	}

	if err := a.CanAccessPresenter(ctx, userID, script.PresenterID); err != nil {
		return fmt.Errorf("script %s: %w", scriptID, domain.ErrNotFound)
	}
	return nil
}
