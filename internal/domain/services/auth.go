package services

import "context"

// ResourceAuthorizer checks if a user can access resources.
// Ownership only: a user can reach a presenter they created and the script
// that belongs to it. Failures are reported as domain.ErrNotFound so a
// caller cannot tell someone else's resource from a missing one.
type ResourceAuthorizer interface {
	// CanAccessPresenter checks if user owns the presenter
	CanAccessPresenter(ctx context.Context, userID, presenterID string) error

	// CanAccessScript checks if user owns the script's presenter
	CanAccessScript(ctx context.Context, userID, scriptID string) error
}
