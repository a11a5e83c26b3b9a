package script

import (
	"context"

	models "idive/internal/domain/models/script"
)

// ScriptRepository defines data access for the live script row.
type ScriptRepository interface {
	// Create inserts a new script and fills in ID and timestamps.
	// A second script for the same presenter returns *domain.ConflictError.
	Create(ctx context.Context, s *models.Script) error

	// GetByID retrieves a script by ID
	GetByID(ctx context.Context, id string) (*models.Script, error)

	// GetByPresenterID retrieves the script of a presenter
	GetByPresenterID(ctx context.Context, presenterID string) (*models.Script, error)

	// UpdateContent applies a versioned write as one atomic statement and
	// returns the row as stored afterwards.
	//
	// With BaseVersion set, a row whose version moved on is left untouched
	// and domain.ErrVersionConflict is returned. Without it the write always
	// applies (domain.ErrNotFound if the row is missing).
	UpdateContent(ctx context.Context, update *models.ContentUpdate) (*models.Script, error)
}
