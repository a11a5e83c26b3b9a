package script

import (
	"context"

	models "idive/internal/domain/models/script"
)

// HistoryRepository is append-only: there is no update or delete.
type HistoryRepository interface {
	// Append inserts an entry. When an entry already exists at the same
	// (script, version) nothing is written and the stored entry is returned
	// with created = false.
	Append(ctx context.Context, entry *models.HistoryEntry) (stored *models.HistoryEntry, created bool, err error)

	// GetByID returns an entry only if it belongs to scriptID.
	GetByID(ctx context.Context, scriptID, entryID string) (*models.HistoryEntry, error)

	// GetByVersion returns the entry at a version of a script
	GetByVersion(ctx context.Context, scriptID string, version int64) (*models.HistoryEntry, error)

	// List returns up to limit entries, newest version first
	List(ctx context.Context, scriptID string, limit int) ([]models.HistoryEntry, error)
}
