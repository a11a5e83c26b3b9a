package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"idive/internal/domain"
	models "idive/internal/domain/models/script"
	scriptRepo "idive/internal/domain/repositories/script"
	"idive/internal/repository/postgres"
)

// GormHistoryRepository implements the HistoryRepository interface on gorm
type GormHistoryRepository struct {
	db     *gorm.DB
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewHistoryRepository creates a new script history repository
func NewHistoryRepository(config *RepositoryConfig) scriptRepo.HistoryRepository {
	return &GormHistoryRepository{
		db:     config.DB,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Append inserts an entry unless one already exists at (script_id, version)
func (r *GormHistoryRepository) Append(ctx context.Context, entry *models.HistoryEntry) (*models.HistoryEntry, bool, error) {
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	row := historyRow{
		ID:        uuid.NewString(),
		ScriptID:  entry.ScriptID,
		Version:   entry.Version,
		Content:   entry.Content,
		Source:    string(entry.Source),
		Metadata:  datatypes.JSONMap(metadata),
		CreatedAt: entry.CreatedAt,
		CreatedBy: entry.CreatedBy,
	}

	result := r.db.WithContext(ctx).
		Table(r.tables.ScriptHistory).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "script_id"}, {Name: "version"}},
			DoNothing: true,
		}).
		Create(&row)
	if result.Error != nil {
		return nil, false, fmt.Errorf("append history entry: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		existing, err := r.GetByVersion(ctx, entry.ScriptID, entry.Version)
		if err != nil {
			return nil, false, fmt.Errorf("load existing history entry: %w", err)
		}
		r.logger.Debug("history entry already exists",
			"script_id", entry.ScriptID,
			"version", entry.Version,
			"existing_source", existing.Source,
		)
		return existing, false, nil
	}

	entry.ID = row.ID
	entry.CreatedAt = row.CreatedAt
	entry.Metadata = metadata
	return entry, true, nil
}

// GetByID retrieves an entry, scoped to its script
func (r *GormHistoryRepository) GetByID(ctx context.Context, scriptID, entryID string) (*models.HistoryEntry, error) {
	var row historyRow
	err := r.db.WithContext(ctx).
		Table(r.tables.ScriptHistory).
		Where("id = ? AND script_id = ?", entryID, scriptID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("history entry %s: %w", entryID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get history entry: %w", err)
	}
	return row.toModel()
}

// GetByVersion retrieves the entry recorded for a script version
func (r *GormHistoryRepository) GetByVersion(ctx context.Context, scriptID string, version int64) (*models.HistoryEntry, error) {
	var row historyRow
	err := r.db.WithContext(ctx).
		Table(r.tables.ScriptHistory).
		Where("script_id = ? AND version = ?", scriptID, version).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("history of script %s at version %d: %w", scriptID, version, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get history entry by version: %w", err)
	}
	return row.toModel()
}

// List returns entries newest first
func (r *GormHistoryRepository) List(ctx context.Context, scriptID string, limit int) ([]models.HistoryEntry, error) {
	var rows []historyRow
	err := r.db.WithContext(ctx).
		Table(r.tables.ScriptHistory).
		Where("script_id = ?", scriptID).
		Order("version DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	entries := make([]models.HistoryEntry, 0, len(rows))
	for i := range rows {
		entry, err := rows[i].toModel()
		if err != nil {
			return nil, fmt.Errorf("decode history entry %s: %w", rows[i].ID, err)
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}
