package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"idive/internal/domain"
	models "idive/internal/domain/models/script"
	scriptRepo "idive/internal/domain/repositories/script"
	"idive/internal/repository/postgres"
)

// GormScriptRepository implements the ScriptRepository interface on gorm
type GormScriptRepository struct {
	db     *gorm.DB
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewScriptRepository creates a new script repository
func NewScriptRepository(config *RepositoryConfig) scriptRepo.ScriptRepository {
	return &GormScriptRepository{
		db:     config.DB,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new script row
func (r *GormScriptRepository) Create(ctx context.Context, s *models.Script) error {
	row := scriptRow{
		ID:          uuid.NewString(),
		PresenterID: s.PresenterID,
		Content:     s.Content,
		Language:    s.Language,
		Version:     s.Version,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		UpdatedBy:   s.UpdatedBy,
	}

	err := r.db.WithContext(ctx).Table(r.tables.Scripts).Create(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, getErr := r.GetByPresenterID(ctx, s.PresenterID)
			if getErr != nil {
				return fmt.Errorf("script for presenter %s already exists: %w", s.PresenterID, domain.ErrConflict)
			}
			return &domain.ConflictError{
				Message:      fmt.Sprintf("script for presenter %s already exists", s.PresenterID),
				ResourceType: "script",
				ResourceID:   existing.ID,
			}
		}
		return fmt.Errorf("create script: %w", err)
	}

	s.ID = row.ID
	s.CreatedAt = row.CreatedAt
	s.UpdatedAt = row.UpdatedAt
	return nil
}

// GetByID retrieves a script by ID
func (r *GormScriptRepository) GetByID(ctx context.Context, id string) (*models.Script, error) {
	var row scriptRow
	err := r.db.WithContext(ctx).Table(r.tables.Scripts).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("script %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get script: %w", err)
	}
	return row.toModel(), nil
}

// GetByPresenterID retrieves the script of a presenter
func (r *GormScriptRepository) GetByPresenterID(ctx context.Context, presenterID string) (*models.Script, error) {
	var row scriptRow
	err := r.db.WithContext(ctx).Table(r.tables.Scripts).Where("presenter_id = ?", presenterID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("script for presenter %s: %w", presenterID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get script by presenter: %w", err)
	}
	return row.toModel(), nil
}

// UpdateContent runs the conditional update and reads the row back inside
// one write transaction, so the returned version is the one this write set.
func (r *GormScriptRepository) UpdateContent(ctx context.Context, update *models.ContentUpdate) (*models.Script, error) {
	var updated scriptRow

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		values := map[string]interface{}{
			"content":    update.Content,
			"version":    gorm.Expr("version + 1"),
			"updated_at": update.UpdatedAt,
			"updated_by": update.UpdatedBy,
		}
		if update.Language != nil {
			values["language"] = *update.Language
		}

		query := tx.Table(r.tables.Scripts).Where("id = ?", update.ScriptID)
		if update.BaseVersion != nil {
			query = query.Where("version = ?", *update.BaseVersion)
		}

		result := query.Updates(values)
		if result.Error != nil {
			return fmt.Errorf("update script content: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			if update.BaseVersion != nil {
				return fmt.Errorf("script %s at version %d: %w", update.ScriptID, *update.BaseVersion, domain.ErrVersionConflict)
			}
			return fmt.Errorf("script %s: %w", update.ScriptID, domain.ErrNotFound)
		}

		if err := tx.Table(r.tables.Scripts).Where("id = ?", update.ScriptID).Take(&updated).Error; err != nil {
			return fmt.Errorf("reload script: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated.toModel(), nil
}
