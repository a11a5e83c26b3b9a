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

// GormPresenterRepository implements the PresenterRepository interface on gorm
type GormPresenterRepository struct {
	db     *gorm.DB
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewPresenterRepository creates a new presenter repository
func NewPresenterRepository(config *RepositoryConfig) scriptRepo.PresenterRepository {
	return &GormPresenterRepository{
		db:     config.DB,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func (r *GormPresenterRepository) Create(ctx context.Context, p *models.Presenter) error {
	row := presenterRow{
		ID:        uuid.NewString(),
		UserID:    p.UserID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Table(r.tables.Presenters).Create(&row).Error; err != nil {
		return fmt.Errorf("create presenter: %w", err)
	}

	p.ID = row.ID
	p.CreatedAt = row.CreatedAt
	p.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *GormPresenterRepository) GetByID(ctx context.Context, id string) (*models.Presenter, error) {
	var row presenterRow
	err := r.db.WithContext(ctx).Table(r.tables.Presenters).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("presenter %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get presenter: %w", err)
	}
	return row.toModel(), nil
}

func (r *GormPresenterRepository) ListByUser(ctx context.Context, userID string) ([]models.Presenter, error) {
	var rows []presenterRow
	err := r.db.WithContext(ctx).
		Table(r.tables.Presenters).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list presenters: %w", err)
	}

	presenters := make([]models.Presenter, 0, len(rows))
	for i := range rows {
		presenters = append(presenters, *rows[i].toModel())
	}
	return presenters, nil
}
