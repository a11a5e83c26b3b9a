package script

import (
	"context"

	models "idive/internal/domain/models/script"
)

// PresenterRepository defines data access for presenters
type PresenterRepository interface {
	Create(ctx context.Context, p *models.Presenter) error
	GetByID(ctx context.Context, id string) (*models.Presenter, error)
	ListByUser(ctx context.Context, userID string) ([]models.Presenter, error)
}
