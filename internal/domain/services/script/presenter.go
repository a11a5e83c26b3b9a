package script

import (
	"context"

	models "idive/internal/domain/models/script"
)

// PresenterService handles presenter business logic
type PresenterService interface {
	CreatePresenter(ctx context.Context, req *CreatePresenterRequest) (*models.Presenter, error)

	// GetPresenter returns a presenter owned by userID
	GetPresenter(ctx context.Context, userID, presenterID string) (*models.Presenter, error)

	ListPresenters(ctx context.Context, userID string) ([]models.Presenter, error)
}

// CreatePresenterRequest represents a presenter creation request
type CreatePresenterRequest struct {
	UserID string `json:"-"` // Set by handler from auth context, not from request body
	Name   string `json:"name"`
}
