package presenter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"idive/internal/config"
	"idive/internal/domain"
	models "idive/internal/domain/models/script"
	scriptRepo "idive/internal/domain/repositories/script"
	"idive/internal/domain/services"
	scriptSvc "idive/internal/domain/services/script"
)

// presenterService implements the PresenterService interface
type presenterService struct {
	repo       scriptRepo.PresenterRepository
	authorizer services.ResourceAuthorizer
	logger     *slog.Logger
}

// NewService creates a new presenter service
func NewService(
	repo scriptRepo.PresenterRepository,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) scriptSvc.PresenterService {
	return &presenterService{
		repo:       repo,
		authorizer: authorizer,
		logger:     logger,
	}
}

// CreatePresenter creates a presenter owned by the caller
func (s *presenterService) CreatePresenter(ctx context.Context, req *scriptSvc.CreatePresenterRequest) (*models.Presenter, error) {
	req.Name = strings.TrimSpace(req.Name)

	err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.RuneLength(1, config.MaxPresenterNameLength),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now().UTC()
	presenter := &models.Presenter{
		UserID:    req.UserID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, presenter); err != nil {
		return nil, fmt.Errorf("create presenter: %w: %v", domain.ErrStorage, err)
	}

	s.logger.Info("presenter created",
		"id", presenter.ID,
		"user_id", req.UserID,
	)

	return presenter, nil
}

// GetPresenter retrieves a presenter the caller owns
func (s *presenterService) GetPresenter(ctx context.Context, userID, presenterID string) (*models.Presenter, error) {
	if err := validation.Validate(presenterID, validation.Required, is.UUID); err != nil {
		return nil, fmt.Errorf("%w: presenter_id: %v", domain.ErrValidation, err)
	}

	if err := s.authorizer.CanAccessPresenter(ctx, userID, presenterID); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, presenterID)
}

// ListPresenters lists the caller's presenters, oldest first
func (s *presenterService) ListPresenters(ctx context.Context, userID string) ([]models.Presenter, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	presenters, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list presenters: %w: %v", domain.ErrStorage, err)
	}
	return presenters, nil
}
