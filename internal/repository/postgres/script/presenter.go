package script

import (
	"context"
	"fmt"
	"log/slog"

	"idive/internal/domain"
	models "idive/internal/domain/models/script"
	"idive/internal/domain/repositories"
	scriptRepo "idive/internal/domain/repositories/script"
	"idive/internal/repository/postgres"
)

// PostgresPresenterRepository implements the PresenterRepository interface
type PostgresPresenterRepository struct {
	db     repositories.DBTX
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewPresenterRepository creates a new presenter repository
func NewPresenterRepository(config *postgres.RepositoryConfig) scriptRepo.PresenterRepository {
	return &PostgresPresenterRepository{
		db:     config.DB,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a new presenter
func (r *PostgresPresenterRepository) Create(ctx context.Context, p *models.Presenter) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, r.tables.Presenters)

	executor := postgres.GetExecutor(ctx, r.db)
	err := executor.QueryRow(ctx, query,
		p.UserID,
		p.Name,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create presenter: %w", err)
	}

	return nil
}

// GetByID retrieves a presenter by ID
func (r *PostgresPresenterRepository) GetByID(ctx context.Context, id string) (*models.Presenter, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Presenters)

	var p models.Presenter
	executor := postgres.GetExecutor(ctx, r.db)
	err := executor.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("presenter %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get presenter: %w", err)
	}

	return &p, nil
}

// ListByUser lists a user's presenters, oldest first
func (r *PostgresPresenterRepository) ListByUser(ctx context.Context, userID string) ([]models.Presenter, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, r.tables.Presenters)

	rows, err := postgres.GetExecutor(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list presenters: %w", err)
	}
	defer rows.Close()

	presenters := []models.Presenter{}
	for rows.Next() {
		var p models.Presenter
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan presenter: %w", err)
		}
		presenters = append(presenters, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate presenters: %w", err)
	}

	return presenters, nil
}
