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

const scriptColumns = "id, presenter_id, content, language, version, created_at, updated_at, updated_by"

// PostgresScriptRepository implements the ScriptRepository interface
type PostgresScriptRepository struct {
	db     repositories.DBTX
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewScriptRepository creates a new script repository
func NewScriptRepository(config *postgres.RepositoryConfig) scriptRepo.ScriptRepository {
	return &PostgresScriptRepository{
		db:     config.DB,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new script row
func (r *PostgresScriptRepository) Create(ctx context.Context, s *models.Script) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (presenter_id, content, language, version, created_at, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, r.tables.Scripts)

	executor := postgres.GetExecutor(ctx, r.db)
	err := executor.QueryRow(ctx, query,
		s.PresenterID,
		s.Content,
		s.Language,
		s.Version,
		s.CreatedAt,
		s.UpdatedAt,
		s.UpdatedBy,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
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
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("presenter %s: %w", s.PresenterID, domain.ErrNotFound)
		}
		return fmt.Errorf("create script: %w", err)
	}

	return nil
}

// GetByID retrieves a script by ID
func (r *PostgresScriptRepository) GetByID(ctx context.Context, id string) (*models.Script, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, scriptColumns, r.tables.Scripts)

	s, err := scanScript(postgres.GetExecutor(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("script %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get script: %w", err)
	}

	return s, nil
}

// GetByPresenterID retrieves the script of a presenter
func (r *PostgresScriptRepository) GetByPresenterID(ctx context.Context, presenterID string) (*models.Script, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE presenter_id = $1`, scriptColumns, r.tables.Scripts)

	s, err := scanScript(postgres.GetExecutor(ctx, r.db).QueryRow(ctx, query, presenterID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("script for presenter %s: %w", presenterID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get script by presenter: %w", err)
	}

	return s, nil
}

// UpdateContent bumps the version and replaces the content in one statement.
// The version check lives in the WHERE clause, so two writers holding the
// same base version cannot both succeed.
func (r *PostgresScriptRepository) UpdateContent(ctx context.Context, update *models.ContentUpdate) (*models.Script, error) {
	var query string
	args := []interface{}{
		update.Content,
		update.Language,
		update.UpdatedAt,
		update.UpdatedBy,
		update.ScriptID,
	}

	if update.BaseVersion != nil {
		query = fmt.Sprintf(`
			UPDATE %s
			SET content = $1, language = COALESCE($2::text, language), version = version + 1,
			    updated_at = $3, updated_by = $4
			WHERE id = $5 AND version = $6
			RETURNING %s
		`, r.tables.Scripts, scriptColumns)
		args = append(args, *update.BaseVersion)
	} else {
		query = fmt.Sprintf(`
			UPDATE %s
			SET content = $1, language = COALESCE($2::text, language), version = version + 1,
			    updated_at = $3, updated_by = $4
			WHERE id = $5
			RETURNING %s
		`, r.tables.Scripts, scriptColumns)
	}

	s, err := scanScript(postgres.GetExecutor(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			// No row matched: with a base version that means another writer got there first
			if update.BaseVersion != nil {
				return nil, fmt.Errorf("script %s at version %d: %w", update.ScriptID, *update.BaseVersion, domain.ErrVersionConflict)
			}
			return nil, fmt.Errorf("script %s: %w", update.ScriptID, domain.ErrNotFound)
		}
		if postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("script %s: %w", update.ScriptID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update script content: %w", err)
	}

	return s, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScript(row rowScanner) (*models.Script, error) {
	var s models.Script
	err := row.Scan(
		&s.ID,
		&s.PresenterID,
		&s.Content,
		&s.Language,
		&s.Version,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
