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

const historyColumns = "id, script_id, version, content, source, metadata, created_at, created_by"

// PostgresHistoryRepository implements the HistoryRepository interface
type PostgresHistoryRepository struct {
	db     repositories.DBTX
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewHistoryRepository creates a new script history repository
func NewHistoryRepository(config *postgres.RepositoryConfig) scriptRepo.HistoryRepository {
	return &PostgresHistoryRepository{
		db:     config.DB,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Append inserts an entry unless one already exists at (script_id, version)
func (r *PostgresHistoryRepository) Append(ctx context.Context, entry *models.HistoryEntry) (*models.HistoryEntry, bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (script_id, version, content, source, metadata, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (script_id, version) DO NOTHING
		RETURNING id, created_at
	`, r.tables.ScriptHistory)

	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	executor := postgres.GetExecutor(ctx, r.db)
	err := executor.QueryRow(ctx, query,
		entry.ScriptID,
		entry.Version,
		entry.Content,
		string(entry.Source),
		metadata,
		entry.CreatedAt,
		entry.CreatedBy,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			// DO NOTHING fired: the version is already recorded
			existing, getErr := r.GetByVersion(ctx, entry.ScriptID, entry.Version)
			if getErr != nil {
				return nil, false, fmt.Errorf("load existing history entry: %w", getErr)
			}
			r.logger.Debug("history entry already exists",
				"script_id", entry.ScriptID,
				"version", entry.Version,
				"existing_source", existing.Source,
			)
			return existing, false, nil
		}
		if postgres.IsPgForeignKeyError(err) {
			return nil, false, fmt.Errorf("script %s: %w", entry.ScriptID, domain.ErrNotFound)
		}
		return nil, false, fmt.Errorf("append history entry: %w", err)
	}

	entry.Metadata = metadata
	return entry, true, nil
}

// GetByID retrieves an entry, scoped to its script
func (r *PostgresHistoryRepository) GetByID(ctx context.Context, scriptID, entryID string) (*models.HistoryEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE id = $1 AND script_id = $2
	`, historyColumns, r.tables.ScriptHistory)

	entry, err := scanHistoryEntry(postgres.GetExecutor(ctx, r.db).QueryRow(ctx, query, entryID, scriptID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("history entry %s: %w", entryID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get history entry: %w", err)
	}

	return entry, nil
}

// GetByVersion retrieves the entry recorded for a script version
func (r *PostgresHistoryRepository) GetByVersion(ctx context.Context, scriptID string, version int64) (*models.HistoryEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE script_id = $1 AND version = $2
	`, historyColumns, r.tables.ScriptHistory)

	entry, err := scanHistoryEntry(postgres.GetExecutor(ctx, r.db).QueryRow(ctx, query, scriptID, version))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("history of script %s at version %d: %w", scriptID, version, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get history entry by version: %w", err)
	}

	return entry, nil
}

// List returns entries newest first
func (r *PostgresHistoryRepository) List(ctx context.Context, scriptID string, limit int) ([]models.HistoryEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE script_id = $1
		ORDER BY version DESC
		LIMIT $2
	`, historyColumns, r.tables.ScriptHistory)

	rows, err := postgres.GetExecutor(ctx, r.db).Query(ctx, query, scriptID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		entry, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return entries, nil
}

func scanHistoryEntry(row rowScanner) (*models.HistoryEntry, error) {
	var entry models.HistoryEntry
	var source string
	err := row.Scan(
		&entry.ID,
		&entry.ScriptID,
		&entry.Version,
		&entry.Content,
		&source,
		&entry.Metadata,
		&entry.CreatedAt,
		&entry.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	entry.Source, err = models.ParseHistorySource(source)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}
