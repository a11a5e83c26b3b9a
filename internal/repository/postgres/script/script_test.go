package script

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idive/internal/domain"
	models "idive/internal/domain/models/script"
	"idive/internal/repository/postgres"
)

func newMockConfig(t *testing.T) (pgxmock.PgxPoolIface, *postgres.RepositoryConfig) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, &postgres.RepositoryConfig{
		DB:     mock,
		Tables: postgres.NewTableNames("test_"),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

var scriptCols = []string{"id", "presenter_id", "content", "language", "version", "created_at", "updated_at", "updated_by"}

func TestUpdateContent_ConditionalSuccess(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewScriptRepository(cfg)
	now := time.Now()
	base := int64(2)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE test_scripts") + ".*" + regexp.QuoteMeta("WHERE id = $5 AND version = $6")).
		WithArgs("new text", pgxmock.AnyArg(), pgxmock.AnyArg(), "user-1", "script-1", base).
		WillReturnRows(pgxmock.NewRows(scriptCols).
			AddRow("script-1", "presenter-1", "new text", "en", int64(3), now, now, "user-1"))

	got, err := repo.UpdateContent(context.Background(), &models.ContentUpdate{
		ScriptID:    "script-1",
		Content:     "new text",
		BaseVersion: &base,
		UpdatedBy:   "user-1",
		UpdatedAt:   now,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Version)
	assert.Equal(t, "new text", got.Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateContent_StaleVersionIsConflict(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewScriptRepository(cfg)
	base := int64(2)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE test_scripts")).
		WithArgs("late edit", pgxmock.AnyArg(), pgxmock.AnyArg(), "user-2", "script-1", base).
		WillReturnRows(pgxmock.NewRows(scriptCols))

	got, err := repo.UpdateContent(context.Background(), &models.ContentUpdate{
		ScriptID:    "script-1",
		Content:     "late edit",
		BaseVersion: &base,
		UpdatedBy:   "user-2",
		UpdatedAt:   time.Now(),
	})

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateContent_ForceHasNoVersionPredicate(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewScriptRepository(cfg)
	now := time.Now()

	// Five arguments only: no version predicate
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE test_scripts")+".*"+regexp.QuoteMeta("WHERE id = $5")).
		WithArgs("forced", pgxmock.AnyArg(), pgxmock.AnyArg(), "user-1", "script-1").
		WillReturnRows(pgxmock.NewRows(scriptCols).
			AddRow("script-1", "presenter-1", "forced", "en", int64(8), now, now, "user-1"))

	got, err := repo.UpdateContent(context.Background(), &models.ContentUpdate{
		ScriptID:  "script-1",
		Content:   "forced",
		UpdatedBy: "user-1",
		UpdatedAt: now,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(8), got.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateContent_ForceOnMissingRowIsNotFound(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewScriptRepository(cfg)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE test_scripts")).
		WithArgs("forced", pgxmock.AnyArg(), pgxmock.AnyArg(), "user-1", "missing").
		WillReturnRows(pgxmock.NewRows(scriptCols))

	_, err := repo.UpdateContent(context.Background(), &models.ContentUpdate{
		ScriptID:  "missing",
		Content:   "forced",
		UpdatedBy: "user-1",
		UpdatedAt: time.Now(),
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicatePresenterReturnsExistingID(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewScriptRepository(cfg)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO test_scripts")).
		WithArgs("presenter-1", "", "en", int64(1), pgxmock.AnyArg(), pgxmock.AnyArg(), "user-1").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectQuery(regexp.QuoteMeta("FROM test_scripts WHERE presenter_id = $1")).
		WithArgs("presenter-1").
		WillReturnRows(pgxmock.NewRows(scriptCols).
			AddRow("winner", "presenter-1", "", "en", int64(1), now, now, "user-1"))

	err := repo.Create(context.Background(), &models.Script{
		PresenterID: "presenter-1",
		Language:    "en",
		Version:     models.InitialVersion,
		CreatedAt:   now,
		UpdatedAt:   now,
		UpdatedBy:   "user-1",
	})

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "winner", conflict.ResourceID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewScriptRepository(cfg)

	mock.ExpectQuery(regexp.QuoteMeta("FROM test_scripts WHERE id = $1")).
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows(scriptCols))

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
