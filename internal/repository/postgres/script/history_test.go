package script

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idive/internal/domain"
	models "idive/internal/domain/models/script"
)

var historyCols = []string{"id", "script_id", "version", "content", "source", "metadata", "created_at", "created_by"}

func TestAppend_Created(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewHistoryRepository(cfg)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO test_script_history") + ".*" + regexp.QuoteMeta("ON CONFLICT (script_id, version) DO NOTHING")).
		WithArgs("script-1", int64(2), "Hello world", "autosave", map[string]interface{}{}, pgxmock.AnyArg(), "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("entry-2", now))

	stored, created, err := repo.Append(context.Background(), &models.HistoryEntry{
		ScriptID:  "script-1",
		Version:   2,
		Content:   "Hello world",
		Source:    models.HistorySourceAutosave,
		CreatedAt: now,
		CreatedBy: "user-1",
	})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "entry-2", stored.ID)
	assert.NotNil(t, stored.Metadata)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_DuplicateReturnsExisting(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewHistoryRepository(cfg)
	now := time.Now()
	meta := map[string]interface{}{"phase": "pre"}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO test_script_history")).
		WithArgs("script-1", int64(3), "current", "manual", meta, pgxmock.AnyArg(), "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE script_id = $1 AND version = $2")).
		WithArgs("script-1", int64(3)).
		WillReturnRows(pgxmock.NewRows(historyCols).
			AddRow("entry-3", "script-1", int64(3), "current", "autosave", map[string]interface{}{}, now, "user-1"))

	stored, created, err := repo.Append(context.Background(), &models.HistoryEntry{
		ScriptID:  "script-1",
		Version:   3,
		Content:   "current",
		Source:    models.HistorySourceManual,
		Metadata:  meta,
		CreatedAt: now,
		CreatedBy: "user-1",
	})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "entry-3", stored.ID)
	assert.Equal(t, models.HistorySourceAutosave, stored.Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryGetByID_ScopedToScript(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewHistoryRepository(cfg)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND script_id = $2")).
		WithArgs("entry-of-other-script", "script-1").
		WillReturnRows(pgxmock.NewRows(historyCols))

	_, err := repo.GetByID(context.Background(), "script-1", "entry-of-other-script")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryList_NewestFirst(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewHistoryRepository(cfg)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY version DESC")).
		WithArgs("script-1", 2).
		WillReturnRows(pgxmock.NewRows(historyCols).
			AddRow("e3", "script-1", int64(3), "c3", "autosave", map[string]interface{}{}, now, "u").
			AddRow("e2", "script-1", int64(2), "c2", "manual", map[string]interface{}{}, now, "u"))

	entries, err := repo.List(context.Background(), "script-1", 2)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(3), entries[0].Version)
	assert.Equal(t, int64(2), entries[1].Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryList_UnknownSourceFails(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewHistoryRepository(cfg)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY version DESC")).
		WithArgs("script-1", 10).
		WillReturnRows(pgxmock.NewRows(historyCols).
			AddRow("e1", "script-1", int64(1), "", "imported", map[string]interface{}{}, time.Now(), "u"))

	_, err := repo.List(context.Background(), "script-1", 10)
	assert.Error(t, err)
}
