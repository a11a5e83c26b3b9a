package postgres

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_OrderedAndPrefixed(t *testing.T) {
	migrations, err := loadMigrations("test_")
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, 1, migrations[0].version)
	assert.Equal(t, "presenters_scripts", migrations[0].name)
	assert.Equal(t, 2, migrations[1].version)
	assert.Equal(t, "script_history", migrations[1].name)

	for _, m := range migrations {
		assert.NotContains(t, m.sql, "{{prefix}}")
	}
	assert.Contains(t, migrations[1].sql, "UNIQUE (script_id, version)")
	assert.True(t, strings.Contains(migrations[1].sql, "test_script_history"))
}

func TestMigrator_SkipsAppliedAndRecordsNew(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	migrator := NewMigrator(mock, "test_", slog.New(slog.NewTextHandler(io.Discard, nil)))

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS test_schema_migrations")).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	// Version 1 already applied
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(migrationLockKey).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM test_schema_migrations")).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	// Version 2 pending
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(migrationLockKey).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM test_schema_migrations")).
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS test_script_history")).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO test_schema_migrations")).
		WithArgs(2, "script_history").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	applied, err := migrator.Apply(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"script_history"}, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}
