package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"

	"idive/internal/domain/repositories"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrationLockKey serializes concurrent migrators (several server replicas
// starting at once) through a transaction-scoped advisory lock.
const migrationLockKey int64 = 0x1d17e5c417

type migration struct {
	version int
	name    string
	sql     string
}

// Migrator applies the embedded schema migrations, each in its own
// transaction together with its schema_migrations row.
type Migrator struct {
	db     repositories.DBTX
	tx     repositories.TransactionManager
	tables *TableNames
	prefix string
	logger *slog.Logger
}

// NewMigrator creates a migrator for the tables with the given prefix
func NewMigrator(db repositories.TxBeginner, prefix string, logger *slog.Logger) *Migrator {
	return &Migrator{
		db:     db,
		tx:     NewTransactionManager(db, logger),
		tables: NewTableNames(prefix),
		prefix: prefix,
		logger: logger,
	}
}

// Apply runs every migration not yet recorded and returns the names applied.
func (m *Migrator) Apply(ctx context.Context) ([]string, error) {
	migrations, err := loadMigrations(m.prefix)
	if err != nil {
		return nil, err
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version     INTEGER PRIMARY KEY,
			name        TEXT NOT NULL,
			applied_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`, m.tables.SchemaMigrations)
	if _, err := m.db.Exec(ctx, createTable); err != nil {
		return nil, fmt.Errorf("ensure %s table: %w", m.tables.SchemaMigrations, err)
	}

	var applied []string
	for _, mig := range migrations {
		ran := false
		err := m.tx.ExecTx(ctx, func(ctx context.Context) error {
			executor := GetExecutor(ctx, m.db)

			if _, err := executor.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", migrationLockKey); err != nil {
				return fmt.Errorf("acquire migration lock: %w", err)
			}

			var count int
			query := fmt.Sprintf(`SELECT COUNT(1) FROM %s WHERE version = $1`, m.tables.SchemaMigrations)
			if err := executor.QueryRow(ctx, query, mig.version).Scan(&count); err != nil {
				return fmt.Errorf("check migration %d: %w", mig.version, err)
			}
			if count > 0 {
				return nil
			}

			if _, err := executor.Exec(ctx, mig.sql); err != nil {
				return fmt.Errorf("apply migration %d (%s): %w", mig.version, mig.name, err)
			}

			insert := fmt.Sprintf(`INSERT INTO %s (version, name) VALUES ($1, $2)`, m.tables.SchemaMigrations)
			if _, err := executor.Exec(ctx, insert, mig.version, mig.name); err != nil {
				return fmt.Errorf("record migration %d: %w", mig.version, err)
			}

			ran = true
			return nil
		})
		if err != nil {
			return applied, err
		}
		if ran {
			m.logger.Info("migration applied", "version", mig.version, "name", mig.name)
			applied = append(applied, mig.name)
		}
	}

	return applied, nil
}

// loadMigrations reads NNNN_name.sql files in version order and substitutes
// the table prefix.
func loadMigrations(prefix string) ([]migration, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var migrations []migration
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".sql")
		num, label, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: expected NNNN_name.sql", entry.Name())
		}
		version, err := strconv.Atoi(num)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", entry.Name(), err)
		}

		body, err := migrationFiles.ReadFile(path.Join("migrations", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		migrations = append(migrations, migration{
			version: version,
			name:    label,
			sql:     strings.ReplaceAll(string(body), "{{prefix}}", prefix),
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].version < migrations[j].version })
	return migrations, nil
}
