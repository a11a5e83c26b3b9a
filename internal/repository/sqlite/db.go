package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"idive/internal/repository/postgres"
)

// RepositoryConfig holds configuration for the embedded repositories
type RepositoryConfig struct {
	DB     *gorm.DB
	Tables *postgres.TableNames
	Logger *slog.Logger
}

// Open opens (or creates) a SQLite database and migrates the script tables.
// path may be ":memory:" for a throwaway database.
//
// SQLite allows one writer at a time, so the pool is pinned to a single
// connection: every versioned write runs alone, and an in-memory database
// survives for the lifetime of the pool.
func Open(path, prefix string, debug bool) (*RepositoryConfig, error) {
	dsn := path
	if path != ":memory:" && !strings.Contains(path, "?") {
		dsn = path + "?_busy_timeout=5000&_journal_mode=WAL"
	}

	logLevel := gormlogger.Silent
	if debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	tables := postgres.NewTableNames(prefix)
	if err := Migrate(db, tables); err != nil {
		return nil, err
	}

	return &RepositoryConfig{
		DB:     db,
		Tables: tables,
		Logger: slog.Default(),
	}, nil
}

// Migrate creates or updates the script tables
func Migrate(db *gorm.DB, tables *postgres.TableNames) error {
	if err := db.Table(tables.Presenters).AutoMigrate(&presenterRow{}); err != nil {
		return fmt.Errorf("migrate %s: %w", tables.Presenters, err)
	}
	if err := db.Table(tables.Scripts).AutoMigrate(&scriptRow{}); err != nil {
		return fmt.Errorf("migrate %s: %w", tables.Scripts, err)
	}
	if err := db.Table(tables.ScriptHistory).AutoMigrate(&historyRow{}); err != nil {
		return fmt.Errorf("migrate %s: %w", tables.ScriptHistory, err)
	}
	return nil
}

// Close releases the underlying connection
func (c *RepositoryConfig) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database file is reachable
func (c *RepositoryConfig) Ping(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
