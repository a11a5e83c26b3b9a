package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"idive/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	DB     repositories.DBTX
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Presenters       string
	Scripts          string
	ScriptHistory    string
	SchemaMigrations string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Presenters:       fmt.Sprintf("%spresenters", prefix),
		Scripts:          fmt.Sprintf("%sscripts", prefix),
		ScriptHistory:    fmt.Sprintf("%sscript_history", prefix),
		SchemaMigrations: fmt.Sprintf("%sschema_migrations", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// Supabase's transaction pooler (PgBouncer, port 6543) does not support
// prepared statements, so on that port the pool switches to
// QueryExecModeCacheDescribe: extended protocol (needed to encode
// map[string]interface{} as jsonb) without server-side prepared statements.
// An explicit default_query_exec_mode in the connection string wins.
//
// Table prefixes are interpolated with fmt.Sprintf before the SQL reaches
// the server, so each environment gets its own cached statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or db when there is none.
func GetExecutor(ctx context.Context, db repositories.DBTX) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return db
}
