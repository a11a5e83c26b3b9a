package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"idive/internal/cache"
	"idive/internal/config"
	scriptRepo "idive/internal/domain/repositories/script"
	"idive/internal/repository/postgres"
	pgScript "idive/internal/repository/postgres/script"
	"idive/internal/repository/sqlite"
)

// Stores bundles the script repositories for the configured storage driver.
type Stores struct {
	Presenters scriptRepo.PresenterRepository
	Scripts    scriptRepo.ScriptRepository
	History    scriptRepo.HistoryRepository

	ping    func(ctx context.Context) error
	closers []func() error
}

// Ping checks that the backing database is reachable
func (s *Stores) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the cache client and the database, in reverse open order
func (s *Stores) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Open connects to the configured store (STORAGE_DRIVER) and, when REDIS_URL
// is set, puts the read-through cache in front of the script repository.
// Postgres migrations run here only when migrate is true.
func Open(ctx context.Context, cfg *config.Config, migrate bool, logger *slog.Logger) (*Stores, error) {
	var (
		stores *Stores
		err    error
	)

	switch cfg.StorageDriver {
	case "postgres":
		stores, err = openPostgres(ctx, cfg, migrate, logger)
	case "sqlite":
		stores, err = openSQLite(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q (want postgres or sqlite)", cfg.StorageDriver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RedisURL == "" {
		return stores, nil
	}

	client, err := cache.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		_ = stores.Close()
		return nil, err
	}
	stores.closers = append(stores.closers, client.Close)
	stores.Scripts = cache.NewScriptRepository(stores.Scripts, client, cfg.ScriptCacheTTL, cfg.TablePrefix, logger)

	logger.Info("script cache enabled", "addr", redisAddr(client), "ttl", cfg.ScriptCacheTTL.String())
	return stores, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, migrate bool, logger *slog.Logger) (*Stores, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	logger.Info("database connected",
		"driver", "postgres",
		"max_conns", pool.Config().MaxConns,
		"min_conns", pool.Config().MinConns,
	)

	if migrate {
		applied, err := postgres.NewMigrator(pool, cfg.TablePrefix, logger).Apply(ctx)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("migrations applied", "count", len(applied))
	}

	repoConfig := &postgres.RepositoryConfig{
		DB:     pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}

	return &Stores{
		Presenters: pgScript.NewPresenterRepository(repoConfig),
		Scripts:    pgScript.NewScriptRepository(repoConfig),
		History:    pgScript.NewHistoryRepository(repoConfig),
		ping:       pool.Ping,
		closers:    []func() error{func() error { pool.Close(); return nil }},
	}, nil
}

func openSQLite(cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	repoConfig, err := sqlite.Open(cfg.SQLitePath, cfg.TablePrefix, cfg.Debug)
	if err != nil {
		return nil, err
	}
	repoConfig.Logger = logger

	logger.Info("database opened", "driver", "sqlite", "path", cfg.SQLitePath)

	return &Stores{
		Presenters: sqlite.NewPresenterRepository(repoConfig),
		Scripts:    sqlite.NewScriptRepository(repoConfig),
		History:    sqlite.NewHistoryRepository(repoConfig),
		ping:       repoConfig.Ping,
		closers:    []func() error{repoConfig.Close},
	}, nil
}

func redisAddr(client *redis.Client) string {
	return client.Options().Addr
}
