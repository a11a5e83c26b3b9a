package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"idive/internal/domain/repositories"
)

// TransactionManager implements repositories.TransactionManager on top of a pool
type TransactionManager struct {
	db     repositories.TxBeginner
	logger *slog.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db repositories.TxBeginner, logger *slog.Logger) repositories.TransactionManager {
	return &TransactionManager{db: db, logger: logger}
}

// ExecTx runs fn with a transaction stored in its context. Repositories pick
// it up through GetExecutor. fn's error rolls the transaction back.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tx, err := tm.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			tm.logger.Warn("rollback failed", "error", err)
		}
	}()

	if err := fn(repositories.SetTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
