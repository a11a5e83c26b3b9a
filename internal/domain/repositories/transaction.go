package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions.
//
// Script writes never use it: every versioned write is a single conditional
// statement. It is used where several statements must land together, such as
// applying a schema migration and recording it.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
