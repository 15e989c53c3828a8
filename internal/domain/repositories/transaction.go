package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions
type TransactionManager interface {
	// ExecTx executes fn within a transaction; every repository call made
	// with the passed context joins it. Commits on nil, rolls back on error.
	ExecTx(ctx context.Context, fn TxFn) error
}
