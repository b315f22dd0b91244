package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager groups multiple adapter calls into one atomic unit.
// The multi-row creation in project setup goes through it so a failure
// partway leaves nothing visibly committed. Backends without transactions
// may degrade to best-effort execution.
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error
}
