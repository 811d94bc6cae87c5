package shared

import "context"

// TransactionManager runs a function inside a single storage transaction.
// Every repository call made with the context passed to fn joins that
// transaction; if fn returns an error the whole unit of work rolls back.
// Financial mutations that span multiple aggregates (movement + invoice +
// card, invoice payment + account) must go through it so that a rejection
// leaves every aggregate untouched.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopTransactionManager executes the function without any transaction.
// Used in unit tests where repositories are mocked.
type NopTransactionManager struct{}

// RunInTransaction invokes fn directly
func (NopTransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
