package ledger

import "github.com/financas/backend/internal/domain/shared"

// Ledger error taxonomy. Every rejection protects a financial invariant, so
// none of these may be swallowed by callers.
var (
	// ErrInvoiceLocked is returned for any mutation against a PAGA invoice.
	// Settled financial history must not silently change.
	ErrInvoiceLocked = shared.NewDomainError("INVOICE_LOCKED", "Invoice is settled and no longer accepts changes")

	// ErrFundingConflict is returned when a movement has zero or both funding
	// references (account XOR card/invoice).
	ErrFundingConflict = shared.NewDomainError("FUNDING_CONFLICT", "Movement must be funded by exactly one of account or card")

	// ErrScopeConflict is returned when a series scope is requested on a
	// movement that does not belong to a series.
	ErrScopeConflict = shared.NewDomainError("SCOPE_CONFLICT", "Scope requires a movement that belongs to a series")

	// ErrSeriesScopeRequired is returned when a series member is mutated
	// through the single-movement operations, which carry no scope.
	ErrSeriesScopeRequired = shared.NewDomainError("SCOPE_CONFLICT", "Movement belongs to a series; use a scoped series operation")

	// ErrInsufficientData is returned when series ordering cannot be resolved.
	ErrInsufficientData = shared.NewDomainError("INSUFFICIENT_DATA", "Series ordering cannot be determined without a competence date")
)
