package ledger

import (
	"context"
	"time"

	"github.com/financas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository persists Account aggregates
type AccountRepository interface {
	shared.UserRepository[Account]
	FindActiveForUser(ctx context.Context, userID uuid.UUID) ([]Account, error)
}

// CardRepository persists Card aggregates
type CardRepository interface {
	shared.UserRepository[Card]
	FindActiveForUser(ctx context.Context, userID uuid.UUID) ([]Card, error)
}

// InvoiceRepository persists Invoice aggregates
type InvoiceRepository interface {
	shared.UserRepository[Invoice]

	// FindByCardAndReference returns the single invoice of a card for a
	// reference month, or shared.ErrNotFound
	FindByCardAndReference(ctx context.Context, userID, cardID uuid.UUID, ref InvoiceReference) (*Invoice, error)

	// FindByCard lists a card's invoices, newest reference first
	FindByCard(ctx context.Context, userID, cardID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// SumUnsettledTotals recomputes the card's utilization from scratch:
	// the sum of total_value over invoices whose status consumes limit.
	// Used to reconcile the incrementally maintained cache against drift.
	SumUnsettledTotals(ctx context.Context, userID, cardID uuid.UUID) (decimal.Decimal, error)
}

// MovementQuery narrows movement listings. ExcludeSettledCard drops card
// movements whose invoice is already PAGA; balance math sets it because their
// cash effect is carried by the settlement movement, while plain listings
// keep the full history visible.
type MovementQuery struct {
	AccountID          *uuid.UUID
	CardID             *uuid.UUID
	InvoiceID          *uuid.UUID
	CategoryID         *uuid.UUID
	Kind               *MovementKind
	PaidOnly           bool
	ExcludeSettledCard bool
}

// MovementRepository persists Movement aggregates
type MovementRepository interface {
	shared.UserRepository[Movement]

	// FindBySeries returns every member of a series, ordered by competence date
	FindBySeries(ctx context.Context, userID, seriesID uuid.UUID) ([]Movement, error)

	// FindByInvoice returns the movements linked to one invoice
	FindByInvoice(ctx context.Context, userID, invoiceID uuid.UUID) ([]Movement, error)

	// FindByTransferGroup returns both legs of a transfer
	FindByTransferGroup(ctx context.Context, userID, groupID uuid.UUID) ([]Movement, error)

	// FindForPeriod returns account-visible movements whose competence date
	// falls within [from, to], ordered by competence date
	FindForPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time, query MovementQuery) ([]Movement, error)

	// SumSignedBefore returns the signed sum of movements dated strictly
	// before the given date. With paidOnly it only counts paid movements,
	// which is the carried-over portion of an account's real balance.
	// Without paidOnly it also counts unpaid movements.
	SumSignedBefore(ctx context.Context, userID uuid.UUID, before time.Time, paidOnly bool, query MovementQuery) (decimal.Decimal, error)

	// DeleteMany removes a batch of movements in one statement
	DeleteMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}
