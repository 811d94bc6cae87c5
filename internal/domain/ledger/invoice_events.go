package ledger

import (
	"time"

	"github.com/financas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceOpenedEvent is raised when a billing cycle's invoice is created
type InvoiceOpenedEvent struct {
	shared.BaseDomainEvent
	InvoiceID      uuid.UUID `json:"invoice_id"`
	CardID         uuid.UUID `json:"card_id"`
	ReferenceMonth int       `json:"reference_month"`
	ReferenceYear  int       `json:"reference_year"`
	ClosingDate    time.Time `json:"closing_date"`
	DueDate        time.Time `json:"due_date"`
}

// EventType returns the event type name
func (e *InvoiceOpenedEvent) EventType() string {
	return "InvoiceOpened"
}

// NewInvoiceOpenedEvent creates a new InvoiceOpenedEvent
func NewInvoiceOpenedEvent(inv *Invoice) *InvoiceOpenedEvent {
	return &InvoiceOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceOpened", "Invoice", inv.ID, inv.UserID),
		InvoiceID:       inv.ID,
		CardID:          inv.CardID,
		ReferenceMonth:  inv.ReferenceMonth,
		ReferenceYear:   inv.ReferenceYear,
		ClosingDate:     inv.ClosingDate,
		DueDate:         inv.DueDate,
	}
}

// InvoiceClosedEvent is raised when an invoice stops accepting new movements
type InvoiceClosedEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	CardID     uuid.UUID       `json:"card_id"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// EventType returns the event type name
func (e *InvoiceClosedEvent) EventType() string {
	return "InvoiceClosed"
}

// NewInvoiceClosedEvent creates a new InvoiceClosedEvent
func NewInvoiceClosedEvent(inv *Invoice) *InvoiceClosedEvent {
	return &InvoiceClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceClosed", "Invoice", inv.ID, inv.UserID),
		InvoiceID:       inv.ID,
		CardID:          inv.CardID,
		TotalValue:      inv.TotalValue,
	}
}

// InvoicePaidEvent is raised when an invoice is settled in full
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	CardID     uuid.UUID       `json:"card_id"`
	TotalValue decimal.Decimal `json:"total_value"`
	PaidValue  decimal.Decimal `json:"paid_value"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
}

// EventType returns the event type name
func (e *InvoicePaidEvent) EventType() string {
	return "InvoicePaid"
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePaid", "Invoice", inv.ID, inv.UserID),
		InvoiceID:       inv.ID,
		CardID:          inv.CardID,
		TotalValue:      inv.TotalValue,
		PaidValue:       inv.PaidValue,
		PaidAt:          inv.PaidAt,
	}
}

// InvoicePartiallyPaidEvent is raised for a payment that leaves an
// outstanding balance
type InvoicePartiallyPaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	CardID    uuid.UUID       `json:"card_id"`
	Amount    decimal.Decimal `json:"amount"`
	PaidValue decimal.Decimal `json:"paid_value"`
	Remaining decimal.Decimal `json:"remaining"`
}

// EventType returns the event type name
func (e *InvoicePartiallyPaidEvent) EventType() string {
	return "InvoicePartiallyPaid"
}

// NewInvoicePartiallyPaidEvent creates a new InvoicePartiallyPaidEvent
func NewInvoicePartiallyPaidEvent(inv *Invoice, amount decimal.Decimal) *InvoicePartiallyPaidEvent {
	return &InvoicePartiallyPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePartiallyPaid", "Invoice", inv.ID, inv.UserID),
		InvoiceID:       inv.ID,
		CardID:          inv.CardID,
		Amount:          amount,
		PaidValue:       inv.PaidValue,
		Remaining:       inv.Remaining(),
	}
}
