package ledger

import (
	"fmt"
	"time"

	"github.com/financas/backend/internal/domain/shared"
	"github.com/financas/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle status of a card invoice
type InvoiceStatus string

const (
	InvoiceStatusAberta   InvoiceStatus = "ABERTA"   // Open, accepts new and edited movements
	InvoiceStatusFechada  InvoiceStatus = "FECHADA"  // Closed, no new movements
	InvoiceStatusPaga     InvoiceStatus = "PAGA"     // Fully settled, immutable
	InvoiceStatusAtrasada InvoiceStatus = "ATRASADA" // Past due with an outstanding balance (derived)
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusAberta, InvoiceStatusFechada, InvoiceStatusPaga, InvoiceStatusAtrasada:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the invoice is in a terminal state
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaga
}

// ConsumesLimit returns true if invoices in this status count against the
// card's credit limit
func (s InvoiceStatus) ConsumesLimit() bool {
	return s == InvoiceStatusAberta || s == InvoiceStatusFechada || s == InvoiceStatusAtrasada
}

// Invoice is the billing-cycle aggregate for one card and one reference
// month. TotalValue is always the sum of the currently linked movements and
// is never edited directly; PaidValue accumulates settlement payments, which
// may be partial.
type Invoice struct {
	shared.UserAggregateRoot
	CardID              uuid.UUID       `json:"card_id"`
	ReferenceMonth      int             `json:"reference_month"`
	ReferenceYear       int             `json:"reference_year"`
	ClosingDate         time.Time       `json:"closing_date"`
	DueDate             time.Time       `json:"due_date"`
	Status              InvoiceStatus   `json:"status"`
	TotalValue          decimal.Decimal `json:"total_value"`
	PaidValue           decimal.Decimal `json:"paid_value"`
	SettlementAccountID *uuid.UUID      `json:"settlement_account_id,omitempty"`
	PaidAt              *time.Time      `json:"paid_at,omitempty"`
}

// NewInvoice creates a new open invoice for a card and reference month
func NewInvoice(userID, cardID uuid.UUID, ref InvoiceReference, closingDate, dueDate time.Time) (*Invoice, error) {
	if cardID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invoice requires a card")
	}
	if !ref.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invoice reference month is not valid")
	}
	if dueDate.Before(closingDate) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invoice due date cannot precede its closing date")
	}

	inv := &Invoice{
		UserAggregateRoot: shared.NewUserAggregateRoot(userID),
		CardID:            cardID,
		ReferenceMonth:    ref.Month,
		ReferenceYear:     ref.Year,
		ClosingDate:       closingDate,
		DueDate:           dueDate,
		Status:            InvoiceStatusAberta,
		TotalValue:        decimal.Zero,
		PaidValue:         decimal.Zero,
	}

	inv.AddDomainEvent(NewInvoiceOpenedEvent(inv))

	return inv, nil
}

// Reference returns the invoice's reference month
func (inv *Invoice) Reference() InvoiceReference {
	return InvoiceReference{Month: inv.ReferenceMonth, Year: inv.ReferenceYear}
}

// AppendCharge links a new movement's value to the invoice.
// Only an open invoice accepts new movements.
func (inv *Invoice) AppendCharge(amount valueobject.Money) error {
	if inv.Status == InvoiceStatusPaga {
		return ErrInvoiceLocked
	}
	if inv.Status != InvoiceStatusAberta {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Invoice %04d-%02d is %s and does not accept new movements", inv.ReferenceYear, inv.ReferenceMonth, inv.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Charge amount must be positive")
	}
	inv.TotalValue = inv.TotalValue.Add(amount.Amount())
	inv.Touch()
	return nil
}

// AdjustTotal applies a signed correction when a linked movement is edited or
// removed. Allowed while the invoice is not settled; a closed invoice still
// accepts corrections to its existing movements.
func (inv *Invoice) AdjustTotal(delta decimal.Decimal) error {
	if inv.Status == InvoiceStatusPaga {
		return ErrInvoiceLocked
	}
	inv.TotalValue = inv.TotalValue.Add(delta)
	inv.Touch()
	return nil
}

// Close transitions ABERTA -> FECHADA
func (inv *Invoice) Close() error {
	if inv.Status != InvoiceStatusAberta {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot close invoice in %s status", inv.Status))
	}
	inv.Status = InvoiceStatusFechada
	inv.Touch()
	inv.AddDomainEvent(NewInvoiceClosedEvent(inv))
	return nil
}

// RegisterPayment accumulates a settlement payment. Returns true when the
// payment settles the invoice in full. Overpayment is accepted and recorded;
// no credit balance is derived from it.
func (inv *Invoice) RegisterPayment(amount valueobject.Money, paidAt time.Time) (bool, error) {
	if inv.Status == InvoiceStatusPaga {
		return false, ErrInvoiceLocked
	}
	if !amount.IsPositive() {
		return false, shared.NewDomainError("VALIDATION_ERROR", "Payment amount must be positive")
	}

	inv.PaidValue = inv.PaidValue.Add(amount.Amount())

	settled := inv.PaidValue.GreaterThanOrEqual(inv.TotalValue)
	if settled {
		inv.Status = InvoiceStatusPaga
		inv.PaidAt = &paidAt
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	} else {
		inv.AddDomainEvent(NewInvoicePartiallyPaidEvent(inv, amount.Amount()))
	}
	inv.Touch()
	return settled, nil
}

// DetachSettledCharge removes a deleted movement's value from a settled
// invoice's historical total. The settlement state and the already released
// card limit stay untouched; callers opt into this through an explicit
// override.
func (inv *Invoice) DetachSettledCharge(amount decimal.Decimal) error {
	if inv.Status != InvoiceStatusPaga {
		return shared.NewDomainError("INVALID_STATE", "Only settled invoices take detach corrections")
	}
	inv.TotalValue = inv.TotalValue.Sub(amount)
	inv.Touch()
	return nil
}

// SetSettlementAccount records the default account used to settle the invoice
func (inv *Invoice) SetSettlementAccount(accountID uuid.UUID) {
	inv.SettlementAccountID = &accountID
	inv.Touch()
}

// Remaining returns the outstanding balance (never negative)
func (inv *Invoice) Remaining() decimal.Decimal {
	r := inv.TotalValue.Sub(inv.PaidValue)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// GetTotalValueMoney returns the total as Money
func (inv *Invoice) GetTotalValueMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(inv.TotalValue)
}

// EffectiveStatus derives the externally visible status. ATRASADA is never
// stored: it is recomputed on every read from the due date and the
// outstanding balance.
func (inv *Invoice) EffectiveStatus(today time.Time) InvoiceStatus {
	if inv.Status == InvoiceStatusPaga {
		return InvoiceStatusPaga
	}
	if inv.DueDate.Before(today) && inv.PaidValue.LessThan(inv.TotalValue) {
		return InvoiceStatusAtrasada
	}
	return inv.Status
}

// IsOverdue returns true if the invoice is past due with an outstanding
// balance
func (inv *Invoice) IsOverdue(today time.Time) bool {
	return inv.EffectiveStatus(today) == InvoiceStatusAtrasada
}
