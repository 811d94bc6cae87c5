package ledger

import (
	"github.com/financas/backend/internal/domain/shared"
	"github.com/financas/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Card is the aggregate root for a credit card.
// UtilizedLimit is an incrementally maintained cache equal to the sum of the
// totals of this card's invoices in {ABERTA, FECHADA, ATRASADA}. A fully paid
// invoice releases its total back to the limit. AvailableLimit is always
// derived, never stored, so the two cannot drift apart independently.
type Card struct {
	shared.UserAggregateRoot
	Name             string          `json:"name"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	ClosingDay       int             `json:"closing_day"`
	DueDay           int             `json:"due_day"`
	DefaultAccountID uuid.UUID       `json:"default_account_id"`
	Active           bool            `json:"active"`
	UtilizedLimit    decimal.Decimal `json:"utilized_limit"`
}

// NewCard creates a new card. Closing and due days are capped at 28 so every
// month of the year has the billing dates.
func NewCard(userID uuid.UUID, name string, creditLimit valueobject.Money, closingDay, dueDay int, defaultAccountID uuid.UUID) (*Card, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Card name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Card name cannot exceed 100 characters")
	}
	if !creditLimit.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Credit limit must be positive")
	}
	if closingDay < 1 || closingDay > 28 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Closing day must be between 1 and 28")
	}
	if dueDay < 1 || dueDay > 28 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Due day must be between 1 and 28")
	}
	if defaultAccountID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Card requires a default settlement account")
	}

	c := &Card{
		UserAggregateRoot: shared.NewUserAggregateRoot(userID),
		Name:              name,
		CreditLimit:       creditLimit.Amount(),
		ClosingDay:        closingDay,
		DueDay:            dueDay,
		DefaultAccountID:  defaultAccountID,
		Active:            true,
		UtilizedLimit:     decimal.Zero,
	}

	c.AddDomainEvent(NewCardCreatedEvent(c))

	return c, nil
}

// AddCharge consumes limit for a new card-funded movement
func (c *Card) AddCharge(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Charge amount must be positive")
	}
	c.UtilizedLimit = c.UtilizedLimit.Add(amount.Amount())
	c.Touch()
	return nil
}

// RemoveCharge releases limit when a card-funded movement is removed or its
// value shrinks
func (c *Card) RemoveCharge(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Charge amount must be positive")
	}
	c.UtilizedLimit = c.UtilizedLimit.Sub(amount.Amount())
	c.Touch()
	return nil
}

// ReleaseInvoice returns a fully settled invoice's total to the limit
func (c *Card) ReleaseInvoice(total valueobject.Money) {
	c.UtilizedLimit = c.UtilizedLimit.Sub(total.Amount())
	c.Touch()
	c.AddDomainEvent(NewCardLimitReleasedEvent(c, total.Amount()))
}

// AvailableLimit returns credit_limit minus utilized_limit
func (c *Card) AvailableLimit() valueobject.Money {
	return valueobject.NewMoneyBRL(c.CreditLimit.Sub(c.UtilizedLimit))
}

// GetUtilizedLimitMoney returns the utilized limit as Money
func (c *Card) GetUtilizedLimitMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(c.UtilizedLimit)
}

// UpdateLimit changes the credit limit; utilization is untouched
func (c *Card) UpdateLimit(creditLimit valueobject.Money) error {
	if !creditLimit.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Credit limit must be positive")
	}
	c.CreditLimit = creditLimit.Amount()
	c.Touch()
	return nil
}

// Rename updates the display name
func (c *Card) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Card name cannot be empty")
	}
	c.Name = name
	c.Touch()
	return nil
}

// Archive deactivates the card. Existing invoices and movements stay intact.
func (c *Card) Archive() error {
	if !c.Active {
		return shared.ErrInvalidState
	}
	c.Active = false
	c.Touch()
	return nil
}
