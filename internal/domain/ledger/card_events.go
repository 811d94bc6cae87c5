package ledger

import (
	"github.com/financas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CardCreatedEvent is raised when a new card is created
type CardCreatedEvent struct {
	shared.BaseDomainEvent
	CardID      uuid.UUID       `json:"card_id"`
	Name        string          `json:"name"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	ClosingDay  int             `json:"closing_day"`
	DueDay      int             `json:"due_day"`
}

// EventType returns the event type name
func (e *CardCreatedEvent) EventType() string {
	return "CardCreated"
}

// NewCardCreatedEvent creates a new CardCreatedEvent
func NewCardCreatedEvent(c *Card) *CardCreatedEvent {
	return &CardCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CardCreated", "Card", c.ID, c.UserID),
		CardID:          c.ID,
		Name:            c.Name,
		CreditLimit:     c.CreditLimit,
		ClosingDay:      c.ClosingDay,
		DueDay:          c.DueDay,
	}
}

// CardLimitReleasedEvent is raised when a settled invoice releases its total
// back to the card limit
type CardLimitReleasedEvent struct {
	shared.BaseDomainEvent
	CardID        uuid.UUID       `json:"card_id"`
	Released      decimal.Decimal `json:"released"`
	UtilizedLimit decimal.Decimal `json:"utilized_limit"`
}

// EventType returns the event type name
func (e *CardLimitReleasedEvent) EventType() string {
	return "CardLimitReleased"
}

// NewCardLimitReleasedEvent creates a new CardLimitReleasedEvent
func NewCardLimitReleasedEvent(c *Card, released decimal.Decimal) *CardLimitReleasedEvent {
	return &CardLimitReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CardLimitReleased", "Card", c.ID, c.UserID),
		CardID:          c.ID,
		Released:        released,
		UtilizedLimit:   c.UtilizedLimit,
	}
}
