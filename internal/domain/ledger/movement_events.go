package ledger

import (
	"time"

	"github.com/financas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementCreatedEvent is raised when a movement is created
type MovementCreatedEvent struct {
	shared.BaseDomainEvent
	MovementID     uuid.UUID       `json:"movement_id"`
	Description    string          `json:"description"`
	Value          decimal.Decimal `json:"value"`
	Kind           MovementKind    `json:"kind"`
	CompetenceDate time.Time       `json:"competence_date"`
	Paid           bool            `json:"paid"`
	AccountID      *uuid.UUID      `json:"account_id,omitempty"`
	CardID         *uuid.UUID      `json:"card_id,omitempty"`
	InvoiceID      *uuid.UUID      `json:"invoice_id,omitempty"`
	SeriesID       *uuid.UUID      `json:"series_id,omitempty"`
}

// EventType returns the event type name
func (e *MovementCreatedEvent) EventType() string {
	return "MovementCreated"
}

// NewMovementCreatedEvent creates a new MovementCreatedEvent
func NewMovementCreatedEvent(m *Movement) *MovementCreatedEvent {
	return &MovementCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MovementCreated", "Movement", m.ID, m.UserID),
		MovementID:      m.ID,
		Description:     m.Description,
		Value:           m.Value,
		Kind:            m.Kind,
		CompetenceDate:  m.CompetenceDate,
		Paid:            m.Paid,
		AccountID:       m.AccountID,
		CardID:          m.CardID,
		InvoiceID:       m.InvoiceID,
		SeriesID:        m.SeriesID,
	}
}

// MovementUpdatedEvent is raised after a patch is applied
type MovementUpdatedEvent struct {
	shared.BaseDomainEvent
	MovementID     uuid.UUID       `json:"movement_id"`
	Value          decimal.Decimal `json:"value"`
	CompetenceDate time.Time       `json:"competence_date"`
}

// EventType returns the event type name
func (e *MovementUpdatedEvent) EventType() string {
	return "MovementUpdated"
}

// NewMovementUpdatedEvent creates a new MovementUpdatedEvent
func NewMovementUpdatedEvent(m *Movement) *MovementUpdatedEvent {
	return &MovementUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MovementUpdated", "Movement", m.ID, m.UserID),
		MovementID:      m.ID,
		Value:           m.Value,
		CompetenceDate:  m.CompetenceDate,
	}
}

// MovementDeletedEvent is raised when a movement is retired
type MovementDeletedEvent struct {
	shared.BaseDomainEvent
	MovementID uuid.UUID       `json:"movement_id"`
	Value      decimal.Decimal `json:"value"`
	Kind       MovementKind    `json:"kind"`
	AccountID  *uuid.UUID      `json:"account_id,omitempty"`
	InvoiceID  *uuid.UUID      `json:"invoice_id,omitempty"`
}

// EventType returns the event type name
func (e *MovementDeletedEvent) EventType() string {
	return "MovementDeleted"
}

// NewMovementDeletedEvent creates a new MovementDeletedEvent
func NewMovementDeletedEvent(m *Movement) *MovementDeletedEvent {
	return &MovementDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MovementDeleted", "Movement", m.ID, m.UserID),
		MovementID:      m.ID,
		Value:           m.Value,
		Kind:            m.Kind,
		AccountID:       m.AccountID,
		InvoiceID:       m.InvoiceID,
	}
}

// MovementPaidToggledEvent is raised when an account movement's paid flag
// flips
type MovementPaidToggledEvent struct {
	shared.BaseDomainEvent
	MovementID uuid.UUID `json:"movement_id"`
	Paid       bool      `json:"paid"`
}

// EventType returns the event type name
func (e *MovementPaidToggledEvent) EventType() string {
	return "MovementPaidToggled"
}

// NewMovementPaidToggledEvent creates a new MovementPaidToggledEvent
func NewMovementPaidToggledEvent(m *Movement) *MovementPaidToggledEvent {
	return &MovementPaidToggledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MovementPaidToggled", "Movement", m.ID, m.UserID),
		MovementID:      m.ID,
		Paid:            m.Paid,
	}
}
