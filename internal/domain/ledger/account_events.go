package ledger

import (
	"github.com/financas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountCreatedEvent is raised when a new account is created
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	AccountID      uuid.UUID       `json:"account_id"`
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"account_type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// EventType returns the event type name
func (e *AccountCreatedEvent) EventType() string {
	return "AccountCreated"
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(a *Account) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AccountCreated", "Account", a.ID, a.UserID),
		AccountID:       a.ID,
		Name:            a.Name,
		AccountType:     a.Type,
		InitialBalance:  a.InitialBalance,
	}
}

// AccountBalanceChangedEvent is raised whenever a paid movement is applied to
// or reversed from the running balance
type AccountBalanceChangedEvent struct {
	shared.BaseDomainEvent
	AccountID  uuid.UUID       `json:"account_id"`
	Delta      decimal.Decimal `json:"delta"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// EventType returns the event type name
func (e *AccountBalanceChangedEvent) EventType() string {
	return "AccountBalanceChanged"
}

// NewAccountBalanceChangedEvent creates a new AccountBalanceChangedEvent
func NewAccountBalanceChangedEvent(a *Account, delta decimal.Decimal) *AccountBalanceChangedEvent {
	return &AccountBalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AccountBalanceChanged", "Account", a.ID, a.UserID),
		AccountID:       a.ID,
		Delta:           delta,
		NewBalance:      a.CurrentBalance,
	}
}

// AccountArchivedEvent is raised when an account is archived
type AccountArchivedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID `json:"account_id"`
	Name      string    `json:"name"`
}

// EventType returns the event type name
func (e *AccountArchivedEvent) EventType() string {
	return "AccountArchived"
}

// NewAccountArchivedEvent creates a new AccountArchivedEvent
func NewAccountArchivedEvent(a *Account) *AccountArchivedEvent {
	return &AccountArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AccountArchived", "Account", a.ID, a.UserID),
		AccountID:       a.ID,
		Name:            a.Name,
	}
}
