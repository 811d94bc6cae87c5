package ledger

import (
	"github.com/financas/backend/internal/domain/shared"
	"github.com/financas/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType represents the kind of account
type AccountType string

const (
	AccountTypeChecking   AccountType = "CHECKING"   // Conta corrente
	AccountTypeSavings    AccountType = "SAVINGS"    // Poupança
	AccountTypeInvestment AccountType = "INVESTMENT" // Investimento
	AccountTypeCash       AccountType = "CASH"       // Dinheiro
)

// IsValid checks if the type is a valid AccountType
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeInvestment, AccountTypeCash:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// Account is the aggregate root for a bank/cash/investment account.
// CurrentBalance is an incrementally maintained cache: it always equals
// InitialBalance plus the signed sum of all paid movements funded by this
// account (including transfer legs). Unpaid movements never touch it.
type Account struct {
	shared.UserAggregateRoot
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	Color          string          `json:"color"`
	Active         bool            `json:"active"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// NewAccount creates a new account
func NewAccount(userID uuid.UUID, name string, accType AccountType, color string, initialBalance valueobject.Money) (*Account, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account name cannot exceed 100 characters")
	}
	if !accType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account type is not valid")
	}

	a := &Account{
		UserAggregateRoot: shared.NewUserAggregateRoot(userID),
		Name:              name,
		Type:              accType,
		Color:             color,
		Active:            true,
		InitialBalance:    initialBalance.Amount(),
		CurrentBalance:    initialBalance.Amount(),
	}

	a.AddDomainEvent(NewAccountCreatedEvent(a))

	return a, nil
}

// ApplyDelta adjusts the running balance by a signed amount.
// Called when a paid movement is applied (positive for receita / transfer in,
// negative for despesa / transfer out) or reversed with the opposite sign.
func (a *Account) ApplyDelta(delta decimal.Decimal) {
	a.CurrentBalance = a.CurrentBalance.Add(delta)
	a.Touch()
	a.AddDomainEvent(NewAccountBalanceChangedEvent(a, delta))
}

// Rename updates the display fields
func (a *Account) Rename(name, color string) error {
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Account name cannot be empty")
	}
	a.Name = name
	a.Color = color
	a.Touch()
	return nil
}

// Archive deactivates the account; its history stays intact
func (a *Account) Archive() error {
	if !a.Active {
		return shared.ErrInvalidState
	}
	a.Active = false
	a.Touch()
	a.AddDomainEvent(NewAccountArchivedEvent(a))
	return nil
}

// Activate reactivates an archived account
func (a *Account) Activate() {
	a.Active = true
	a.Touch()
}

// GetCurrentBalanceMoney returns the current balance as Money
func (a *Account) GetCurrentBalanceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(a.CurrentBalance)
}

// GetInitialBalanceMoney returns the initial balance as Money
func (a *Account) GetInitialBalanceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(a.InitialBalance)
}
