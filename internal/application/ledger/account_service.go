package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/financas/backend/internal/domain/ledger"
	"github.com/financas/backend/internal/domain/shared"
	"github.com/financas/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountService provides application-level account operations
type AccountService struct {
	accountRepo    ledger.AccountRepository
	movementRepo   ledger.MovementRepository
	eventPublisher shared.EventPublisher
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo ledger.AccountRepository, movementRepo ledger.MovementRepository) *AccountService {
	return &AccountService{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AccountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *AccountService) publishEvents(ctx context.Context, account *ledger.Account) {
	if s.eventPublisher == nil {
		return
	}
	events := account.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Publish events (errors are logged by the event bus, not propagated)
	_ = s.eventPublisher.Publish(ctx, events...)
	account.ClearDomainEvents()
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Color          string          `json:"color"`
	Active         bool            `json:"active"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// CreateAccountRequest represents a request to create an account
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	Type           string          `json:"type" binding:"required"`
	Color          string          `json:"color"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// UpdateAccountRequest represents a request to update an account
type UpdateAccountRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

// CreateAccount creates a new account
func (s *AccountService) CreateAccount(ctx context.Context, userID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	account, err := ledger.NewAccount(userID, req.Name, ledger.AccountType(req.Type), req.Color, valueobject.NewMoneyBRL(req.InitialBalance))
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	s.publishEvents(ctx, account)

	return toAccountResponse(account), nil
}

// GetAccountByID gets an account by ID
func (s *AccountService) GetAccountByID(ctx context.Context, userID, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// ListAccounts lists the user's accounts
func (s *AccountService) ListAccounts(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]AccountResponse, error) {
	var accounts []ledger.Account
	var err error
	if activeOnly {
		accounts, err = s.accountRepo.FindActiveForUser(ctx, userID)
	} else {
		accounts, err = s.accountRepo.FindAllForUser(ctx, userID, shared.DefaultFilter())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = *toAccountResponse(&accounts[i])
	}
	return responses, nil
}

// UpdateAccount updates an account's display fields
func (s *AccountService) UpdateAccount(ctx context.Context, userID, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := account.Rename(req.Name, req.Color); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	return toAccountResponse(account), nil
}

// ArchiveAccount deactivates an account. Its movements and balance history
// stay queryable.
func (s *AccountService) ArchiveAccount(ctx context.Context, userID, id uuid.UUID) error {
	account, err := s.accountRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := account.Archive(); err != nil {
		return err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	s.publishEvents(ctx, account)
	return nil
}

// RecomputeBalance rebuilds the account's running balance from its movement
// history. The incremental cache can drift only through operational accidents
// (manual data fixes, partial restores); this endpoint reconciles it.
func (s *AccountService) RecomputeBalance(ctx context.Context, userID, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	farFuture := time.Now().AddDate(100, 0, 0)
	sum, err := s.movementRepo.SumSignedBefore(ctx, userID, farFuture, true, ledger.MovementQuery{AccountID: &account.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to sum movements: %w", err)
	}

	recomputed := account.InitialBalance.Add(sum)
	if !recomputed.Equal(account.CurrentBalance) {
		account.ApplyDelta(recomputed.Sub(account.CurrentBalance))
		if err := s.accountRepo.Save(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to save account: %w", err)
		}
		s.publishEvents(ctx, account)
	}

	return toAccountResponse(account), nil
}

func toAccountResponse(a *ledger.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Type:           a.Type.String(),
		Color:          a.Color,
		Active:         a.Active,
		InitialBalance: a.InitialBalance,
		CurrentBalance: a.CurrentBalance,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		Version:        a.Version,
	}
}
