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

// CardService provides application-level credit card operations
type CardService struct {
	cardRepo       ledger.CardRepository
	accountRepo    ledger.AccountRepository
	invoiceRepo    ledger.InvoiceRepository
	eventPublisher shared.EventPublisher
}

// NewCardService creates a new CardService
func NewCardService(cardRepo ledger.CardRepository, accountRepo ledger.AccountRepository, invoiceRepo ledger.InvoiceRepository) *CardService {
	return &CardService{
		cardRepo:    cardRepo,
		accountRepo: accountRepo,
		invoiceRepo: invoiceRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CardService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CardService) publishEvents(ctx context.Context, card *ledger.Card) {
	if s.eventPublisher == nil {
		return
	}
	events := card.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	card.ClearDomainEvents()
}

// CardResponse represents a card in API responses. AvailableLimit is always
// derived from the credit limit and the utilization, never stored.
type CardResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	UtilizedLimit    decimal.Decimal `json:"utilized_limit"`
	AvailableLimit   decimal.Decimal `json:"available_limit"`
	ClosingDay       int             `json:"closing_day"`
	DueDay           int             `json:"due_day"`
	DefaultAccountID uuid.UUID       `json:"default_account_id"`
	Active           bool            `json:"active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// CreateCardRequest represents a request to create a card
type CreateCardRequest struct {
	Name             string          `json:"name" binding:"required"`
	CreditLimit      decimal.Decimal `json:"credit_limit" binding:"required"`
	ClosingDay       int             `json:"closing_day" binding:"required"`
	DueDay           int             `json:"due_day" binding:"required"`
	DefaultAccountID uuid.UUID       `json:"default_account_id" binding:"required"`
}

// UpdateCardRequest represents a request to update a card
type UpdateCardRequest struct {
	Name        string          `json:"name" binding:"required"`
	CreditLimit decimal.Decimal `json:"credit_limit" binding:"required"`
}

// CreateCard creates a new card after checking the default account exists
func (s *CardService) CreateCard(ctx context.Context, userID uuid.UUID, req CreateCardRequest) (*CardResponse, error) {
	if _, err := s.accountRepo.FindByIDForUser(ctx, userID, req.DefaultAccountID); err != nil {
		return nil, err
	}

	card, err := ledger.NewCard(userID, req.Name, valueobject.NewMoneyBRL(req.CreditLimit), req.ClosingDay, req.DueDay, req.DefaultAccountID)
	if err != nil {
		return nil, err
	}

	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to save card: %w", err)
	}
	s.publishEvents(ctx, card)

	return toCardResponse(card), nil
}

// GetCardByID gets a card by ID
func (s *CardService) GetCardByID(ctx context.Context, userID, id uuid.UUID) (*CardResponse, error) {
	card, err := s.cardRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toCardResponse(card), nil
}

// ListCards lists the user's cards
func (s *CardService) ListCards(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]CardResponse, error) {
	var cards []ledger.Card
	var err error
	if activeOnly {
		cards, err = s.cardRepo.FindActiveForUser(ctx, userID)
	} else {
		cards, err = s.cardRepo.FindAllForUser(ctx, userID, shared.DefaultFilter())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	responses := make([]CardResponse, len(cards))
	for i := range cards {
		responses[i] = *toCardResponse(&cards[i])
	}
	return responses, nil
}

// UpdateCard updates a card's name and limit
func (s *CardService) UpdateCard(ctx context.Context, userID, id uuid.UUID, req UpdateCardRequest) (*CardResponse, error) {
	card, err := s.cardRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := card.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := card.UpdateLimit(valueobject.NewMoneyBRL(req.CreditLimit)); err != nil {
		return nil, err
	}

	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to save card: %w", err)
	}

	return toCardResponse(card), nil
}

// ArchiveCard deactivates a card. Its invoices and movements stay intact.
func (s *CardService) ArchiveCard(ctx context.Context, userID, id uuid.UUID) error {
	card, err := s.cardRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := card.Archive(); err != nil {
		return err
	}

	if err := s.cardRepo.Save(ctx, card); err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}
	return nil
}

// ReconcileLimit rebuilds the card's utilization from the unsettled invoice
// totals and persists the correction if the incremental cache drifted.
func (s *CardService) ReconcileLimit(ctx context.Context, userID, id uuid.UUID) (*CardResponse, error) {
	card, err := s.cardRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	utilized, err := s.invoiceRepo.SumUnsettledTotals(ctx, userID, card.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum unsettled invoices: %w", err)
	}

	if !utilized.Equal(card.UtilizedLimit) {
		card.UtilizedLimit = utilized
		card.Touch()
		if err := s.cardRepo.Save(ctx, card); err != nil {
			return nil, fmt.Errorf("failed to save card: %w", err)
		}
	}

	return toCardResponse(card), nil
}

func toCardResponse(c *ledger.Card) *CardResponse {
	return &CardResponse{
		ID:               c.ID,
		Name:             c.Name,
		CreditLimit:      c.CreditLimit,
		UtilizedLimit:    c.UtilizedLimit,
		AvailableLimit:   c.AvailableLimit().Amount(),
		ClosingDay:       c.ClosingDay,
		DueDay:           c.DueDay,
		DefaultAccountID: c.DefaultAccountID,
		Active:           c.Active,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		Version:          c.Version,
	}
}
