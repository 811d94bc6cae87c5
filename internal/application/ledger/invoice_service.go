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

// InvoiceService provides application-level invoice operations
type InvoiceService struct {
	invoiceRepo    ledger.InvoiceRepository
	cardRepo       ledger.CardRepository
	accountRepo    ledger.AccountRepository
	movementRepo   ledger.MovementRepository
	txManager      shared.TransactionManager
	eventPublisher shared.EventPublisher
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo ledger.InvoiceRepository,
	cardRepo ledger.CardRepository,
	accountRepo ledger.AccountRepository,
	movementRepo ledger.MovementRepository,
	txManager shared.TransactionManager,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		cardRepo:     cardRepo,
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		txManager:    txManager,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *InvoiceService) publishEvents(ctx context.Context, roots ...shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, root := range roots {
		events := root.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = s.eventPublisher.Publish(ctx, events...)
		root.ClearDomainEvents()
	}
}

// InvoiceResponse represents an invoice in API responses. Status is the
// effective status: ATRASADA is derived from the due date on every read,
// never stored.
type InvoiceResponse struct {
	ID                  uuid.UUID       `json:"id"`
	CardID              uuid.UUID       `json:"card_id"`
	ReferenceMonth      int             `json:"reference_month"`
	ReferenceYear       int             `json:"reference_year"`
	ClosingDate         time.Time       `json:"closing_date"`
	DueDate             time.Time       `json:"due_date"`
	Status              string          `json:"status"`
	TotalValue          decimal.Decimal `json:"total_value"`
	PaidValue           decimal.Decimal `json:"paid_value"`
	Remaining           decimal.Decimal `json:"remaining"`
	SettlementAccountID *uuid.UUID      `json:"settlement_account_id,omitempty"`
	PaidAt              *time.Time      `json:"paid_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Version             int             `json:"version"`
}

// PayInvoiceRequest represents a request to pay an invoice. Amount defaults
// to the outstanding balance; AccountID defaults to the invoice's settlement
// account and then to the card's default account.
type PayInvoiceRequest struct {
	Amount    *decimal.Decimal `json:"amount"`
	AccountID *uuid.UUID       `json:"account_id"`
	PaidAt    *time.Time       `json:"paid_at"`
}

// PayInvoiceResponse bundles the updated invoice with the settlement
// movement the payment created
type PayInvoiceResponse struct {
	Invoice  InvoiceResponse  `json:"invoice"`
	Movement MovementResponse `json:"movement"`
	Settled  bool             `json:"settled"`
}

// GetInvoiceByID gets an invoice by ID
func (s *InvoiceService) GetInvoiceByID(ctx context.Context, userID, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice, time.Now()), nil
}

// ListInvoicesByCard lists a card's invoices, newest reference first
func (s *InvoiceService) ListInvoicesByCard(ctx context.Context, userID, cardID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindByCard(ctx, userID, cardID, shared.DefaultFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	now := time.Now()
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = *toInvoiceResponse(&invoices[i], now)
	}
	return responses, nil
}

// GetInvoiceMovements lists the movements linked to an invoice
func (s *InvoiceService) GetInvoiceMovements(ctx context.Context, userID, id uuid.UUID) ([]MovementResponse, error) {
	if _, err := s.invoiceRepo.FindByIDForUser(ctx, userID, id); err != nil {
		return nil, err
	}

	movements, err := s.movementRepo.FindByInvoice(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice movements: %w", err)
	}

	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = *toMovementResponse(&movements[i])
	}
	return responses, nil
}

// CloseInvoice transitions an open invoice to FECHADA
func (s *InvoiceService) CloseInvoice(ctx context.Context, userID, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := invoice.Close(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}
	s.publishEvents(ctx, invoice)
	return toInvoiceResponse(invoice, time.Now()), nil
}

// PayInvoice registers a settlement payment. The payment debits the paying
// account through a paid outgoing transfer movement, keeping the spending
// categorized only on the card movements; when it settles the invoice in
// full the card's limit is released by the invoice total.
func (s *InvoiceService) PayInvoice(ctx context.Context, userID, id uuid.UUID, req PayInvoiceRequest) (*PayInvoiceResponse, error) {
	var response *PayInvoiceResponse
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, id)
		if err != nil {
			return err
		}

		card, err := s.cardRepo.FindByIDForUser(ctx, userID, invoice.CardID)
		if err != nil {
			return err
		}

		amount := invoice.Remaining()
		if req.Amount != nil {
			amount = *req.Amount
		}
		if !amount.IsPositive() {
			return shared.NewDomainError("VALIDATION_ERROR", "Payment amount must be positive")
		}

		accountID := card.DefaultAccountID
		if invoice.SettlementAccountID != nil {
			accountID = *invoice.SettlementAccountID
		}
		if req.AccountID != nil {
			accountID = *req.AccountID
		}

		account, err := s.accountRepo.FindByIDForUser(ctx, userID, accountID)
		if err != nil {
			return err
		}

		paidAt := time.Now()
		if req.PaidAt != nil {
			paidAt = *req.PaidAt
		}

		settled, err := invoice.RegisterPayment(valueobject.NewMoneyBRL(amount), paidAt)
		if err != nil {
			return err
		}

		description := fmt.Sprintf("Pagamento fatura %s %04d-%02d", card.Name, invoice.ReferenceYear, invoice.ReferenceMonth)
		movement, err := ledger.NewSettlementMovement(userID, description, valueobject.NewMoneyBRL(amount), paidAt, account.ID)
		if err != nil {
			return err
		}
		account.ApplyDelta(movement.SignedValue())

		if settled {
			card.ReleaseInvoice(invoice.GetTotalValueMoney())
			if err := s.cardRepo.Save(ctx, card); err != nil {
				return fmt.Errorf("failed to save card: %w", err)
			}
		}

		if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}
		if err := s.accountRepo.Save(ctx, account); err != nil {
			return fmt.Errorf("failed to save account: %w", err)
		}
		if err := s.movementRepo.Save(ctx, movement); err != nil {
			return fmt.Errorf("failed to save movement: %w", err)
		}

		s.publishEvents(ctx, invoice, card, account, movement)

		response = &PayInvoiceResponse{
			Invoice:  *toInvoiceResponse(invoice, paidAt),
			Movement: *toMovementResponse(movement),
			Settled:  settled,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

func toInvoiceResponse(inv *ledger.Invoice, today time.Time) *InvoiceResponse {
	return &InvoiceResponse{
		ID:                  inv.ID,
		CardID:              inv.CardID,
		ReferenceMonth:      inv.ReferenceMonth,
		ReferenceYear:       inv.ReferenceYear,
		ClosingDate:         inv.ClosingDate,
		DueDate:             inv.DueDate,
		Status:              inv.EffectiveStatus(today).String(),
		TotalValue:          inv.TotalValue,
		PaidValue:           inv.PaidValue,
		Remaining:           inv.Remaining(),
		SettlementAccountID: inv.SettlementAccountID,
		PaidAt:              inv.PaidAt,
		CreatedAt:           inv.CreatedAt,
		UpdatedAt:           inv.UpdatedAt,
		Version:             inv.Version,
	}
}
