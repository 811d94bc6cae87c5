package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/financas/backend/internal/domain/ledger"
	"github.com/financas/backend/internal/domain/shared"
	"github.com/financas/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementService provides application-level movement operations. Every
// mutation that touches more than one aggregate (movement + account, or
// movement + invoice + card) runs inside a single transaction so a rejection
// on any side leaves all of them untouched.
type MovementService struct {
	movementRepo   ledger.MovementRepository
	accountRepo    ledger.AccountRepository
	cardRepo       ledger.CardRepository
	invoiceRepo    ledger.InvoiceRepository
	txManager      shared.TransactionManager
	eventPublisher shared.EventPublisher
}

// NewMovementService creates a new MovementService
func NewMovementService(
	movementRepo ledger.MovementRepository,
	accountRepo ledger.AccountRepository,
	cardRepo ledger.CardRepository,
	invoiceRepo ledger.InvoiceRepository,
	txManager shared.TransactionManager,
) *MovementService {
	return &MovementService{
		movementRepo: movementRepo,
		accountRepo:  accountRepo,
		cardRepo:     cardRepo,
		invoiceRepo:  invoiceRepo,
		txManager:    txManager,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *MovementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *MovementService) publishEvents(ctx context.Context, roots ...shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, root := range roots {
		events := root.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		// Publish events (errors are logged by the event bus, not propagated)
		_ = s.eventPublisher.Publish(ctx, events...)
		root.ClearDomainEvents()
	}
}

// MovementResponse represents a movement in API responses
type MovementResponse struct {
	ID                uuid.UUID       `json:"id"`
	Description       string          `json:"description"`
	Value             decimal.Decimal `json:"value"`
	Kind              string          `json:"kind"`
	TransferDirection string          `json:"transfer_direction,omitempty"`
	TransferGroupID   *uuid.UUID      `json:"transfer_group_id,omitempty"`
	CompetenceDate    time.Time       `json:"competence_date"`
	Paid              bool            `json:"paid"`
	CategoryID        *uuid.UUID      `json:"category_id,omitempty"`
	Observation       string          `json:"observation,omitempty"`
	AccountID         *uuid.UUID      `json:"account_id,omitempty"`
	CardID            *uuid.UUID      `json:"card_id,omitempty"`
	InvoiceID         *uuid.UUID      `json:"invoice_id,omitempty"`
	SeriesID          *uuid.UUID      `json:"series_id,omitempty"`
	SeriesKind        string          `json:"series_kind,omitempty"`
	InstallmentNumber int             `json:"installment_number,omitempty"`
	InstallmentCount  int             `json:"installment_count,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// CreateMovementRequest represents a request to create a single movement.
// Exactly one of AccountID or CardID must be set; card movements are linked
// to the invoice whose billing cycle covers the competence date.
type CreateMovementRequest struct {
	Description    string          `json:"description" binding:"required"`
	Value          decimal.Decimal `json:"value" binding:"required"`
	Kind           string          `json:"kind" binding:"required"`
	CompetenceDate time.Time       `json:"competence_date" binding:"required"`
	Paid           bool            `json:"paid"`
	CategoryID     *uuid.UUID      `json:"category_id"`
	Observation    string          `json:"observation"`
	AccountID      *uuid.UUID      `json:"account_id"`
	CardID         *uuid.UUID      `json:"card_id"`
}

// CreateTransferRequest represents a request to create a transfer between
// two accounts
type CreateTransferRequest struct {
	Description    string          `json:"description" binding:"required"`
	Value          decimal.Decimal `json:"value" binding:"required"`
	CompetenceDate time.Time       `json:"competence_date" binding:"required"`
	Paid           bool            `json:"paid"`
	FromAccountID  uuid.UUID       `json:"from_account_id" binding:"required"`
	ToAccountID    uuid.UUID       `json:"to_account_id" binding:"required"`
}

// UpdateMovementRequest carries the editable fields of a movement. Nil fields
// are left unchanged.
type UpdateMovementRequest struct {
	Description    *string          `json:"description"`
	Value          *decimal.Decimal `json:"value"`
	CompetenceDate *time.Time       `json:"competence_date"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	ClearCategory  bool             `json:"clear_category"`
	Observation    *string          `json:"observation"`
}

func (r UpdateMovementRequest) toPatch() ledger.MovementPatch {
	return ledger.MovementPatch{
		Description:    r.Description,
		Value:          r.Value,
		CompetenceDate: r.CompetenceDate,
		CategoryID:     r.CategoryID,
		ClearCategory:  r.ClearCategory,
		Observation:    r.Observation,
	}
}

// MovementListRequest narrows movement listings
type MovementListRequest struct {
	From       time.Time  `form:"from" binding:"required"`
	To         time.Time  `form:"to" binding:"required"`
	AccountID  *uuid.UUID `form:"account_id"`
	CardID     *uuid.UUID `form:"card_id"`
	CategoryID *uuid.UUID `form:"category_id"`
	Kind       *string    `form:"kind"`
	PaidOnly   bool       `form:"paid_only"`
}

// CreateMovement creates a single account- or card-funded movement and
// applies its effect to the funding aggregate
func (s *MovementService) CreateMovement(ctx context.Context, userID uuid.UUID, req CreateMovementRequest) (*MovementResponse, error) {
	hasAccount := req.AccountID != nil && *req.AccountID != uuid.Nil
	hasCard := req.CardID != nil && *req.CardID != uuid.Nil
	if hasAccount == hasCard {
		return nil, ledger.ErrFundingConflict
	}

	value := valueobject.NewMoneyBRL(req.Value)
	kind := ledger.MovementKind(req.Kind)

	var response *MovementResponse
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var movement *ledger.Movement
		var err error

		if hasAccount {
			movement, err = s.createAccountFunded(ctx, userID, req, value, kind)
		} else {
			movement, err = s.createCardFunded(ctx, userID, req, value, kind)
		}
		if err != nil {
			return err
		}

		if req.Observation != "" {
			movement.Observation = req.Observation
		}
		if err := s.movementRepo.Save(ctx, movement); err != nil {
			return fmt.Errorf("failed to save movement: %w", err)
		}
		s.publishEvents(ctx, movement)
		response = toMovementResponse(movement)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (s *MovementService) createAccountFunded(ctx context.Context, userID uuid.UUID, req CreateMovementRequest, value valueobject.Money, kind ledger.MovementKind) (*ledger.Movement, error) {
	account, err := s.accountRepo.FindByIDForUser(ctx, userID, *req.AccountID)
	if err != nil {
		return nil, err
	}

	movement, err := ledger.NewAccountMovement(userID, req.Description, value, kind, req.CompetenceDate, req.Paid, account.ID, req.CategoryID)
	if err != nil {
		return nil, err
	}

	if movement.Paid {
		account.ApplyDelta(movement.SignedValue())
		if err := s.accountRepo.Save(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to save account: %w", err)
		}
	}
	return movement, nil
}

func (s *MovementService) createCardFunded(ctx context.Context, userID uuid.UUID, req CreateMovementRequest, value valueobject.Money, kind ledger.MovementKind) (*ledger.Movement, error) {
	card, err := s.cardRepo.FindByIDForUser(ctx, userID, *req.CardID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.getOrCreateInvoice(ctx, userID, card, req.CompetenceDate)
	if err != nil {
		return nil, err
	}

	movement, err := ledger.NewCardMovement(userID, req.Description, value, kind, req.CompetenceDate, card.ID, invoice.ID, req.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := invoice.AppendCharge(value); err != nil {
		return nil, err
	}
	if err := card.AddCharge(value); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}
	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to save card: %w", err)
	}
	return movement, nil
}

// CreateTransfer creates the two legs of a transfer between accounts
func (s *MovementService) CreateTransfer(ctx context.Context, userID uuid.UUID, req CreateTransferRequest) ([]MovementResponse, error) {
	var responses []MovementResponse
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		from, err := s.accountRepo.FindByIDForUser(ctx, userID, req.FromAccountID)
		if err != nil {
			return err
		}
		to, err := s.accountRepo.FindByIDForUser(ctx, userID, req.ToAccountID)
		if err != nil {
			return err
		}

		out, in, err := ledger.NewTransferLegs(userID, req.Description, valueobject.NewMoneyBRL(req.Value), req.CompetenceDate, req.Paid, from.ID, to.ID)
		if err != nil {
			return err
		}

		if req.Paid {
			from.ApplyDelta(out.SignedValue())
			to.ApplyDelta(in.SignedValue())
			if err := s.accountRepo.Save(ctx, from); err != nil {
				return fmt.Errorf("failed to save source account: %w", err)
			}
			if err := s.accountRepo.Save(ctx, to); err != nil {
				return fmt.Errorf("failed to save destination account: %w", err)
			}
		}

		if err := s.movementRepo.Save(ctx, out); err != nil {
			return fmt.Errorf("failed to save transfer leg: %w", err)
		}
		if err := s.movementRepo.Save(ctx, in); err != nil {
			return fmt.Errorf("failed to save transfer leg: %w", err)
		}

		s.publishEvents(ctx, out, in)
		responses = []MovementResponse{*toMovementResponse(out), *toMovementResponse(in)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// GetMovementByID gets a movement by ID
func (s *MovementService) GetMovementByID(ctx context.Context, userID, id uuid.UUID) (*MovementResponse, error) {
	movement, err := s.movementRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toMovementResponse(movement), nil
}

// ListMovements lists movements within a competence period
func (s *MovementService) ListMovements(ctx context.Context, userID uuid.UUID, req MovementListRequest) ([]MovementResponse, error) {
	query := ledger.MovementQuery{
		AccountID:  req.AccountID,
		CardID:     req.CardID,
		CategoryID: req.CategoryID,
		PaidOnly:   req.PaidOnly,
	}
	if req.Kind != nil {
		kind := ledger.MovementKind(*req.Kind)
		if !kind.IsValid() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Movement kind is not valid")
		}
		query.Kind = &kind
	}

	movements, err := s.movementRepo.FindForPeriod(ctx, userID, req.From, req.To, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = *toMovementResponse(&movements[i])
	}
	return responses, nil
}

// UpdateMovement edits a single movement and recomputes the funding
// aggregates with the old and new values
func (s *MovementService) UpdateMovement(ctx context.Context, userID, id uuid.UUID, req UpdateMovementRequest) (*MovementResponse, error) {
	patch := req.toPatch()
	if patch.IsEmpty() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Update request changes nothing")
	}

	var response *MovementResponse
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		movement, err := s.movementRepo.FindByIDForUser(ctx, userID, id)
		if err != nil {
			return err
		}
		if movement.IsSeriesMember() {
			return ledger.ErrSeriesScopeRequired
		}
		if movement.IsCardFunded() {
			if err := s.ensureInvoiceEditable(ctx, userID, *movement.InvoiceID); err != nil {
				return err
			}
		}

		oldValue := movement.Value
		oldSigned := movement.SignedValue()
		oldInvoiceID := movement.InvoiceID

		if err := movement.ApplyPatch(patch); err != nil {
			return err
		}

		switch {
		case movement.IsAccountFunded():
			if movement.Paid {
				delta := movement.SignedValue().Sub(oldSigned)
				if !delta.IsZero() {
					account, err := s.accountRepo.FindByIDForUser(ctx, userID, *movement.AccountID)
					if err != nil {
						return err
					}
					account.ApplyDelta(delta)
					if err := s.accountRepo.Save(ctx, account); err != nil {
						return fmt.Errorf("failed to save account: %w", err)
					}
				}
			}
		case movement.IsCardFunded():
			if err := s.rebindCardCharge(ctx, userID, movement, oldValue, *oldInvoiceID); err != nil {
				return err
			}
		}

		if err := s.movementRepo.Save(ctx, movement); err != nil {
			return fmt.Errorf("failed to save movement: %w", err)
		}
		s.publishEvents(ctx, movement)
		response = toMovementResponse(movement)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ensureInvoiceEditable rejects edits to movements on a settled invoice
// before any aggregate mutates. A description-only change is as forbidden as
// a value change: settled history is immutable as a whole.
func (s *MovementService) ensureInvoiceEditable(ctx context.Context, userID, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status == ledger.InvoiceStatusPaga {
		return ledger.ErrInvoiceLocked
	}
	return nil
}

// rebindCardCharge moves an edited card movement's value to the right
// invoice. A competence change can shift the movement to another billing
// cycle; a value change adjusts the invoice total and the card utilization.
func (s *MovementService) rebindCardCharge(ctx context.Context, userID uuid.UUID, movement *ledger.Movement, oldValue decimal.Decimal, oldInvoiceID uuid.UUID) error {
	card, err := s.cardRepo.FindByIDForUser(ctx, userID, *movement.CardID)
	if err != nil {
		return err
	}

	oldInvoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, oldInvoiceID)
	if err != nil {
		return err
	}

	newRef := ledger.ReferenceForCompetence(movement.CompetenceDate, card.ClosingDay)
	sameInvoice := newRef == oldInvoice.Reference()

	if sameInvoice {
		delta := movement.Value.Sub(oldValue)
		if !delta.IsZero() {
			if err := oldInvoice.AdjustTotal(delta); err != nil {
				return err
			}
			if err := s.invoiceRepo.Save(ctx, oldInvoice); err != nil {
				return fmt.Errorf("failed to save invoice: %w", err)
			}
		}
	} else {
		if err := oldInvoice.AdjustTotal(oldValue.Neg()); err != nil {
			return err
		}
		newInvoice, err := s.getOrCreateInvoice(ctx, userID, card, movement.CompetenceDate)
		if err != nil {
			return err
		}
		if err := newInvoice.AppendCharge(valueobject.NewMoneyBRL(movement.Value)); err != nil {
			return err
		}
		if err := movement.SetCardFunding(card.ID, newInvoice.ID); err != nil {
			return err
		}
		if err := s.invoiceRepo.Save(ctx, oldInvoice); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}
		if err := s.invoiceRepo.Save(ctx, newInvoice); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}
	}

	limitDelta := movement.Value.Sub(oldValue)
	if !limitDelta.IsZero() {
		if limitDelta.IsPositive() {
			err = card.AddCharge(valueobject.NewMoneyBRL(limitDelta))
		} else {
			err = card.RemoveCharge(valueobject.NewMoneyBRL(limitDelta.Neg()))
		}
		if err != nil {
			return err
		}
		if err := s.cardRepo.Save(ctx, card); err != nil {
			return fmt.Errorf("failed to save card: %w", err)
		}
	}
	return nil
}

// DeleteMovement removes a movement after reversing its effect on the
// funding aggregate. Deleting one transfer leg removes both. A movement on a
// settled invoice is only removed under an explicit override.
func (s *MovementService) DeleteMovement(ctx context.Context, userID, id uuid.UUID, override bool) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		movement, err := s.movementRepo.FindByIDForUser(ctx, userID, id)
		if err != nil {
			return err
		}
		if movement.IsSeriesMember() {
			return ledger.ErrSeriesScopeRequired
		}

		if movement.IsTransfer() && movement.TransferGroupID != nil {
			return s.deleteTransferGroup(ctx, userID, *movement.TransferGroupID)
		}
		return s.deleteSingle(ctx, userID, movement, override)
	})
}

func (s *MovementService) deleteSingle(ctx context.Context, userID uuid.UUID, movement *ledger.Movement, override bool) error {
	if err := s.reverseFunding(ctx, userID, movement, override); err != nil {
		return err
	}

	movement.Retire()
	if err := s.movementRepo.Delete(ctx, movement.ID); err != nil {
		return fmt.Errorf("failed to delete movement: %w", err)
	}
	s.publishEvents(ctx, movement)
	return nil
}

func (s *MovementService) deleteTransferGroup(ctx context.Context, userID, groupID uuid.UUID) error {
	legs, err := s.movementRepo.FindByTransferGroup(ctx, userID, groupID)
	if err != nil {
		return err
	}
	for i := range legs {
		if err := s.deleteSingle(ctx, userID, &legs[i], false); err != nil {
			return err
		}
	}
	return nil
}

// reverseFunding undoes a movement's effect on its funding aggregate before
// it is removed or detached. For a movement on a settled invoice the override
// detaches the value from the invoice's historical total; the card limit
// stays untouched because settlement already released it.
func (s *MovementService) reverseFunding(ctx context.Context, userID uuid.UUID, movement *ledger.Movement, override bool) error {
	switch {
	case movement.IsAccountFunded():
		if !movement.Paid {
			return nil
		}
		account, err := s.accountRepo.FindByIDForUser(ctx, userID, *movement.AccountID)
		if err != nil {
			return err
		}
		account.ApplyDelta(movement.SignedValue().Neg())
		if err := s.accountRepo.Save(ctx, account); err != nil {
			return fmt.Errorf("failed to save account: %w", err)
		}
	case movement.IsCardFunded():
		invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, *movement.InvoiceID)
		if err != nil {
			return err
		}
		if invoice.Status == ledger.InvoiceStatusPaga {
			if !override {
				return ledger.ErrInvoiceLocked
			}
			if err := invoice.DetachSettledCharge(movement.Value); err != nil {
				return err
			}
			if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
				return fmt.Errorf("failed to save invoice: %w", err)
			}
			return nil
		}
		if err := invoice.AdjustTotal(movement.Value.Neg()); err != nil {
			return err
		}
		card, err := s.cardRepo.FindByIDForUser(ctx, userID, *movement.CardID)
		if err != nil {
			return err
		}
		if err := card.RemoveCharge(movement.GetValueMoney()); err != nil {
			return err
		}
		if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}
		if err := s.cardRepo.Save(ctx, card); err != nil {
			return fmt.Errorf("failed to save card: %w", err)
		}
	}
	return nil
}

// TogglePaid flips an account-funded movement's paid flag and applies or
// reverses its effect on the account balance. Toggling one transfer leg
// toggles its counterpart too: a transfer is never half-paid.
func (s *MovementService) TogglePaid(ctx context.Context, userID, id uuid.UUID) (*MovementResponse, error) {
	var response *MovementResponse
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		movement, err := s.movementRepo.FindByIDForUser(ctx, userID, id)
		if err != nil {
			return err
		}

		if movement.IsTransfer() && movement.TransferGroupID != nil {
			response, err = s.toggleTransferPair(ctx, userID, movement)
			return err
		}

		response, err = s.togglePaidSingle(ctx, userID, movement)
		return err
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (s *MovementService) togglePaidSingle(ctx context.Context, userID uuid.UUID, movement *ledger.Movement) (*MovementResponse, error) {
	if err := movement.TogglePaid(); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindByIDForUser(ctx, userID, *movement.AccountID)
	if err != nil {
		return nil, err
	}
	delta := movement.SignedValue()
	if !movement.Paid {
		delta = delta.Neg()
	}
	account.ApplyDelta(delta)

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	if err := s.movementRepo.Save(ctx, movement); err != nil {
		return nil, fmt.Errorf("failed to save movement: %w", err)
	}
	s.publishEvents(ctx, movement, account)
	return toMovementResponse(movement), nil
}

func (s *MovementService) toggleTransferPair(ctx context.Context, userID uuid.UUID, target *ledger.Movement) (*MovementResponse, error) {
	legs, err := s.movementRepo.FindByTransferGroup(ctx, userID, *target.TransferGroupID)
	if err != nil {
		return nil, err
	}

	var response *MovementResponse
	for i := range legs {
		leg := &legs[i]
		resp, err := s.togglePaidSingle(ctx, userID, leg)
		if err != nil {
			return nil, err
		}
		if leg.ID == target.ID {
			response = resp
		}
	}
	if response == nil {
		return nil, shared.ErrNotFound
	}
	return response, nil
}

// getOrCreateInvoice resolves the invoice whose billing cycle covers the
// competence date, opening it if it does not exist yet
func (s *MovementService) getOrCreateInvoice(ctx context.Context, userID uuid.UUID, card *ledger.Card, competence time.Time) (*ledger.Invoice, error) {
	ref := ledger.ReferenceForCompetence(competence, card.ClosingDay)

	invoice, err := s.invoiceRepo.FindByCardAndReference(ctx, userID, card.ID, ref)
	if err == nil {
		return invoice, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	invoice, err = ledger.NewInvoice(userID, card.ID, ref, ledger.ClosingDateFor(ref, card.ClosingDay), ledger.DueDateFor(ref, card.ClosingDay, card.DueDay))
	if err != nil {
		return nil, err
	}
	invoice.SetSettlementAccount(card.DefaultAccountID)

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}
	return invoice, nil
}

func toMovementResponse(m *ledger.Movement) *MovementResponse {
	return &MovementResponse{
		ID:                m.ID,
		Description:       m.Description,
		Value:             m.Value,
		Kind:              m.Kind.String(),
		TransferDirection: string(m.TransferDirection),
		TransferGroupID:   m.TransferGroupID,
		CompetenceDate:    m.CompetenceDate,
		Paid:              m.Paid,
		CategoryID:        m.CategoryID,
		Observation:       m.Observation,
		AccountID:         m.AccountID,
		CardID:            m.CardID,
		InvoiceID:         m.InvoiceID,
		SeriesID:          m.SeriesID,
		SeriesKind:        m.SeriesKind.String(),
		InstallmentNumber: m.InstallmentNumber,
		InstallmentCount:  m.InstallmentCount,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
		Version:           m.Version,
	}
}
