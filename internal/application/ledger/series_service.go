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

const (
	defaultRecurringOccurrences = 12
	maxRecurringOccurrences     = 60
	maxInstallments             = 72
)

// SeriesService provides recurring and installment series operations. It
// builds on MovementService for the per-movement funding bookkeeping so that
// single and scoped mutations share one implementation.
type SeriesService struct {
	movements *MovementService
}

// NewSeriesService creates a new SeriesService
func NewSeriesService(movements *MovementService) *SeriesService {
	return &SeriesService{movements: movements}
}

// CreateRecurringRequest represents a request to create a recurring series.
// Paid applies to the first occurrence only; later occurrences are always
// created as projections.
type CreateRecurringRequest struct {
	Description    string          `json:"description" binding:"required"`
	Value          decimal.Decimal `json:"value" binding:"required"`
	Kind           string          `json:"kind" binding:"required"`
	CompetenceDate time.Time       `json:"competence_date" binding:"required"`
	Paid           bool            `json:"paid"`
	CategoryID     *uuid.UUID      `json:"category_id"`
	AccountID      *uuid.UUID      `json:"account_id"`
	CardID         *uuid.UUID      `json:"card_id"`
	Occurrences    int             `json:"occurrences"`
}

// CreateInstallmentsRequest represents a request to create an installment
// purchase. The total is split across the parcels with the cent remainder on
// the earliest ones; each parcel lands on its own monthly invoice.
type CreateInstallmentsRequest struct {
	Description    string          `json:"description" binding:"required"`
	TotalValue     decimal.Decimal `json:"total_value" binding:"required"`
	CompetenceDate time.Time       `json:"competence_date" binding:"required"`
	CategoryID     *uuid.UUID      `json:"category_id"`
	CardID         uuid.UUID       `json:"card_id" binding:"required"`
	Installments   int             `json:"installments" binding:"required"`
}

// ScopedUpdateRequest applies an edit to one series member and, depending on
// the scope, to its siblings
type ScopedUpdateRequest struct {
	UpdateMovementRequest
	Scope string `json:"scope" binding:"required"`
}

// CreateRecurring creates the occurrences of a recurring series, one per
// month starting at the competence date
func (s *SeriesService) CreateRecurring(ctx context.Context, userID uuid.UUID, req CreateRecurringRequest) ([]MovementResponse, error) {
	occurrences := req.Occurrences
	if occurrences == 0 {
		occurrences = defaultRecurringOccurrences
	}
	if occurrences < 2 || occurrences > maxRecurringOccurrences {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Recurring occurrences must be between 2 and %d", maxRecurringOccurrences))
	}

	seriesID := uuid.New()
	var responses []MovementResponse

	err := s.movements.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		responses = make([]MovementResponse, 0, occurrences)
		for i := 0; i < occurrences; i++ {
			single := CreateMovementRequest{
				Description:    req.Description,
				Value:          req.Value,
				Kind:           req.Kind,
				CompetenceDate: req.CompetenceDate.AddDate(0, i, 0),
				Paid:           req.Paid && i == 0,
				CategoryID:     req.CategoryID,
				AccountID:      req.AccountID,
				CardID:         req.CardID,
			}

			movement, err := s.createOccurrence(ctx, userID, single)
			if err != nil {
				return err
			}
			if err := movement.AttachToSeries(seriesID, ledger.SeriesKindRecorrente); err != nil {
				return err
			}
			if err := s.movements.movementRepo.Save(ctx, movement); err != nil {
				return fmt.Errorf("failed to save movement: %w", err)
			}
			responses = append(responses, *toMovementResponse(movement))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// CreateInstallments creates the parcels of an installment purchase on a card
func (s *SeriesService) CreateInstallments(ctx context.Context, userID uuid.UUID, req CreateInstallmentsRequest) ([]MovementResponse, error) {
	if req.Installments < 2 || req.Installments > maxInstallments {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Installments must be between 2 and %d", maxInstallments))
	}
	total := valueobject.NewMoneyBRL(req.TotalValue)
	if !total.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Installment total must be positive")
	}

	parts, err := total.Allocate(req.Installments)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	seriesID := uuid.New()
	var responses []MovementResponse

	err = s.movements.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		responses = make([]MovementResponse, 0, req.Installments)
		for i, part := range parts {
			single := CreateMovementRequest{
				Description:    req.Description,
				Value:          part.Amount(),
				Kind:           ledger.MovementKindDespesa.String(),
				CompetenceDate: req.CompetenceDate.AddDate(0, i, 0),
				CategoryID:     req.CategoryID,
				CardID:         &req.CardID,
			}

			movement, err := s.createOccurrence(ctx, userID, single)
			if err != nil {
				return err
			}
			if err := movement.AttachToSeries(seriesID, ledger.SeriesKindParcelada); err != nil {
				return err
			}
			if err := movement.SetInstallment(i+1, req.Installments); err != nil {
				return err
			}
			if err := s.movements.movementRepo.Save(ctx, movement); err != nil {
				return fmt.Errorf("failed to save movement: %w", err)
			}
			responses = append(responses, *toMovementResponse(movement))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (s *SeriesService) createOccurrence(ctx context.Context, userID uuid.UUID, req CreateMovementRequest) (*ledger.Movement, error) {
	value := valueobject.NewMoneyBRL(req.Value)
	kind := ledger.MovementKind(req.Kind)

	if req.CardID != nil && *req.CardID != uuid.Nil {
		return s.movements.createCardFunded(ctx, userID, req, value, kind)
	}
	if req.AccountID != nil && *req.AccountID != uuid.Nil {
		return s.movements.createAccountFunded(ctx, userID, req, value, kind)
	}
	return nil, ledger.ErrFundingConflict
}

// UpdateScoped edits the series members selected by the scope. A competence
// change under FUTUROS or TODOS shifts every selected member by the same
// offset, keeping the series cadence.
func (s *SeriesService) UpdateScoped(ctx context.Context, userID, id uuid.UUID, req ScopedUpdateRequest) ([]MovementResponse, error) {
	scope := ledger.Scope(req.Scope)
	patch := req.toPatch()
	if patch.IsEmpty() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Update request changes nothing")
	}

	var responses []MovementResponse
	err := s.movements.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		target, members, err := s.loadSeries(ctx, userID, id)
		if err != nil {
			return err
		}

		// Installment membership and parcel count are immutable; the fields
		// themselves stay editable, one parcel at a time.
		if target.IsInstallment() && scope != ledger.ScopeAtual {
			return ledger.ErrScopeConflict
		}

		selected, err := ledger.SelectByScope(members, target, scope)
		if err != nil {
			return err
		}

		var dateOffset time.Duration
		if patch.CompetenceDate != nil {
			dateOffset = patch.CompetenceDate.Sub(target.CompetenceDate)
		}

		responses = make([]MovementResponse, 0, len(selected))
		for i := range selected {
			member := &selected[i]

			memberPatch := patch
			if patch.CompetenceDate != nil && member.ID != target.ID {
				shifted := member.CompetenceDate.Add(dateOffset)
				memberPatch.CompetenceDate = &shifted
			}

			updated, err := s.applyToMember(ctx, userID, member, memberPatch)
			if err != nil {
				return err
			}
			responses = append(responses, *toMovementResponse(updated))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// DeleteScoped removes the series members selected by the scope, reversing
// each one's funding effect first
func (s *SeriesService) DeleteScoped(ctx context.Context, userID, id uuid.UUID, scope ledger.Scope) error {
	return s.movements.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		target, members, err := s.loadSeries(ctx, userID, id)
		if err != nil {
			return err
		}

		selected, err := ledger.SelectByScope(members, target, scope)
		if err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(selected))
		for i := range selected {
			if err := s.movements.reverseFunding(ctx, userID, &selected[i], false); err != nil {
				return err
			}
			selected[i].Retire()
			ids = append(ids, selected[i].ID)
		}

		if err := s.movements.movementRepo.DeleteMany(ctx, userID, ids); err != nil {
			return fmt.Errorf("failed to delete movements: %w", err)
		}
		return nil
	})
}

func (s *SeriesService) loadSeries(ctx context.Context, userID, id uuid.UUID) (*ledger.Movement, []ledger.Movement, error) {
	target, err := s.movements.movementRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	if !target.IsSeriesMember() {
		return nil, nil, ledger.ErrScopeConflict
	}

	members, err := s.movements.movementRepo.FindBySeries(ctx, userID, *target.SeriesID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load series: %w", err)
	}
	return target, members, nil
}

func (s *SeriesService) applyToMember(ctx context.Context, userID uuid.UUID, member *ledger.Movement, patch ledger.MovementPatch) (*ledger.Movement, error) {
	if member.IsCardFunded() {
		if err := s.movements.ensureInvoiceEditable(ctx, userID, *member.InvoiceID); err != nil {
			return nil, err
		}
	}

	oldValue := member.Value
	oldSigned := member.SignedValue()
	oldInvoiceID := member.InvoiceID

	if err := member.ApplyPatch(patch); err != nil {
		return nil, err
	}

	switch {
	case member.IsAccountFunded():
		if member.Paid {
			delta := member.SignedValue().Sub(oldSigned)
			if !delta.IsZero() {
				account, err := s.movements.accountRepo.FindByIDForUser(ctx, userID, *member.AccountID)
				if err != nil {
					return nil, err
				}
				account.ApplyDelta(delta)
				if err := s.movements.accountRepo.Save(ctx, account); err != nil {
					return nil, fmt.Errorf("failed to save account: %w", err)
				}
			}
		}
	case member.IsCardFunded():
		if err := s.movements.rebindCardCharge(ctx, userID, member, oldValue, *oldInvoiceID); err != nil {
			return nil, err
		}
	}

	if err := s.movements.movementRepo.Save(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to save movement: %w", err)
	}
	return member, nil
}
