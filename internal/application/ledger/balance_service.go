package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/financas/backend/internal/domain/ledger"
	"github.com/financas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxBalanceRangeDays = 370

// BalanceService aggregates account balances over a period. The real series
// counts only paid movements; the projected series also counts unpaid ones,
// including card charges that have not been settled by an invoice payment.
type BalanceService struct {
	accountRepo  ledger.AccountRepository
	movementRepo ledger.MovementRepository
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(accountRepo ledger.AccountRepository, movementRepo ledger.MovementRepository) *BalanceService {
	return &BalanceService{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
	}
}

// BalanceSummaryRequest defines the period and optional account scope of a
// balance summary
type BalanceSummaryRequest struct {
	From      time.Time  `form:"from" binding:"required"`
	To        time.Time  `form:"to" binding:"required"`
	AccountID *uuid.UUID `form:"account_id"`
}

// DailyBalance is one day of the cumulative balance series
type DailyBalance struct {
	Date      time.Time       `json:"date"`
	Real      decimal.Decimal `json:"real"`
	Projected decimal.Decimal `json:"projected"`
}

// BalanceSummaryResponse is the balance series for a period
type BalanceSummaryResponse struct {
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	OpeningReal      decimal.Decimal `json:"opening_real"`
	OpeningProjected decimal.Decimal `json:"opening_projected"`
	ClosingReal      decimal.Decimal `json:"closing_real"`
	ClosingProjected decimal.Decimal `json:"closing_projected"`
	Days             []DailyBalance  `json:"days"`
}

// CategoryTotal is the aggregated value of one category within a period
type CategoryTotal struct {
	CategoryID *uuid.UUID      `json:"category_id"`
	Kind       string          `json:"kind"`
	Total      decimal.Decimal `json:"total"`
}

// GetBalanceSummary computes the daily real and projected balance series for
// a period. Both series open with the balances carried over from before the
// period: initial account balances plus the signed sum of earlier movements.
func (s *BalanceService) GetBalanceSummary(ctx context.Context, userID uuid.UUID, req BalanceSummaryRequest) (*BalanceSummaryResponse, error) {
	from := truncateToDay(req.From)
	to := truncateToDay(req.To)
	if to.Before(from) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Period end cannot precede its start")
	}
	if int(to.Sub(from).Hours()/24) > maxBalanceRangeDays {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Period cannot exceed %d days", maxBalanceRangeDays))
	}

	initial, err := s.initialBalance(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}

	query := ledger.MovementQuery{AccountID: req.AccountID, ExcludeSettledCard: true}

	carriedPaid, err := s.movementRepo.SumSignedBefore(ctx, userID, from, true, query)
	if err != nil {
		return nil, fmt.Errorf("failed to sum carried movements: %w", err)
	}
	carriedAll, err := s.movementRepo.SumSignedBefore(ctx, userID, from, false, query)
	if err != nil {
		return nil, fmt.Errorf("failed to sum carried movements: %w", err)
	}

	openingReal := initial.Add(carriedPaid)
	openingProjected := initial.Add(carriedAll)

	movements, err := s.movementRepo.FindForPeriod(ctx, userID, from, to, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	realByDay := make(map[time.Time]decimal.Decimal)
	projectedByDay := make(map[time.Time]decimal.Decimal)
	for i := range movements {
		m := &movements[i]
		day := truncateToDay(m.CompetenceDate)
		signed := m.SignedValue()

		projectedByDay[day] = projectedByDay[day].Add(signed)
		if m.Paid {
			realByDay[day] = realByDay[day].Add(signed)
		}
	}

	days := make([]DailyBalance, 0, int(to.Sub(from).Hours()/24)+1)
	runningReal := openingReal
	runningProjected := openingProjected
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		runningReal = runningReal.Add(realByDay[day])
		runningProjected = runningProjected.Add(projectedByDay[day])
		days = append(days, DailyBalance{Date: day, Real: runningReal, Projected: runningProjected})
	}

	return &BalanceSummaryResponse{
		From:             from,
		To:               to,
		OpeningReal:      openingReal,
		OpeningProjected: openingProjected,
		ClosingReal:      runningReal,
		ClosingProjected: runningProjected,
		Days:             days,
	}, nil
}

// GetCategoryTotals aggregates movement values per category within a period.
// Transfers are excluded: money moving between own accounts is not income or
// spending.
func (s *BalanceService) GetCategoryTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]CategoryTotal, error) {
	movements, err := s.movementRepo.FindForPeriod(ctx, userID, truncateToDay(from), truncateToDay(to), ledger.MovementQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	type key struct {
		category uuid.UUID
		hasCat   bool
		kind     ledger.MovementKind
	}
	totals := make(map[key]decimal.Decimal)
	order := make([]key, 0)

	for i := range movements {
		m := &movements[i]
		if m.IsTransfer() {
			continue
		}
		k := key{kind: m.Kind}
		if m.CategoryID != nil {
			k.category = *m.CategoryID
			k.hasCat = true
		}
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] = totals[k].Add(m.Value)
	}

	result := make([]CategoryTotal, 0, len(order))
	for _, k := range order {
		ct := CategoryTotal{Kind: k.kind.String(), Total: totals[k]}
		if k.hasCat {
			category := k.category
			ct.CategoryID = &category
		}
		result = append(result, ct)
	}
	return result, nil
}

func (s *BalanceService) initialBalance(ctx context.Context, userID uuid.UUID, accountID *uuid.UUID) (decimal.Decimal, error) {
	if accountID != nil {
		account, err := s.accountRepo.FindByIDForUser(ctx, userID, *accountID)
		if err != nil {
			return decimal.Zero, err
		}
		return account.InitialBalance, nil
	}

	accounts, err := s.accountRepo.FindActiveForUser(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list accounts: %w", err)
	}
	total := decimal.Zero
	for i := range accounts {
		total = total.Add(accounts[i].InitialBalance)
	}
	return total, nil
}

// truncateToDay normalizes a timestamp to its civil date keyed in UTC, so
// movements entered with any RFC3339 offset land in the same bucket as the
// iteration days.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
