package ledger

import (
	"context"
	"time"

	"github.com/financas/backend/internal/domain/ledger"
	"github.com/financas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock repositories shared by the service tests
// =============================================================================

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ledger.Account, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ledger.Account, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) FindActiveForUser(ctx context.Context, userID uuid.UUID) ([]ledger.Account, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *ledger.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Card), args.Error(1)
}

func (m *MockCardRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ledger.Card, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Card), args.Error(1)
}

func (m *MockCardRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ledger.Card, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]ledger.Card), args.Error(1)
}

func (m *MockCardRepository) FindActiveForUser(ctx context.Context, userID uuid.UUID) ([]ledger.Card, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]ledger.Card), args.Error(1)
}

func (m *MockCardRepository) Save(ctx context.Context, card *ledger.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ledger.Invoice, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ledger.Invoice, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]ledger.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCardAndReference(ctx context.Context, userID, cardID uuid.UUID, ref ledger.InvoiceReference) (*ledger.Invoice, error) {
	args := m.Called(ctx, userID, cardID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCard(ctx context.Context, userID, cardID uuid.UUID, filter shared.Filter) ([]ledger.Invoice, error) {
	args := m.Called(ctx, userID, cardID, filter)
	return args.Get(0).([]ledger.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) SumUnsettledTotals(ctx context.Context, userID, cardID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, cardID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *ledger.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Movement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ledger.Movement, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ledger.Movement, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]ledger.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindBySeries(ctx context.Context, userID, seriesID uuid.UUID) ([]ledger.Movement, error) {
	args := m.Called(ctx, userID, seriesID)
	return args.Get(0).([]ledger.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindByInvoice(ctx context.Context, userID, invoiceID uuid.UUID) ([]ledger.Movement, error) {
	args := m.Called(ctx, userID, invoiceID)
	return args.Get(0).([]ledger.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindByTransferGroup(ctx context.Context, userID, groupID uuid.UUID) ([]ledger.Movement, error) {
	args := m.Called(ctx, userID, groupID)
	return args.Get(0).([]ledger.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindForPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time, query ledger.MovementQuery) ([]ledger.Movement, error) {
	args := m.Called(ctx, userID, from, to, query)
	return args.Get(0).([]ledger.Movement), args.Error(1)
}

func (m *MockMovementRepository) SumSignedBefore(ctx context.Context, userID uuid.UUID, before time.Time, paidOnly bool, query ledger.MovementQuery) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, before, paidOnly, query)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockMovementRepository) Save(ctx context.Context, movement *ledger.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMovementRepository) DeleteMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, userID, ids)
	return args.Error(0)
}
