package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/financas/backend/internal/domain/ledger"
	"github.com/financas/backend/internal/domain/shared"
	"github.com/financas/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newInvoiceFixture() (*InvoiceService, *MockInvoiceRepository, *MockCardRepository, *MockAccountRepository, *MockMovementRepository) {
	invoiceRepo := new(MockInvoiceRepository)
	cardRepo := new(MockCardRepository)
	accountRepo := new(MockAccountRepository)
	movementRepo := new(MockMovementRepository)
	svc := NewInvoiceService(invoiceRepo, cardRepo, accountRepo, movementRepo, shared.NopTransactionManager{})
	return svc, invoiceRepo, cardRepo, accountRepo, movementRepo
}

func TestCloseInvoice(t *testing.T) {
	svc, invoiceRepo, _, _, _ := newInvoiceFixture()
	invoice := testOpenInvoice(t, testCard(t).ID)

	invoiceRepo.On("FindByIDForUser", mock.Anything, testUserID, invoice.ID).Return(invoice, nil)
	invoiceRepo.On("Save", mock.Anything, invoice).Return(nil)

	resp, err := svc.CloseInvoice(context.Background(), testUserID, invoice.ID)

	require.NoError(t, err)
	assert.Equal(t, "FECHADA", resp.Status)
}

func TestPayInvoice_FullSettlement(t *testing.T) {
	svc, invoiceRepo, cardRepo, accountRepo, movementRepo := newInvoiceFixture()
	card := testCard(t)
	account := testAccount(t, 1000)
	invoice := testOpenInvoice(t, card.ID)

	require.NoError(t, invoice.AppendCharge(valueobject.NewMoneyBRLFromFloat(450)))
	require.NoError(t, card.AddCharge(valueobject.NewMoneyBRLFromFloat(450)))
	require.NoError(t, invoice.Close())
	invoice.SetSettlementAccount(account.ID)

	invoiceRepo.On("FindByIDForUser", mock.Anything, testUserID, invoice.ID).Return(invoice, nil)
	cardRepo.On("FindByIDForUser", mock.Anything, testUserID, card.ID).Return(card, nil)
	accountRepo.On("FindByIDForUser", mock.Anything, testUserID, account.ID).Return(account, nil)
	cardRepo.On("Save", mock.Anything, card).Return(nil)
	invoiceRepo.On("Save", mock.Anything, invoice).Return(nil)
	accountRepo.On("Save", mock.Anything, account).Return(nil)
	movementRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Movement")).Return(nil)

	resp, err := svc.PayInvoice(context.Background(), testUserID, invoice.ID, PayInvoiceRequest{})

	require.NoError(t, err)
	assert.True(t, resp.Settled)
	assert.Equal(t, "PAGA", resp.Invoice.Status)
	assert.Equal(t, "550.00", account.CurrentBalance.StringFixed(2), "settlement debits the paying account")
	assert.True(t, card.UtilizedLimit.IsZero(), "settlement releases the invoice total back to the limit")
	assert.Equal(t, "1000.00", card.AvailableLimit().StringFixed(2))
	assert.True(t, resp.Movement.Paid)
	assert.Equal(t, "TRANSFERENCIA", resp.Movement.Kind, "a settlement moves money, the spending stays on the card movements")
	assert.Equal(t, "SAIDA", resp.Movement.TransferDirection)
	assert.Nil(t, resp.Movement.TransferGroupID)
}

func TestPayInvoice_PartialKeepsLimitUtilized(t *testing.T) {
	svc, invoiceRepo, cardRepo, accountRepo, movementRepo := newInvoiceFixture()
	card := testCard(t)
	account := testAccount(t, 1000)
	invoice := testOpenInvoice(t, card.ID)

	require.NoError(t, invoice.AppendCharge(valueobject.NewMoneyBRLFromFloat(450)))
	require.NoError(t, card.AddCharge(valueobject.NewMoneyBRLFromFloat(450)))
	require.NoError(t, invoice.Close())
	invoice.SetSettlementAccount(account.ID)

	invoiceRepo.On("FindByIDForUser", mock.Anything, testUserID, invoice.ID).Return(invoice, nil)
	cardRepo.On("FindByIDForUser", mock.Anything, testUserID, card.ID).Return(card, nil)
	accountRepo.On("FindByIDForUser", mock.Anything, testUserID, account.ID).Return(account, nil)
	invoiceRepo.On("Save", mock.Anything, invoice).Return(nil)
	accountRepo.On("Save", mock.Anything, account).Return(nil)
	movementRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Movement")).Return(nil)

	amount := decimal.NewFromInt(200)
	resp, err := svc.PayInvoice(context.Background(), testUserID, invoice.ID, PayInvoiceRequest{Amount: &amount})

	require.NoError(t, err)
	assert.False(t, resp.Settled)
	assert.Equal(t, "FECHADA", resp.Invoice.Status)
	assert.Equal(t, "250.00", resp.Invoice.Remaining.StringFixed(2))
	assert.Equal(t, "800.00", account.CurrentBalance.StringFixed(2))
	assert.Equal(t, "450.00", card.UtilizedLimit.StringFixed(2), "partial payment keeps the limit utilized")
	cardRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPayInvoice_AlreadySettledRejected(t *testing.T) {
	svc, invoiceRepo, cardRepo, _, _ := newInvoiceFixture()
	card := testCard(t)
	invoice := testOpenInvoice(t, card.ID)

	require.NoError(t, invoice.AppendCharge(valueobject.NewMoneyBRLFromFloat(100)))
	_, err := invoice.RegisterPayment(valueobject.NewMoneyBRLFromFloat(100), time.Now())
	require.NoError(t, err)

	invoiceRepo.On("FindByIDForUser", mock.Anything, testUserID, invoice.ID).Return(invoice, nil)
	cardRepo.On("FindByIDForUser", mock.Anything, testUserID, card.ID).Return(card, nil)

	amount := decimal.NewFromInt(10)
	_, err = svc.PayInvoice(context.Background(), testUserID, invoice.ID, PayInvoiceRequest{Amount: &amount})

	assert.ErrorIs(t, err, ledger.ErrInvoiceLocked)
}

func TestListInvoicesByCard_DerivesOverdueStatus(t *testing.T) {
	svc, invoiceRepo, _, _, _ := newInvoiceFixture()
	card := testCard(t)
	invoice := testOpenInvoice(t, card.ID)
	require.NoError(t, invoice.AppendCharge(valueobject.NewMoneyBRLFromFloat(80)))
	invoice.DueDate = time.Now().AddDate(0, 0, -1)

	invoiceRepo.On("FindByCard", mock.Anything, testUserID, card.ID, mock.Anything).Return([]ledger.Invoice{*invoice}, nil)

	resp, err := svc.ListInvoicesByCard(context.Background(), testUserID, card.ID)

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "ATRASADA", resp[0].Status, "overdue status is derived at read time")
}
