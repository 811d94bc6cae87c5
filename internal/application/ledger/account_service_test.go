package ledger

import (
	"context"
	"testing"

	"github.com/financas/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateAccount(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	movementRepo := new(MockMovementRepository)
	svc := NewAccountService(accountRepo, movementRepo)

	accountRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Account")).Return(nil)

	resp, err := svc.CreateAccount(context.Background(), testUserID, CreateAccountRequest{
		Name:           "Nubank",
		Type:           "CHECKING",
		Color:          "#820AD1",
		InitialBalance: decimal.NewFromInt(1000),
	})

	require.NoError(t, err)
	assert.Equal(t, "Nubank", resp.Name)
	assert.Equal(t, "1000.00", resp.CurrentBalance.StringFixed(2))
	accountRepo.AssertExpectations(t)
}

func TestCreateAccount_InvalidType(t *testing.T) {
	svc := NewAccountService(new(MockAccountRepository), new(MockMovementRepository))

	_, err := svc.CreateAccount(context.Background(), testUserID, CreateAccountRequest{
		Name: "Conta",
		Type: "NOPE",
	})
	assert.Error(t, err)
}

func TestRecomputeBalance_CorrectsDrift(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	movementRepo := new(MockMovementRepository)
	svc := NewAccountService(accountRepo, movementRepo)

	account := testAccount(t, 1000)
	account.CurrentBalance = decimal.NewFromInt(1234) // drifted cache

	accountRepo.On("FindByIDForUser", mock.Anything, testUserID, account.ID).Return(account, nil)
	movementRepo.On("SumSignedBefore", mock.Anything, testUserID, mock.Anything, true, mock.Anything).Return(decimal.NewFromInt(-200), nil)
	accountRepo.On("Save", mock.Anything, account).Return(nil)

	resp, err := svc.RecomputeBalance(context.Background(), testUserID, account.ID)

	require.NoError(t, err)
	assert.Equal(t, "800.00", resp.CurrentBalance.StringFixed(2), "initial balance plus the signed paid history")
	accountRepo.AssertExpectations(t)
}

func TestRecomputeBalance_NoDriftSkipsSave(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	movementRepo := new(MockMovementRepository)
	svc := NewAccountService(accountRepo, movementRepo)

	account := testAccount(t, 1000)

	accountRepo.On("FindByIDForUser", mock.Anything, testUserID, account.ID).Return(account, nil)
	movementRepo.On("SumSignedBefore", mock.Anything, testUserID, mock.Anything, true, mock.Anything).Return(decimal.Zero, nil)

	_, err := svc.RecomputeBalance(context.Background(), testUserID, account.ID)

	require.NoError(t, err)
	accountRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreateCard_RequiresExistingAccount(t *testing.T) {
	cardRepo := new(MockCardRepository)
	accountRepo := new(MockAccountRepository)
	invoiceRepo := new(MockInvoiceRepository)
	svc := NewCardService(cardRepo, accountRepo, invoiceRepo)

	account := testAccount(t, 0)
	accountRepo.On("FindByIDForUser", mock.Anything, testUserID, account.ID).Return(account, nil)
	cardRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Card")).Return(nil)

	resp, err := svc.CreateCard(context.Background(), testUserID, CreateCardRequest{
		Name:             "Visa Gold",
		CreditLimit:      decimal.NewFromInt(1000),
		ClosingDay:       10,
		DueDay:           17,
		DefaultAccountID: account.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, "1000.00", resp.AvailableLimit.StringFixed(2))
}

func TestReconcileLimit_CorrectsDrift(t *testing.T) {
	cardRepo := new(MockCardRepository)
	accountRepo := new(MockAccountRepository)
	invoiceRepo := new(MockInvoiceRepository)
	svc := NewCardService(cardRepo, accountRepo, invoiceRepo)

	card := testCard(t)
	require.NoError(t, card.AddCharge(valueobject.NewMoneyBRLFromFloat(300)))

	cardRepo.On("FindByIDForUser", mock.Anything, testUserID, card.ID).Return(card, nil)
	invoiceRepo.On("SumUnsettledTotals", mock.Anything, testUserID, card.ID).Return(decimal.NewFromInt(450), nil)
	cardRepo.On("Save", mock.Anything, card).Return(nil)

	resp, err := svc.ReconcileLimit(context.Background(), testUserID, card.ID)

	require.NoError(t, err)
	assert.Equal(t, "450.00", resp.UtilizedLimit.StringFixed(2))
	assert.Equal(t, "550.00", resp.AvailableLimit.StringFixed(2))
}

// ReconcileLimit leaves an already-consistent card untouched
func TestReconcileLimit_NoDriftSkipsSave(t *testing.T) {
	cardRepo := new(MockCardRepository)
	accountRepo := new(MockAccountRepository)
	invoiceRepo := new(MockInvoiceRepository)
	svc := NewCardService(cardRepo, accountRepo, invoiceRepo)

	card := testCard(t)

	cardRepo.On("FindByIDForUser", mock.Anything, testUserID, card.ID).Return(card, nil)
	invoiceRepo.On("SumUnsettledTotals", mock.Anything, testUserID, card.ID).Return(decimal.Zero, nil)

	_, err := svc.ReconcileLimit(context.Background(), testUserID, card.ID)

	require.NoError(t, err)
	cardRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
