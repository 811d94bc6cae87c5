package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/financas/backend/internal/domain/ledger"
	"github.com/financas/backend/internal/domain/shared"
	"github.com/financas/backend/internal/domain/shared/valueobject"
	"github.com/financas/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupLedgerTestDB creates an in-memory SQLite database with the ledger schema
func setupLedgerTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.AccountModel{},
		&models.CardModel{},
		&models.InvoiceModel{},
		&models.MovementModel{},
	))

	return &Database{DB: db}
}

func seedAccount(t *testing.T, repo *GormAccountRepository, userID uuid.UUID, name string, balance float64) *ledger.Account {
	t.Helper()
	account, err := ledger.NewAccount(userID, name, ledger.AccountTypeChecking, "#820AD1", valueobject.NewMoneyBRLFromFloat(balance))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), account))
	return account
}

func seedCard(t *testing.T, repo *GormCardRepository, userID, accountID uuid.UUID) *ledger.Card {
	t.Helper()
	card, err := ledger.NewCard(userID, "Visa Gold", valueobject.NewMoneyBRLFromFloat(1000), 10, 17, accountID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), card))
	return card
}

func TestGormAccountRepository_UserScoping(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	stranger := uuid.New()
	account := seedAccount(t, repo, owner, "Nubank", 1000)

	found, err := repo.FindByIDForUser(ctx, owner, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nubank", found.Name)
	assert.Equal(t, "1000", found.CurrentBalance.String())

	_, err = repo.FindByIDForUser(ctx, stranger, account.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormAccountRepository_FindActiveForUser(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	seedAccount(t, repo, userID, "Bradesco", 500)
	archived := seedAccount(t, repo, userID, "Antiga", 0)
	require.NoError(t, archived.Archive())
	require.NoError(t, repo.Save(ctx, archived))

	active, err := repo.FindActiveForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Bradesco", active[0].Name)
}

func TestGormInvoiceRepository_FindByCardAndReference(t *testing.T) {
	db := setupLedgerTestDB(t)
	accountRepo := NewGormAccountRepository(db)
	cardRepo := NewGormCardRepository(db)
	invoiceRepo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	account := seedAccount(t, accountRepo, userID, "Nubank", 0)
	card := seedCard(t, cardRepo, userID, account.ID)

	ref := ledger.InvoiceReference{Month: 3, Year: 2025}
	invoice, err := ledger.NewInvoice(userID, card.ID, ref,
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, invoiceRepo.Save(ctx, invoice))

	found, err := invoiceRepo.FindByCardAndReference(ctx, userID, card.ID, ref)
	require.NoError(t, err)
	assert.Equal(t, invoice.ID, found.ID)

	_, err = invoiceRepo.FindByCardAndReference(ctx, userID, card.ID, ledger.InvoiceReference{Month: 4, Year: 2025})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormInvoiceRepository_SumUnsettledTotals(t *testing.T) {
	db := setupLedgerTestDB(t)
	accountRepo := NewGormAccountRepository(db)
	cardRepo := NewGormCardRepository(db)
	invoiceRepo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	account := seedAccount(t, accountRepo, userID, "Nubank", 0)
	card := seedCard(t, cardRepo, userID, account.ID)

	open, err := ledger.NewInvoice(userID, card.ID, ledger.InvoiceReference{Month: 4, Year: 2025},
		time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 17, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, open.AppendCharge(valueobject.NewMoneyBRLFromFloat(300)))
	require.NoError(t, invoiceRepo.Save(ctx, open))

	paid, err := ledger.NewInvoice(userID, card.ID, ledger.InvoiceReference{Month: 3, Year: 2025},
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, paid.AppendCharge(valueobject.NewMoneyBRLFromFloat(450)))
	_, err = paid.RegisterPayment(valueobject.NewMoneyBRLFromFloat(450), time.Now())
	require.NoError(t, err)
	require.NoError(t, invoiceRepo.Save(ctx, paid))

	total, err := invoiceRepo.SumUnsettledTotals(ctx, userID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "300.00", total.StringFixed(2), "settled invoices no longer consume limit")
}

func TestGormMovementRepository_SeriesAndTransferLookups(t *testing.T) {
	db := setupLedgerTestDB(t)
	accountRepo := NewGormAccountRepository(db)
	movementRepo := NewGormMovementRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	account := seedAccount(t, accountRepo, userID, "Nubank", 0)
	other := seedAccount(t, accountRepo, userID, "Poupança", 0)

	seriesID := uuid.New()
	for i := 0; i < 3; i++ {
		m, err := ledger.NewAccountMovement(userID, "Academia", valueobject.NewMoneyBRLFromFloat(120),
			ledger.MovementKindDespesa, time.Date(2025, time.Month(1+i), 10, 0, 0, 0, 0, time.UTC),
			false, account.ID, nil)
		require.NoError(t, err)
		require.NoError(t, m.AttachToSeries(seriesID, ledger.SeriesKindRecorrente))
		require.NoError(t, movementRepo.Save(ctx, m))
	}

	members, err := movementRepo.FindBySeries(ctx, userID, seriesID)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.True(t, members[0].CompetenceDate.Before(members[2].CompetenceDate), "members come back in competence order")

	out, in, err := ledger.NewTransferLegs(userID, "Reserva", valueobject.NewMoneyBRLFromFloat(500),
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), true, account.ID, other.ID)
	require.NoError(t, err)
	require.NoError(t, movementRepo.Save(ctx, out))
	require.NoError(t, movementRepo.Save(ctx, in))

	legs, err := movementRepo.FindByTransferGroup(ctx, userID, *out.TransferGroupID)
	require.NoError(t, err)
	assert.Len(t, legs, 2)
}

func TestGormMovementRepository_SumSignedBefore(t *testing.T) {
	db := setupLedgerTestDB(t)
	accountRepo := NewGormAccountRepository(db)
	movementRepo := NewGormMovementRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	account := seedAccount(t, accountRepo, userID, "Nubank", 0)

	salary, err := ledger.NewAccountMovement(userID, "Salário", valueobject.NewMoneyBRLFromFloat(3000),
		ledger.MovementKindReceita, time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC), true, account.ID, nil)
	require.NoError(t, err)
	require.NoError(t, movementRepo.Save(ctx, salary))

	market, err := ledger.NewAccountMovement(userID, "Mercado", valueobject.NewMoneyBRLFromFloat(400),
		ledger.MovementKindDespesa, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), true, account.ID, nil)
	require.NoError(t, err)
	require.NoError(t, movementRepo.Save(ctx, market))

	pending, err := ledger.NewAccountMovement(userID, "Conta de luz", valueobject.NewMoneyBRLFromFloat(200),
		ledger.MovementKindDespesa, time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC), false, account.ID, nil)
	require.NoError(t, err)
	require.NoError(t, movementRepo.Save(ctx, pending))

	cutoff := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	real, err := movementRepo.SumSignedBefore(ctx, userID, cutoff, true, ledger.MovementQuery{AccountID: &account.ID})
	require.NoError(t, err)
	assert.Equal(t, "2600.00", real.StringFixed(2), "only paid movements carry into the real balance")

	projected, err := movementRepo.SumSignedBefore(ctx, userID, cutoff, false, ledger.MovementQuery{AccountID: &account.ID})
	require.NoError(t, err)
	assert.Equal(t, "2400.00", projected.StringFixed(2), "the projected sum also counts the pending expense")
}

func TestGormMovementRepository_ExcludesSettledCardMovements(t *testing.T) {
	db := setupLedgerTestDB(t)
	accountRepo := NewGormAccountRepository(db)
	cardRepo := NewGormCardRepository(db)
	invoiceRepo := NewGormInvoiceRepository(db)
	movementRepo := NewGormMovementRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	account := seedAccount(t, accountRepo, userID, "Nubank", 0)
	card := seedCard(t, cardRepo, userID, account.ID)

	invoice, err := ledger.NewInvoice(userID, card.ID, ledger.InvoiceReference{Month: 3, Year: 2025},
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, invoice.AppendCharge(valueobject.NewMoneyBRLFromFloat(250)))
	require.NoError(t, invoiceRepo.Save(ctx, invoice))

	charge, err := ledger.NewCardMovement(userID, "Livraria", valueobject.NewMoneyBRLFromFloat(250),
		ledger.MovementKindDespesa, time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC), card.ID, invoice.ID, nil)
	require.NoError(t, err)
	require.NoError(t, movementRepo.Save(ctx, charge))

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)

	balanceQuery := ledger.MovementQuery{ExcludeSettledCard: true}

	visible, err := movementRepo.FindForPeriod(ctx, userID, from, to, balanceQuery)
	require.NoError(t, err)
	assert.Len(t, visible, 1, "an unsettled card movement projects normally")

	_, err = invoice.RegisterPayment(valueobject.NewMoneyBRLFromFloat(250), time.Now())
	require.NoError(t, err)
	require.NoError(t, invoiceRepo.Save(ctx, invoice))

	visible, err = movementRepo.FindForPeriod(ctx, userID, from, to, balanceQuery)
	require.NoError(t, err)
	assert.Empty(t, visible, "a settled invoice's movements drop out of the balance; the settlement movement carries the cash effect")

	listed, err := movementRepo.FindForPeriod(ctx, userID, from, to, ledger.MovementQuery{})
	require.NoError(t, err)
	assert.Len(t, listed, 1, "plain listings keep the settled purchase visible")

	projected, err := movementRepo.SumSignedBefore(ctx, userID, to, false, balanceQuery)
	require.NoError(t, err)
	assert.True(t, projected.IsZero())
}

func TestGormMovementRepository_DeleteMany(t *testing.T) {
	db := setupLedgerTestDB(t)
	accountRepo := NewGormAccountRepository(db)
	movementRepo := NewGormMovementRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	account := seedAccount(t, accountRepo, userID, "Nubank", 0)

	ids := make([]uuid.UUID, 0, 2)
	for i := 0; i < 2; i++ {
		m, err := ledger.NewAccountMovement(userID, "Assinatura", valueobject.NewMoneyBRLFromFloat(30),
			ledger.MovementKindDespesa, time.Date(2025, time.Month(1+i), 1, 0, 0, 0, 0, time.UTC),
			false, account.ID, nil)
		require.NoError(t, err)
		require.NoError(t, movementRepo.Save(ctx, m))
		ids = append(ids, m.ID)
	}

	require.NoError(t, movementRepo.DeleteMany(ctx, userID, ids))

	for _, id := range ids {
		_, err := movementRepo.FindByIDForUser(ctx, userID, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	}
}

func TestGormTransactionManager_RollsBackOnError(t *testing.T) {
	db := setupLedgerTestDB(t)
	accountRepo := NewGormAccountRepository(db)
	txManager := NewGormTransactionManager(db)
	ctx := context.Background()

	userID := uuid.New()
	account, err := ledger.NewAccount(userID, "Nubank", ledger.AccountTypeChecking, "#820AD1", valueobject.NewMoneyBRLFromFloat(100))
	require.NoError(t, err)

	err = txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := accountRepo.Save(txCtx, account); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	_, err = accountRepo.FindByIDForUser(ctx, userID, account.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "the rolled back save leaves no row behind")
}

func TestGormTransactionManager_CommitsOnSuccess(t *testing.T) {
	db := setupLedgerTestDB(t)
	accountRepo := NewGormAccountRepository(db)
	txManager := NewGormTransactionManager(db)
	ctx := context.Background()

	userID := uuid.New()
	account, err := ledger.NewAccount(userID, "Nubank", ledger.AccountTypeChecking, "#820AD1", valueobject.NewMoneyBRLFromFloat(100))
	require.NoError(t, err)

	err = txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		return accountRepo.Save(txCtx, account)
	})
	require.NoError(t, err)

	found, err := accountRepo.FindByIDForUser(ctx, userID, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)
}
