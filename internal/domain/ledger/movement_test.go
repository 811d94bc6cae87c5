package ledger

import (
	"testing"
	"time"

	"github.com/financas/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCompetence = time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

func TestMovementKind_IsValid(t *testing.T) {
	tests := []struct {
		kind     MovementKind
		expected bool
	}{
		{MovementKindReceita, true},
		{MovementKindDespesa, true},
		{MovementKindTransferencia, true},
		{MovementKind("INVALID"), false},
		{MovementKind(""), false},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.kind.IsValid())
		})
	}
}

func TestNewAccountMovement(t *testing.T) {
	m, err := NewAccountMovement(uuid.New(), "Mercado", valueobject.NewMoneyBRLFromFloat(200), MovementKindDespesa, testCompetence, false, uuid.New(), nil)
	require.NoError(t, err)
	assert.True(t, m.IsAccountFunded())
	assert.False(t, m.IsCardFunded())
	assert.False(t, m.Paid)
	assert.Len(t, m.GetDomainEvents(), 1)
}

func TestNewAccountMovement_Validation(t *testing.T) {
	userID := uuid.New()
	accountID := uuid.New()

	tests := []struct {
		name        string
		description string
		value       float64
		kind        MovementKind
		date        time.Time
	}{
		{"empty description", "", 10, MovementKindDespesa, testCompetence},
		{"zero value", "x", 0, MovementKindDespesa, testCompetence},
		{"negative value", "x", -5, MovementKindDespesa, testCompetence},
		{"invalid kind", "x", 10, MovementKind("NOPE"), testCompetence},
		{"zero date", "x", 10, MovementKindDespesa, time.Time{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAccountMovement(userID, tc.description, valueobject.NewMoneyBRLFromFloat(tc.value), tc.kind, tc.date, false, accountID, nil)
			assert.Error(t, err)
		})
	}
}

func TestNewCardMovement(t *testing.T) {
	m, err := NewCardMovement(uuid.New(), "Assinatura", valueobject.NewMoneyBRLFromFloat(39.90), MovementKindDespesa, testCompetence, uuid.New(), uuid.New(), nil)
	require.NoError(t, err)
	assert.True(t, m.IsCardFunded())
	assert.False(t, m.IsAccountFunded())
	assert.False(t, m.Paid, "card movements settle at invoice level")
}

func TestNewCardMovement_TransferRejected(t *testing.T) {
	_, err := NewCardMovement(uuid.New(), "x", valueobject.NewMoneyBRLFromFloat(10), MovementKindTransferencia, testCompetence, uuid.New(), uuid.New(), nil)
	assert.Error(t, err)
}

func TestMovement_FundingXOR(t *testing.T) {
	accountID := uuid.New()
	cardID := uuid.New()
	invoiceID := uuid.New()

	// No funding at all
	m := &Movement{Description: "x", Value: decimal.NewFromInt(1), Kind: MovementKindDespesa, CompetenceDate: testCompetence}
	assert.ErrorIs(t, m.validate(), ErrFundingConflict)

	// Both account and card
	m = &Movement{Description: "x", Value: decimal.NewFromInt(1), Kind: MovementKindDespesa, CompetenceDate: testCompetence,
		AccountID: &accountID, CardID: &cardID, InvoiceID: &invoiceID}
	assert.ErrorIs(t, m.validate(), ErrFundingConflict)

	// Card without invoice
	m = &Movement{Description: "x", Value: decimal.NewFromInt(1), Kind: MovementKindDespesa, CompetenceDate: testCompetence,
		CardID: &cardID}
	assert.ErrorIs(t, m.validate(), ErrFundingConflict)
}

func TestNewTransferLegs(t *testing.T) {
	from := uuid.New()
	to := uuid.New()

	out, in, err := NewTransferLegs(uuid.New(), "Poupança", valueobject.NewMoneyBRLFromFloat(500), testCompetence, true, from, to)
	require.NoError(t, err)

	assert.Equal(t, TransferDirectionSaida, out.TransferDirection)
	assert.Equal(t, TransferDirectionEntrada, in.TransferDirection)
	assert.Equal(t, out.TransferGroupID, in.TransferGroupID)
	assert.Equal(t, "-500.00", out.SignedValue().StringFixed(2))
	assert.Equal(t, "500.00", in.SignedValue().StringFixed(2))
}

func TestNewTransferLegs_Validation(t *testing.T) {
	userID := uuid.New()
	acc := uuid.New()

	_, _, err := NewTransferLegs(userID, "x", valueobject.NewMoneyBRLFromFloat(10), testCompetence, true, acc, acc)
	assert.Error(t, err, "same source and destination must be rejected")

	_, _, err = NewTransferLegs(userID, "x", valueobject.NewMoneyBRLFromFloat(10), testCompetence, true, uuid.Nil, acc)
	assert.Error(t, err)
}

func TestNewSettlementMovement(t *testing.T) {
	m, err := NewSettlementMovement(uuid.New(), "Pagamento fatura Nubank 2025-03", valueobject.NewMoneyBRLFromFloat(450), testCompetence, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, MovementKindTransferencia, m.Kind)
	assert.Equal(t, TransferDirectionSaida, m.TransferDirection)
	assert.Nil(t, m.TransferGroupID, "a settlement has no counterpart leg")
	assert.True(t, m.Paid)
	assert.Equal(t, "-450.00", m.SignedValue().StringFixed(2))
}

func TestMovement_SignedValue(t *testing.T) {
	accountID := uuid.New()
	tests := []struct {
		name      string
		kind      MovementKind
		direction TransferDirection
		expected  string
	}{
		{"receita positive", MovementKindReceita, "", "100.00"},
		{"despesa negative", MovementKindDespesa, "", "-100.00"},
		{"transfer in positive", MovementKindTransferencia, TransferDirectionEntrada, "100.00"},
		{"transfer out negative", MovementKindTransferencia, TransferDirectionSaida, "-100.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &Movement{
				Value:             decimal.NewFromInt(100),
				Kind:              tc.kind,
				TransferDirection: tc.direction,
				AccountID:         &accountID,
			}
			assert.Equal(t, tc.expected, m.SignedValue().StringFixed(2))
		})
	}
}

func TestMovement_TogglePaid(t *testing.T) {
	m, err := NewAccountMovement(uuid.New(), "Luz", valueobject.NewMoneyBRLFromFloat(120), MovementKindDespesa, testCompetence, false, uuid.New(), nil)
	require.NoError(t, err)

	require.NoError(t, m.TogglePaid())
	assert.True(t, m.Paid)
	require.NoError(t, m.TogglePaid())
	assert.False(t, m.Paid)
}

func TestMovement_TogglePaid_CardFundedRejected(t *testing.T) {
	m, err := NewCardMovement(uuid.New(), "Jantar", valueobject.NewMoneyBRLFromFloat(80), MovementKindDespesa, testCompetence, uuid.New(), uuid.New(), nil)
	require.NoError(t, err)

	assert.Error(t, m.TogglePaid())
}

func TestMovement_ApplyPatch(t *testing.T) {
	m, err := NewAccountMovement(uuid.New(), "Internet", valueobject.NewMoneyBRLFromFloat(99.90), MovementKindDespesa, testCompetence, false, uuid.New(), nil)
	require.NoError(t, err)

	newDesc := "Internet fibra"
	newValue := decimal.NewFromFloat(119.90)
	newDate := testCompetence.AddDate(0, 1, 0)
	catID := uuid.New()

	require.NoError(t, m.ApplyPatch(MovementPatch{
		Description:    &newDesc,
		Value:          &newValue,
		CompetenceDate: &newDate,
		CategoryID:     &catID,
	}))

	assert.Equal(t, "Internet fibra", m.Description)
	assert.Equal(t, "119.90", m.Value.StringFixed(2))
	assert.Equal(t, newDate, m.CompetenceDate)
	assert.Equal(t, catID, *m.CategoryID)

	require.NoError(t, m.ApplyPatch(MovementPatch{ClearCategory: true}))
	assert.Nil(t, m.CategoryID)
}

func TestMovement_ApplyPatch_Invalid(t *testing.T) {
	m, err := NewAccountMovement(uuid.New(), "x", valueobject.NewMoneyBRLFromFloat(10), MovementKindDespesa, testCompetence, false, uuid.New(), nil)
	require.NoError(t, err)

	empty := ""
	assert.Error(t, m.ApplyPatch(MovementPatch{Description: &empty}))

	zero := decimal.Zero
	assert.Error(t, m.ApplyPatch(MovementPatch{Value: &zero}))
}

func TestMovement_SetInstallment(t *testing.T) {
	m, err := NewCardMovement(uuid.New(), "Notebook", valueobject.NewMoneyBRLFromFloat(500), MovementKindDespesa, testCompetence, uuid.New(), uuid.New(), nil)
	require.NoError(t, err)

	seriesID := uuid.New()
	require.NoError(t, m.AttachToSeries(seriesID, SeriesKindParcelada))
	require.NoError(t, m.SetInstallment(1, 10))

	assert.Equal(t, 1, m.InstallmentNumber)
	assert.Equal(t, 10, m.InstallmentCount)

	err = m.SetInstallment(2, 10)
	assert.Error(t, err, "parcel number and count are immutable after creation")
}

func TestMovement_AttachToSeries(t *testing.T) {
	m, err := NewAccountMovement(uuid.New(), "Aluguel", valueobject.NewMoneyBRLFromFloat(1500), MovementKindDespesa, testCompetence, false, uuid.New(), nil)
	require.NoError(t, err)

	seriesID := uuid.New()
	require.NoError(t, m.AttachToSeries(seriesID, SeriesKindRecorrente))
	assert.True(t, m.IsRecurring())
	assert.True(t, m.IsSeriesMember())

	assert.Error(t, m.AttachToSeries(uuid.New(), SeriesKindRecorrente), "reattaching must be rejected")
}

func TestMovement_SetFunding(t *testing.T) {
	m, err := NewAccountMovement(uuid.New(), "x", valueobject.NewMoneyBRLFromFloat(10), MovementKindDespesa, testCompetence, true, uuid.New(), nil)
	require.NoError(t, err)

	cardID := uuid.New()
	invoiceID := uuid.New()
	require.NoError(t, m.SetCardFunding(cardID, invoiceID))
	assert.True(t, m.IsCardFunded())
	assert.False(t, m.Paid, "rebinding to a card clears the individual paid flag")
	assert.Nil(t, m.AccountID)

	accountID := uuid.New()
	require.NoError(t, m.SetAccountFunding(accountID))
	assert.True(t, m.IsAccountFunded())
	assert.Nil(t, m.CardID)
	assert.Nil(t, m.InvoiceID)
}
