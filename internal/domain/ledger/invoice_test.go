package ledger

import (
	"testing"
	"time"

	"github.com/financas/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	ref := InvoiceReference{Month: 3, Year: 2025}
	inv, err := NewInvoice(
		uuid.New(),
		uuid.New(),
		ref,
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return inv
}

func TestInvoiceStatus_IsValid(t *testing.T) {
	tests := []struct {
		status   InvoiceStatus
		expected bool
	}{
		{InvoiceStatusAberta, true},
		{InvoiceStatusFechada, true},
		{InvoiceStatusPaga, true},
		{InvoiceStatusAtrasada, true},
		{InvoiceStatus("INVALID"), false},
		{InvoiceStatus(""), false},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.IsValid())
		})
	}
}

func TestInvoiceStatus_ConsumesLimit(t *testing.T) {
	tests := []struct {
		status   InvoiceStatus
		expected bool
	}{
		{InvoiceStatusAberta, true},
		{InvoiceStatusFechada, true},
		{InvoiceStatusAtrasada, true},
		{InvoiceStatusPaga, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.ConsumesLimit())
		})
	}
}

func TestNewInvoice_Validation(t *testing.T) {
	userID := uuid.New()
	cardID := uuid.New()
	closing := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)

	_, err := NewInvoice(userID, uuid.Nil, InvoiceReference{Month: 3, Year: 2025}, closing, due)
	assert.Error(t, err)

	_, err = NewInvoice(userID, cardID, InvoiceReference{Month: 13, Year: 2025}, closing, due)
	assert.Error(t, err)

	_, err = NewInvoice(userID, cardID, InvoiceReference{Month: 3, Year: 2025}, due, closing)
	assert.Error(t, err, "due date before closing date must be rejected")

	inv, err := NewInvoice(userID, cardID, InvoiceReference{Month: 3, Year: 2025}, closing, due)
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusAberta, inv.Status)
	assert.True(t, inv.TotalValue.IsZero())
	assert.Len(t, inv.GetDomainEvents(), 1)
}

func TestInvoice_AppendCharge(t *testing.T) {
	inv := newTestInvoice(t)

	require.NoError(t, inv.AppendCharge(valueobject.NewMoneyBRLFromFloat(300)))
	assert.Equal(t, "300.00", inv.TotalValue.StringFixed(2))

	require.NoError(t, inv.AppendCharge(valueobject.NewMoneyBRLFromFloat(150)))
	assert.Equal(t, "450.00", inv.TotalValue.StringFixed(2))

	assert.Error(t, inv.AppendCharge(valueobject.ZeroBRL()))
}

func TestInvoice_AppendCharge_ClosedRejectsNew(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.Close())

	err := inv.AppendCharge(valueobject.NewMoneyBRLFromFloat(10))
	assert.Error(t, err)
}

func TestInvoice_AdjustTotal(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.AppendCharge(valueobject.NewMoneyBRLFromFloat(300)))

	// A closed invoice still accepts corrections to its linked movements
	require.NoError(t, inv.Close())
	require.NoError(t, inv.AdjustTotal(valueobject.NewMoneyBRLFromFloat(150).Amount()))
	assert.Equal(t, "450.00", inv.TotalValue.StringFixed(2))

	_, err := inv.RegisterPayment(valueobject.NewMoneyBRLFromFloat(450), time.Now())
	require.NoError(t, err)

	err = inv.AdjustTotal(valueobject.NewMoneyBRLFromFloat(1).Amount())
	assert.ErrorIs(t, err, ErrInvoiceLocked)
}

func TestInvoice_Close(t *testing.T) {
	inv := newTestInvoice(t)

	require.NoError(t, inv.Close())
	assert.Equal(t, InvoiceStatusFechada, inv.Status)

	assert.Error(t, inv.Close(), "closing twice must be rejected")
}

func TestInvoice_RegisterPayment_Full(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.AppendCharge(valueobject.NewMoneyBRLFromFloat(450)))
	require.NoError(t, inv.Close())

	settled, err := inv.RegisterPayment(valueobject.NewMoneyBRLFromFloat(450), time.Now())
	require.NoError(t, err)
	assert.True(t, settled)
	assert.Equal(t, InvoiceStatusPaga, inv.Status)
	assert.NotNil(t, inv.PaidAt)
	assert.True(t, inv.Remaining().IsZero())
}

func TestInvoice_RegisterPayment_Partial(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.AppendCharge(valueobject.NewMoneyBRLFromFloat(450)))
	require.NoError(t, inv.Close())

	settled, err := inv.RegisterPayment(valueobject.NewMoneyBRLFromFloat(200), time.Now())
	require.NoError(t, err)
	assert.False(t, settled)
	assert.Equal(t, InvoiceStatusFechada, inv.Status)
	assert.Equal(t, "250.00", inv.Remaining().StringFixed(2))
}

func TestInvoice_RegisterPayment_Rejections(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.AppendCharge(valueobject.NewMoneyBRLFromFloat(100)))

	_, err := inv.RegisterPayment(valueobject.ZeroBRL(), time.Now())
	assert.Error(t, err)

	_, err = inv.RegisterPayment(valueobject.NewMoneyBRLFromFloat(-5), time.Now())
	assert.Error(t, err)

	settled, err := inv.RegisterPayment(valueobject.NewMoneyBRLFromFloat(100), time.Now())
	require.NoError(t, err)
	require.True(t, settled)

	_, err = inv.RegisterPayment(valueobject.NewMoneyBRLFromFloat(1), time.Now())
	assert.ErrorIs(t, err, ErrInvoiceLocked, "paying a settled invoice must be rejected")
}

func TestInvoice_RegisterPayment_OverpaymentAccepted(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.AppendCharge(valueobject.NewMoneyBRLFromFloat(100)))

	settled, err := inv.RegisterPayment(valueobject.NewMoneyBRLFromFloat(120), time.Now())
	require.NoError(t, err)
	assert.True(t, settled)
	assert.Equal(t, "120.00", inv.PaidValue.StringFixed(2))
	assert.True(t, inv.Remaining().IsZero(), "remaining never goes negative")
}

func TestInvoice_DetachSettledCharge(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.AppendCharge(valueobject.NewMoneyBRLFromFloat(300)))

	err := inv.DetachSettledCharge(valueobject.NewMoneyBRLFromFloat(100).Amount())
	assert.Error(t, err, "only settled invoices take detach corrections")

	_, err = inv.RegisterPayment(valueobject.NewMoneyBRLFromFloat(300), time.Now())
	require.NoError(t, err)

	require.NoError(t, inv.DetachSettledCharge(valueobject.NewMoneyBRLFromFloat(100).Amount()))
	assert.Equal(t, "200.00", inv.TotalValue.StringFixed(2))
	assert.Equal(t, InvoiceStatusPaga, inv.Status, "detaching never reopens the invoice")
}

func TestInvoice_EffectiveStatus(t *testing.T) {
	today := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		prepare  func(inv *Invoice)
		expected InvoiceStatus
	}{
		{
			name:     "open before due date",
			prepare:  func(inv *Invoice) { inv.DueDate = today.AddDate(0, 0, 5) },
			expected: InvoiceStatusAberta,
		},
		{
			name: "open past due with balance",
			prepare: func(inv *Invoice) {
				require.NoError(t, inv.AppendCharge(valueobject.NewMoneyBRLFromFloat(50)))
				inv.DueDate = today.AddDate(0, 0, -1)
			},
			expected: InvoiceStatusAtrasada,
		},
		{
			name: "closed past due with balance",
			prepare: func(inv *Invoice) {
				require.NoError(t, inv.AppendCharge(valueobject.NewMoneyBRLFromFloat(50)))
				require.NoError(t, inv.Close())
				inv.DueDate = today.AddDate(0, 0, -1)
			},
			expected: InvoiceStatusAtrasada,
		},
		{
			name: "paid stays paid past due",
			prepare: func(inv *Invoice) {
				require.NoError(t, inv.AppendCharge(valueobject.NewMoneyBRLFromFloat(50)))
				_, err := inv.RegisterPayment(valueobject.NewMoneyBRLFromFloat(50), today)
				require.NoError(t, err)
				inv.DueDate = today.AddDate(0, 0, -10)
			},
			expected: InvoiceStatusPaga,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inv := newTestInvoice(t)
			tc.prepare(inv)
			assert.Equal(t, tc.expected, inv.EffectiveStatus(today))
		})
	}
}
