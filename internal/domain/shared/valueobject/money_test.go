package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromFloat(10.50), BRL)
	require.NoError(t, err)
	assert.Equal(t, BRL, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(10.50)))
}

func TestNewMoney_EmptyCurrency(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(1), "")
	assert.Error(t, err)
}

func TestNewMoneyBRLFromString(t *testing.T) {
	m, err := NewMoneyBRLFromString("1234.56")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", m.StringFixed(2))

	_, err = NewMoneyBRLFromString("not-a-number")
	assert.Error(t, err)
}

func TestMoney_AddSubtract(t *testing.T) {
	a := NewMoneyBRLFromFloat(100.25)
	b := NewMoneyBRLFromFloat(50.75)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "151.00", sum.StringFixed(2))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "49.50", diff.StringFixed(2))
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	a := NewMoneyBRLFromFloat(1)
	b, _ := NewMoney(decimal.NewFromInt(1), USD)

	_, err := a.Add(b)
	assert.Error(t, err)

	_, err = a.Subtract(b)
	assert.Error(t, err)

	_, err = a.LessThan(b)
	assert.Error(t, err)
}

func TestMoney_NegateAbs(t *testing.T) {
	m := NewMoneyBRLFromFloat(42.00)
	neg := m.Negate()
	assert.True(t, neg.IsNegative())
	assert.True(t, neg.Abs().Equals(m))
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneyBRLFromFloat(10)
	b := NewMoneyBRLFromFloat(20)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gte, err := b.GreaterThanOrEqual(a)
	require.NoError(t, err)
	assert.True(t, gte)

	gte, err = a.GreaterThanOrEqual(a)
	require.NoError(t, err)
	assert.True(t, gte)
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyBRLFromFloat(99.90)
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("123.45"))
	assert.Equal(t, "123.45", m.StringFixed(2))
	assert.Equal(t, DefaultCurrency, m.Currency())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(3.14))
}

func TestMoney_Allocate(t *testing.T) {
	m := NewMoneyBRLFromFloat(100.00)
	parts, err := m.Allocate(3)
	require.NoError(t, err)
	require.Len(t, parts, 3)

	total := ZeroBRL()
	for _, p := range parts {
		total = total.MustAdd(p)
	}
	assert.True(t, total.Equals(m), "allocated parts must sum back to the original amount")
	assert.Equal(t, "33.34", parts[0].StringFixed(2))
	assert.Equal(t, "33.33", parts[1].StringFixed(2))
}

func TestMoney_Allocate_Invalid(t *testing.T) {
	m := NewMoneyBRLFromFloat(10)
	_, err := m.Allocate(0)
	assert.Error(t, err)
	_, err = m.Allocate(-2)
	assert.Error(t, err)
}
