package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromFloat(12.34), BRL)
	require.NoError(t, err)
	assert.Equal(t, BRL, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(12.34)))

	_, err = NewMoney(decimal.NewFromInt(1), "")
	require.Error(t, err)
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("99.90", BRL)
	require.NoError(t, err)
	assert.Equal(t, "99.90 BRL", m.String())

	_, err = NewMoneyFromString("not-a-number", BRL)
	require.Error(t, err)
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyBRL(decimal.NewFromFloat(10.50))
	b := NewMoneyBRL(decimal.NewFromFloat(4.25))

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Equals(NewMoneyBRL(decimal.NewFromFloat(14.75))))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Equals(NewMoneyBRL(decimal.NewFromFloat(6.25))))

	assert.True(t, a.Negate().IsNegative())
	assert.True(t, a.Negate().Abs().Equals(a))
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	a := NewMoneyBRL(decimal.NewFromInt(1))
	b, err := NewMoney(decimal.NewFromInt(1), USD)
	require.NoError(t, err)

	_, err = a.Add(b)
	require.Error(t, err)
	_, err = a.Subtract(b)
	require.Error(t, err)
	assert.Panics(t, func() { a.MustAdd(b) })
}

func TestMoney_Round(t *testing.T) {
	m := NewMoneyBRL(decimal.RequireFromString("10.005"))
	assert.Equal(t, "10.01 BRL", m.Round().String())

	m = NewMoneyBRL(decimal.RequireFromString("10.004"))
	assert.Equal(t, "10.00 BRL", m.Round().String())
}

func TestMoney_JSON(t *testing.T) {
	m := NewMoneyBRL(decimal.RequireFromString("123.45"))

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"123.45","currency":"BRL"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equals(m))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("42.10"))
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("42.10")))
	assert.Equal(t, DefaultCurrency, m.Currency())

	require.NoError(t, m.Scan([]byte("7.77")))
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("7.77")))

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	require.Error(t, m.Scan(3.14))
}
