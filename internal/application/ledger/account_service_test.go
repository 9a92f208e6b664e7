package ledger

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_ListAccounts(t *testing.T) {
	store := newFakeLedgerStore()
	projectID := uuid.New()
	store.addAccount(projectID, decimal.NewFromInt(1000))
	store.addAccount(uuid.New(), decimal.NewFromInt(999))

	service := NewAccountService(accountPort{store})

	accounts, err := service.ListAccounts(context.Background(), projectID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "CHECKING", accounts[0].Type)
}

func TestAccountService_GetAccount(t *testing.T) {
	store := newFakeLedgerStore()
	projectID := uuid.New()
	account := store.addAccount(projectID, decimal.RequireFromString("1234.5"))

	service := NewAccountService(accountPort{store})

	resp, err := service.GetAccount(context.Background(), projectID, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, resp.ID)

	// Balances serialize with an explicit currency tag
	payload, err := json.Marshal(resp.CurrentBalance)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount": "1234.5", "currency": "BRL"}`, string(payload))
}

func TestAccountService_GetAccountUnknown(t *testing.T) {
	store := newFakeLedgerStore()
	service := NewAccountService(accountPort{store})

	_, err := service.GetAccount(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
