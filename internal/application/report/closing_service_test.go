package report

import (
	"context"
	"testing"

	"github.com/cashdesk/backend/internal/domain/category"
	"github.com/cashdesk/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosingService_BuildsMonthlyMatrix(t *testing.T) {
	store := newFakeStore()
	service := NewClosingService(entriesPort{store}, accountsPort{store})
	ctx := context.Background()

	projectID := uuid.New()
	main := store.addAccount(projectID, "Main", "1000")
	savings := store.addAccount(projectID, "Savings", "200")
	companyID := uuid.New()
	sales := store.addCategory(projectID, category.KindIncome, "Sales", nil, 0)
	rent := store.addCategory(projectID, category.KindExpense, "Rent", nil, 0)

	// January activity precedes the range and rolls into the initial balance.
	store.add(t, projectID, ledger.KindExpense, ledger.EntryFields{
		FactDate:   day(t, "2026-01-15"),
		ActualDate: dayPtr(t, "2026-01-15"),
		Amount:     dec("100"),
		CategoryID: uuidPtr(rent.ID),
		CompanyID:  uuidPtr(companyID),
		AccountID:  uuidPtr(main.ID),
	})
	store.add(t, projectID, ledger.KindIncome, ledger.EntryFields{
		FactDate:   day(t, "2026-02-10"),
		ActualDate: dayPtr(t, "2026-02-10"),
		Amount:     dec("300"),
		CategoryID: uuidPtr(sales.ID),
		CompanyID:  uuidPtr(companyID),
		AccountID:  uuidPtr(main.ID),
	})
	store.add(t, projectID, ledger.KindTransfer, ledger.EntryFields{
		FactDate:             day(t, "2026-03-05"),
		ActualDate:           dayPtr(t, "2026-03-05"),
		Amount:               dec("50"),
		SourceAccountID:      uuidPtr(main.ID),
		DestinationAccountID: uuidPtr(savings.ID),
	})
	// June activity falls after the range and is excluded.
	store.add(t, projectID, ledger.KindIncome, ledger.EntryFields{
		FactDate:   day(t, "2026-06-01"),
		ActualDate: dayPtr(t, "2026-06-01"),
		Amount:     dec("999"),
		CategoryID: uuidPtr(sales.ID),
		CompanyID:  uuidPtr(companyID),
		AccountID:  uuidPtr(main.ID),
	})

	resp, err := service.GetClosingReport(ctx, projectID, "2026-02", "2026-04")
	require.NoError(t, err)

	assert.Equal(t, []string{"2026-02", "2026-03", "2026-04"}, resp.Months)
	require.Len(t, resp.Accounts, 2)
	assert.Equal(t, "Main", resp.Accounts[0].Name)

	assert.True(t, dec("900").Equal(resp.InitialBalances[main.ID]), "main initial %s", resp.InitialBalances[main.ID])
	assert.True(t, dec("200").Equal(resp.InitialBalances[savings.ID]))

	mainMoves := resp.Movements[main.ID]
	assert.True(t, dec("300").Equal(mainMoves["2026-02"]))
	assert.True(t, dec("-50").Equal(mainMoves["2026-03"]))
	_, hasApril := mainMoves["2026-04"]
	assert.False(t, hasApril)
	_, hasJune := mainMoves["2026-06"]
	assert.False(t, hasJune)

	savingsMoves := resp.Movements[savings.ID]
	assert.True(t, dec("50").Equal(savingsMoves["2026-03"]))
}

func TestClosingService_UnsettledEntriesBucketByExpectedDate(t *testing.T) {
	store := newFakeStore()
	service := NewClosingService(entriesPort{store}, accountsPort{store})
	ctx := context.Background()

	projectID := uuid.New()
	main := store.addAccount(projectID, "Main", "0")
	companyID := uuid.New()
	sales := store.addCategory(projectID, category.KindIncome, "Sales", nil, 0)

	store.add(t, projectID, ledger.KindIncome, ledger.EntryFields{
		FactDate:     day(t, "2026-02-01"),
		ExpectedDate: day(t, "2026-03-15"),
		Amount:       dec("400"),
		CategoryID:   uuidPtr(sales.ID),
		CompanyID:    uuidPtr(companyID),
		AccountID:    uuidPtr(main.ID),
	})

	resp, err := service.GetClosingReport(ctx, projectID, "2026-02", "2026-03")
	require.NoError(t, err)
	assert.True(t, dec("400").Equal(resp.Movements[main.ID]["2026-03"]))
	_, hasFeb := resp.Movements[main.ID]["2026-02"]
	assert.False(t, hasFeb)
}

func TestClosingService_InvalidPeriod(t *testing.T) {
	store := newFakeStore()
	service := NewClosingService(entriesPort{store}, accountsPort{store})
	ctx := context.Background()

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"malformed start", "2026/02", "2026-03"},
		{"malformed end", "2026-02", "march"},
		{"end before start", "2026-04", "2026-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.GetClosingReport(ctx, uuid.New(), tt.start, tt.end)
			require.Error(t, err)
		})
	}
}
