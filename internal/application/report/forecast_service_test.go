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

func newForecastFixture(t *testing.T) (*fakeStore, *ForecastService, *fixedClock) {
	store := newFakeStore()
	clock := &fixedClock{now: day(t, "2026-08-30")}
	service := NewForecastService(entriesPort{store}, accountsPort{store}, WithForecastClock(clock))
	return store, service, clock
}

func forecastDay(t *testing.T, resp *ForecastResponse, date string) ForecastDay {
	t.Helper()
	for _, d := range resp.Data {
		if d.Date == date {
			return d
		}
	}
	t.Fatalf("day %s not in forecast", date)
	return ForecastDay{}
}

func TestForecastService_ProjectsPendingAndSettled(t *testing.T) {
	store, service, _ := newForecastFixture(t)
	ctx := context.Background()

	projectID := uuid.New()
	main := store.addAccount(projectID, "Main", "1000")
	companyID := uuid.New()
	sales := store.addCategory(projectID, category.KindIncome, "Sales", nil, 0)
	rent := store.addCategory(projectID, category.KindExpense, "Rent", nil, 0)

	// Settled before the range: folds into the initial balance.
	store.add(t, projectID, ledger.KindIncome, ledger.EntryFields{
		FactDate:   day(t, "2026-08-01"),
		ActualDate: dayPtr(t, "2026-08-01"),
		Amount:     dec("250"),
		CategoryID: uuidPtr(sales.ID),
		CompanyID:  uuidPtr(companyID),
		AccountID:  uuidPtr(main.ID),
	})
	// Settled inside the range.
	store.add(t, projectID, ledger.KindExpense, ledger.EntryFields{
		FactDate:   day(t, "2026-09-02"),
		ActualDate: dayPtr(t, "2026-09-02"),
		Amount:     dec("100"),
		CategoryID: uuidPtr(rent.ID),
		CompanyID:  uuidPtr(companyID),
		AccountID:  uuidPtr(main.ID),
	})
	// Pending with a future expected date: counts on that day.
	store.add(t, projectID, ledger.KindIncome, ledger.EntryFields{
		FactDate:     day(t, "2026-08-25"),
		ExpectedDate: day(t, "2026-09-05"),
		Amount:       dec("500"),
		CategoryID:   uuidPtr(sales.ID),
		CompanyID:    uuidPtr(companyID),
		AccountID:    uuidPtr(main.ID),
	})

	resp, err := service.GetForecast(ctx, projectID, day(t, "2026-09-01"), day(t, "2026-09-10"))
	require.NoError(t, err)

	assert.True(t, dec("1250").Equal(resp.InitialBalance), "initial %s", resp.InitialBalance)
	require.Len(t, resp.Data, 10)

	d2 := forecastDay(t, resp, "2026-09-02")
	assert.True(t, dec("100").Equal(d2.Outflows))
	assert.True(t, dec("1150").Equal(d2.RunningBalance))

	d5 := forecastDay(t, resp, "2026-09-05")
	assert.True(t, dec("500").Equal(d5.Inflows))
	assert.True(t, dec("1650").Equal(d5.RunningBalance))

	last := resp.Data[len(resp.Data)-1]
	assert.True(t, dec("1650").Equal(last.RunningBalance))
}

func TestForecastService_OverdueExcludedFromRunningBalance(t *testing.T) {
	store, service, _ := newForecastFixture(t)
	ctx := context.Background()

	projectID := uuid.New()
	main := store.addAccount(projectID, "Main", "1000")
	companyID := uuid.New()
	sales := store.addCategory(projectID, category.KindIncome, "Sales", nil, 0)
	rent := store.addCategory(projectID, category.KindExpense, "Rent", nil, 0)

	// Expected in the past with no deadline: overdue as of today.
	store.add(t, projectID, ledger.KindExpense, ledger.EntryFields{
		FactDate:     day(t, "2026-08-10"),
		ExpectedDate: day(t, "2026-08-20"),
		Amount:       dec("200"),
		CategoryID:   uuidPtr(rent.ID),
		CompanyID:    uuidPtr(companyID),
		AccountID:    uuidPtr(main.ID),
	})
	// Expected in the past but the deadline keeps it valid.
	store.add(t, projectID, ledger.KindIncome, ledger.EntryFields{
		FactDate:        day(t, "2026-08-10"),
		ExpectedDate:    day(t, "2026-08-18"),
		ReceiveDeadline: dayPtr(t, "2026-09-05"),
		Amount:          dec("300"),
		CategoryID:      uuidPtr(sales.ID),
		CompanyID:       uuidPtr(companyID),
		AccountID:       uuidPtr(main.ID),
	})

	resp, err := service.GetForecast(ctx, projectID, day(t, "2026-08-15"), day(t, "2026-09-10"))
	require.NoError(t, err)

	overdueDay := forecastDay(t, resp, "2026-08-20")
	assert.True(t, dec("200").Equal(overdueDay.Overdue), "overdue %s", overdueDay.Overdue)
	assert.True(t, overdueDay.Outflows.IsZero())

	validDay := forecastDay(t, resp, "2026-08-18")
	assert.True(t, dec("300").Equal(validDay.Inflows))

	// Only the still-valid income moves the projection.
	last := resp.Data[len(resp.Data)-1]
	assert.True(t, dec("1300").Equal(last.RunningBalance), "final %s", last.RunningBalance)
}

func TestForecastService_TransfersCancelOut(t *testing.T) {
	store, service, _ := newForecastFixture(t)
	ctx := context.Background()

	projectID := uuid.New()
	main := store.addAccount(projectID, "Main", "700")
	savings := store.addAccount(projectID, "Savings", "300")

	store.add(t, projectID, ledger.KindTransfer, ledger.EntryFields{
		FactDate:             day(t, "2026-09-03"),
		ActualDate:           dayPtr(t, "2026-09-03"),
		Amount:               dec("150"),
		SourceAccountID:      uuidPtr(main.ID),
		DestinationAccountID: uuidPtr(savings.ID),
	})

	resp, err := service.GetForecast(ctx, projectID, day(t, "2026-09-01"), day(t, "2026-09-05"))
	require.NoError(t, err)

	assert.True(t, dec("1000").Equal(resp.InitialBalance))
	d3 := forecastDay(t, resp, "2026-09-03")
	assert.True(t, d3.Inflows.IsZero())
	assert.True(t, d3.Outflows.IsZero())
	assert.True(t, dec("1000").Equal(d3.RunningBalance))
}

func TestForecastService_CountsPendingWithoutAccount(t *testing.T) {
	store, service, _ := newForecastFixture(t)
	ctx := context.Background()

	projectID := uuid.New()
	store.addAccount(projectID, "Main", "1000")
	companyID := uuid.New()
	sales := store.addCategory(projectID, category.KindIncome, "Sales", nil, 0)
	rent := store.addCategory(projectID, category.KindExpense, "Rent", nil, 0)

	// A receivable may stay account-less until it settles; it still lands
	// on its expected day.
	store.add(t, projectID, ledger.KindIncome, ledger.EntryFields{
		FactDate:     day(t, "2026-08-25"),
		ExpectedDate: day(t, "2026-09-05"),
		Amount:       dec("500"),
		CategoryID:   uuidPtr(sales.ID),
		CompanyID:    uuidPtr(companyID),
	})
	// Same for an overdue payable.
	store.add(t, projectID, ledger.KindExpense, ledger.EntryFields{
		FactDate:     day(t, "2026-08-10"),
		ExpectedDate: day(t, "2026-08-20"),
		Amount:       dec("200"),
		CategoryID:   uuidPtr(rent.ID),
		CompanyID:    uuidPtr(companyID),
	})

	resp, err := service.GetForecast(ctx, projectID, day(t, "2026-08-15"), day(t, "2026-09-10"))
	require.NoError(t, err)

	d5 := forecastDay(t, resp, "2026-09-05")
	assert.True(t, dec("500").Equal(d5.Inflows), "inflows %s", d5.Inflows)

	overdueDay := forecastDay(t, resp, "2026-08-20")
	assert.True(t, dec("200").Equal(overdueDay.Overdue))
	assert.True(t, overdueDay.Outflows.IsZero())

	last := resp.Data[len(resp.Data)-1]
	assert.True(t, dec("1500").Equal(last.RunningBalance), "final %s", last.RunningBalance)
}

func TestForecastService_RejectsBadRanges(t *testing.T) {
	_, service, _ := newForecastFixture(t)
	ctx := context.Background()

	_, err := service.GetForecast(ctx, uuid.New(), day(t, "2026-09-10"), day(t, "2026-09-01"))
	require.Error(t, err)

	_, err = service.GetForecast(ctx, uuid.New(), day(t, "2026-01-01"), day(t, "2028-01-01"))
	require.Error(t, err)
}
