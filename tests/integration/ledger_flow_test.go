// Package integration tests the critical ledger flows against a real
// PostgreSQL database:
// - Entry lifecycle keeps account balances consistent
// - Date lock blocks backdated settlement until unlocked
// - Project scoping isolates tenants
// - Account statements reconcile with maintained balances
package integration

import (
	"context"
	"testing"
	"time"

	ledgerapp "github.com/cashdesk/backend/internal/application/ledger"
	reportapp "github.com/cashdesk/backend/internal/application/report"
	"github.com/cashdesk/backend/internal/domain/ledger"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/cashdesk/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// LedgerTestSetup provides test infrastructure for ledger integration tests
type LedgerTestSetup struct {
	DB             *TestDB
	EntryService   *ledgerapp.EntryService
	AccountService *ledgerapp.AccountService
	Settings       *ledgerapp.SettingsService
	Reconciliation *reportapp.ReconciliationService
	AccountRepo    ledger.AccountRepository
	EntryRepo      ledger.EntryRepository

	ProjectID uuid.UUID
	CompanyID uuid.UUID
	MainID    uuid.UUID
	SavingsID uuid.UUID
	SalesID   uuid.UUID
	RentID    uuid.UUID
}

// NewLedgerTestSetup creates test infrastructure with real database
func NewLedgerTestSetup(t *testing.T) *LedgerTestSetup {
	t.Helper()

	testDB := NewSharedTestDB(t)

	entryRepo := persistence.NewGormEntryRepository(testDB.DB)
	accountRepo := persistence.NewGormAccountRepository(testDB.DB)
	categoryRepo := persistence.NewGormCategoryRepository(testDB.DB)
	settingsRepo := persistence.NewGormSettingsRepository(testDB.DB)

	projectID := uuid.New()
	companyID := uuid.New()
	mainID := uuid.New()
	savingsID := uuid.New()
	salesID := uuid.New()
	rentID := uuid.New()

	testDB.CreateTestAccount(projectID, mainID, "Main", decimal.NewFromInt(1000))
	testDB.CreateTestAccount(projectID, savingsID, "Savings", decimal.NewFromInt(500))
	testDB.CreateTestCategory(projectID, salesID, "INCOME", "Sales", nil)
	testDB.CreateTestCategory(projectID, rentID, "EXPENSE", "Rent", nil)

	return &LedgerTestSetup{
		DB:             testDB,
		EntryService:   ledgerapp.NewEntryService(entryRepo, accountRepo, settingsRepo),
		AccountService: ledgerapp.NewAccountService(accountRepo),
		Settings:       ledgerapp.NewSettingsService(settingsRepo),
		Reconciliation: reportapp.NewReconciliationService(entryRepo, accountRepo, categoryRepo),
		AccountRepo:    accountRepo,
		EntryRepo:      entryRepo,
		ProjectID:      projectID,
		CompanyID:      companyID,
		MainID:         mainID,
		SavingsID:      savingsID,
		SalesID:        salesID,
		RentID:         rentID,
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestEntryLifecycleAdjustsBalances(t *testing.T) {
	setup := NewLedgerTestSetup(t)
	ctx := context.Background()
	today := time.Now().Truncate(24 * time.Hour)

	// Settled income raises the account
	income, err := setup.EntryService.CreateEntry(ctx, setup.ProjectID, ledger.KindIncome, ledgerapp.CreateEntryRequest{
		FactDate:   today,
		ActualDate: timePtr(today),
		Amount:     decimal.NewFromInt(500),
		CategoryID: &setup.SalesID,
		CompanyID:  &setup.CompanyID,
		AccountID:  &setup.MainID,
	})
	require.NoError(t, err)
	assert.True(t, setup.DB.AccountBalance(setup.MainID).Equal(decimal.NewFromInt(1500)))

	// Transfer moves value between the two accounts
	transfer, err := setup.EntryService.CreateEntry(ctx, setup.ProjectID, ledger.KindTransfer, ledgerapp.CreateEntryRequest{
		FactDate:        today,
		ActualDate:      timePtr(today),
		Amount:          decimal.NewFromInt(300),
		SourceAccountID: &setup.MainID,
		DestAccountID:   &setup.SavingsID,
	})
	require.NoError(t, err)
	assert.True(t, setup.DB.AccountBalance(setup.MainID).Equal(decimal.NewFromInt(1200)))
	assert.True(t, setup.DB.AccountBalance(setup.SavingsID).Equal(decimal.NewFromInt(800)))

	// Amount change reverts the old delta and applies the new one
	newAmount := decimal.NewFromInt(400)
	_, err = setup.EntryService.UpdateEntry(ctx, setup.ProjectID, ledger.KindIncome, income.ID, ledgerapp.UpdateEntryRequest{
		Amount: &newAmount,
	})
	require.NoError(t, err)
	assert.True(t, setup.DB.AccountBalance(setup.MainID).Equal(decimal.NewFromInt(1100)))

	// Soft delete compensates both transfer legs
	require.NoError(t, setup.EntryService.DeleteEntry(ctx, setup.ProjectID, ledger.KindTransfer, transfer.ID))
	assert.True(t, setup.DB.AccountBalance(setup.MainID).Equal(decimal.NewFromInt(1400)))
	assert.True(t, setup.DB.AccountBalance(setup.SavingsID).Equal(decimal.NewFromInt(500)))

	// The deleted row survives as an inactive entry
	deleted, err := setup.EntryRepo.FindByID(ctx, setup.ProjectID, ledger.KindTransfer, transfer.ID)
	require.NoError(t, err)
	assert.False(t, deleted.Active)
}

func TestUnsettledEntryLeavesBalancesUntouched(t *testing.T) {
	setup := NewLedgerTestSetup(t)
	ctx := context.Background()
	today := time.Now().Truncate(24 * time.Hour)

	pending, err := setup.EntryService.CreateEntry(ctx, setup.ProjectID, ledger.KindIncome, ledgerapp.CreateEntryRequest{
		FactDate:        today,
		ExpectedDate:    timePtr(today.AddDate(0, 0, 14)),
		ReceiveDeadline: timePtr(today.AddDate(0, 1, 0)),
		Amount:          decimal.NewFromInt(900),
		CategoryID:      &setup.SalesID,
		CompanyID:       &setup.CompanyID,
	})
	require.NoError(t, err)
	assert.Nil(t, pending.AccountID)
	assert.True(t, setup.DB.AccountBalance(setup.MainID).Equal(decimal.NewFromInt(1000)))

	// Settling it later applies the delta
	_, err = setup.EntryService.UpdateEntry(ctx, setup.ProjectID, ledger.KindIncome, pending.ID, ledgerapp.UpdateEntryRequest{
		ActualDate: timePtr(today),
		AccountID:  &setup.MainID,
	})
	require.NoError(t, err)
	assert.True(t, setup.DB.AccountBalance(setup.MainID).Equal(decimal.NewFromInt(1900)))
}

func TestDateLockBlocksBackdatedSettlement(t *testing.T) {
	setup := NewLedgerTestSetup(t)
	ctx := context.Background()
	backdated := time.Now().AddDate(0, 0, -30)

	req := ledgerapp.CreateEntryRequest{
		FactDate:   backdated,
		ActualDate: timePtr(backdated),
		Amount:     decimal.NewFromInt(100),
		CategoryID: &setup.RentID,
		CompanyID:  &setup.CompanyID,
		AccountID:  &setup.MainID,
	}

	_, err := setup.EntryService.CreateEntry(ctx, setup.ProjectID, ledger.KindExpense, req)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DATE_LOCKED", domainErr.Code)

	// Unlocking suspends the window check
	_, err = setup.Settings.Unlock(ctx, setup.ProjectID, ledgerapp.UnlockRequest{
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	created, err := setup.EntryService.CreateEntry(ctx, setup.ProjectID, ledger.KindExpense, req)
	require.NoError(t, err)
	assert.True(t, setup.DB.AccountBalance(setup.MainID).Equal(decimal.NewFromInt(900)))

	// Relocking restores the guard for new settlement dates, but the
	// stored entry stays deletable: the lock governs supplied dates, not
	// history.
	_, err = setup.Settings.Relock(ctx, setup.ProjectID)
	require.NoError(t, err)

	_, err = setup.EntryService.UpdateEntry(ctx, setup.ProjectID, ledger.KindExpense, created.ID, ledgerapp.UpdateEntryRequest{
		Amount: decimalPtr(decimal.NewFromInt(200)),
	})
	require.Error(t, err)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DATE_LOCKED", domainErr.Code)

	require.NoError(t, setup.EntryService.DeleteEntry(ctx, setup.ProjectID, ledger.KindExpense, created.ID))
	assert.True(t, setup.DB.AccountBalance(setup.MainID).Equal(decimal.NewFromInt(1000)))
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func TestProjectScopingIsolatesTenants(t *testing.T) {
	setupA := NewLedgerTestSetup(t)
	setupB := NewLedgerTestSetup(t)
	ctx := context.Background()
	today := time.Now().Truncate(24 * time.Hour)

	income, err := setupA.EntryService.CreateEntry(ctx, setupA.ProjectID, ledger.KindIncome, ledgerapp.CreateEntryRequest{
		FactDate:   today,
		ActualDate: timePtr(today),
		Amount:     decimal.NewFromInt(500),
		CategoryID: &setupA.SalesID,
		CompanyID:  &setupA.CompanyID,
		AccountID:  &setupA.MainID,
	})
	require.NoError(t, err)

	// The other project cannot see the entry or the accounts
	_, err = setupB.EntryService.GetEntry(ctx, setupB.ProjectID, ledger.KindIncome, income.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = setupB.AccountService.GetAccount(ctx, setupB.ProjectID, setupA.MainID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	entries, err := setupB.EntryService.ListEntries(ctx, setupB.ProjectID, ledgerapp.EntryListFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStatementReconcilesWithMaintainedBalance(t *testing.T) {
	setup := NewLedgerTestSetup(t)
	ctx := context.Background()
	today := time.Now().Truncate(24 * time.Hour)

	_, err := setup.EntryService.CreateEntry(ctx, setup.ProjectID, ledger.KindIncome, ledgerapp.CreateEntryRequest{
		FactDate:   today.AddDate(0, 0, -2),
		ActualDate: timePtr(today.AddDate(0, 0, -2)),
		Amount:     decimal.NewFromInt(500),
		CategoryID: &setup.SalesID,
		CompanyID:  &setup.CompanyID,
		AccountID:  &setup.MainID,
	})
	require.NoError(t, err)

	_, err = setup.EntryService.CreateEntry(ctx, setup.ProjectID, ledger.KindExpense, ledgerapp.CreateEntryRequest{
		FactDate:   today.AddDate(0, 0, -1),
		ActualDate: timePtr(today.AddDate(0, 0, -1)),
		Amount:     decimal.NewFromInt(150),
		CategoryID: &setup.RentID,
		CompanyID:  &setup.CompanyID,
		AccountID:  &setup.MainID,
	})
	require.NoError(t, err)

	statement, err := setup.Reconciliation.GetStatement(ctx, setup.ProjectID, setup.MainID,
		today.AddDate(0, 0, -7), today.Add(24*time.Hour))
	require.NoError(t, err)

	require.Len(t, statement.Transactions, 2)
	assert.Equal(t, "IN", statement.Transactions[0].Direction)
	assert.Equal(t, "Income / Sales", statement.Transactions[0].Label)
	assert.Equal(t, "OUT", statement.Transactions[1].Direction)

	// The statement's final balance matches the balance the writes maintained
	assert.True(t, statement.FinalBalance.Equal(setup.DB.AccountBalance(setup.MainID)))
}
