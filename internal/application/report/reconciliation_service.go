package report

import (
	"context"
	"time"

	"github.com/cashdesk/backend/internal/domain/category"
	"github.com/cashdesk/backend/internal/domain/ledger"
	"github.com/cashdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationService reconstructs account balances from ledger history
// and produces account statements. Balances are always recomputed from raw
// entries; nothing here is persisted.
type ReconciliationService struct {
	entries    ledger.EntryRepository
	accounts   ledger.AccountRepository
	categories category.Repository
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	entries ledger.EntryRepository,
	accounts ledger.AccountRepository,
	categories category.Repository,
) *ReconciliationService {
	return &ReconciliationService{
		entries:    entries,
		accounts:   accounts,
		categories: categories,
	}
}

// BalanceAsOf reconstructs the account balance immediately before the given
// date: initial balance plus every active entry naming the account whose
// effective date is strictly earlier.
func (s *ReconciliationService) BalanceAsOf(ctx context.Context, projectID, accountID uuid.UUID, date time.Time) (decimal.Decimal, error) {
	account, err := s.accounts.FindByID(ctx, projectID, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	entries, err := s.entries.FindForAccount(ctx, projectID, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	balance := account.InitialBalance
	for _, entry := range entries {
		if entry.EffectiveDate().Before(date) {
			balance = balance.Add(entry.SignedAmount(accountID))
		}
	}
	return balance, nil
}

// StatementLine is one movement on an account statement
type StatementLine struct {
	EntryID        uuid.UUID       `json:"entry_id"`
	Date           time.Time       `json:"date"`
	Kind           string          `json:"kind"`
	Direction      string          `json:"direction"` // IN or OUT
	Label          string          `json:"label"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	Settled        bool            `json:"settled"`
}

// StatementResponse is the account statement for a date range
type StatementResponse struct {
	AccountID      uuid.UUID       `json:"account_id"`
	AccountName    string          `json:"account_name"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	FinalBalance   decimal.Decimal `json:"final_balance"`
	Transactions   []StatementLine `json:"transactions"`
}

// GetStatement returns every movement touching the account in the range,
// ordered by effective date, with a running balance starting from the
// reconstructed balance at the range start.
func (s *ReconciliationService) GetStatement(ctx context.Context, projectID, accountID uuid.UUID, start, end time.Time) (*StatementResponse, error) {
	account, err := s.accounts.FindByID(ctx, projectID, accountID)
	if err != nil {
		return nil, err
	}

	initial, err := s.BalanceAsOf(ctx, projectID, accountID, start)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.FindForAccount(ctx, projectID, accountID)
	if err != nil {
		return nil, err
	}

	paths, err := s.categoryPaths(ctx, projectID)
	if err != nil {
		return nil, err
	}

	lines := make([]StatementLine, 0)
	running := initial
	for _, entry := range entries {
		date := entry.EffectiveDate()
		if date.Before(start) || date.After(end) {
			continue
		}

		signed := entry.SignedAmount(accountID)
		running = running.Add(signed)

		direction := "IN"
		if signed.IsNegative() {
			direction = "OUT"
		}

		lines = append(lines, StatementLine{
			EntryID:        entry.ID,
			Date:           date,
			Kind:           entry.Kind.PathSegment(),
			Direction:      direction,
			Label:          entryLabel(entry, paths),
			Amount:         signed.Abs().Round(valueobject.MinorUnitPlaces),
			RunningBalance: running.Round(valueobject.MinorUnitPlaces),
			Settled:        entry.IsSettled(),
		})
	}

	return &StatementResponse{
		AccountID:      accountID,
		AccountName:    account.Name,
		StartDate:      start,
		EndDate:        end,
		InitialBalance: initial.Round(valueobject.MinorUnitPlaces),
		FinalBalance:   running.Round(valueobject.MinorUnitPlaces),
		Transactions:   lines,
	}, nil
}

// categoryPaths builds the display-path lookup across all three forests
func (s *ReconciliationService) categoryPaths(ctx context.Context, projectID uuid.UUID) (map[uuid.UUID]string, error) {
	paths := make(map[uuid.UUID]string)
	for _, kind := range []category.Kind{category.KindIncome, category.KindExpense, category.KindProduction} {
		nodes, err := s.categories.FindByKind(ctx, projectID, kind)
		if err != nil {
			return nil, err
		}
		forest := category.BuildForest(nodes, category.LeafAmounts{})
		for _, node := range nodes {
			paths[node.ID] = forest.PathOf(node.ID)
		}
	}
	return paths, nil
}

// entryLabel builds the human label from the entry kind and category path
func entryLabel(e *ledger.Entry, paths map[uuid.UUID]string) string {
	label := e.Kind.DisplayName()
	if e.CategoryID != nil {
		if path, ok := paths[*e.CategoryID]; ok && path != "" {
			label = label + " / " + path
		}
	}
	return label
}

// monthKey buckets a date into its calendar month
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// dayKey buckets a date into its calendar day
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// monthRange expands [startMonth, endMonth] into ordered month keys
func monthRange(start, end time.Time) []string {
	var keys []string
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(last) {
		keys = append(keys, monthKey(cursor))
		cursor = cursor.AddDate(0, 1, 0)
	}
	return keys
}
