package report

import (
	"context"
	"time"

	"github.com/cashdesk/backend/internal/domain/ledger"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/cashdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClosingService produces the monthly closing report: for every active
// account, the balance entering the range and the net movement per month.
type ClosingService struct {
	entries  ledger.EntryRepository
	accounts ledger.AccountRepository
}

// NewClosingService creates a new ClosingService
func NewClosingService(entries ledger.EntryRepository, accounts ledger.AccountRepository) *ClosingService {
	return &ClosingService{
		entries:  entries,
		accounts: accounts,
	}
}

// ClosingAccount identifies one account column in the closing report
type ClosingAccount struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Type string    `json:"type"`
}

// ClosingReportResponse is the monthly closing matrix. Movements maps
// account id to month key to the net signed movement of that month.
type ClosingReportResponse struct {
	StartMonth      string                                `json:"start_month"`
	EndMonth        string                                `json:"end_month"`
	Months          []string                              `json:"months"`
	Accounts        []ClosingAccount                      `json:"accounts"`
	InitialBalances map[uuid.UUID]decimal.Decimal         `json:"initial_balances"`
	Movements       map[uuid.UUID]map[string]decimal.Decimal `json:"movements"`
}

// GetClosingReport builds the closing matrix for [startMonth, endMonth],
// both given as "2006-01". Initial balances are reconstructed as of the
// first day of startMonth; movements bucket active entries by effective date.
func (s *ClosingService) GetClosingReport(ctx context.Context, projectID uuid.UUID, startMonth, endMonth string) (*ClosingReportResponse, error) {
	start, end, err := parseMonthBounds(startMonth, endMonth)
	if err != nil {
		return nil, err
	}
	rangeEnd := end.AddDate(0, 1, 0) // exclusive

	accounts, err := s.accounts.FindActiveForProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	resp := &ClosingReportResponse{
		StartMonth:      startMonth,
		EndMonth:        endMonth,
		Months:          monthRange(start, end),
		Accounts:        make([]ClosingAccount, 0, len(accounts)),
		InitialBalances: make(map[uuid.UUID]decimal.Decimal, len(accounts)),
		Movements:       make(map[uuid.UUID]map[string]decimal.Decimal, len(accounts)),
	}

	for _, account := range accounts {
		resp.Accounts = append(resp.Accounts, ClosingAccount{
			ID:   account.ID,
			Name: account.Name,
			Type: string(account.Type),
		})

		entries, err := s.entries.FindForAccount(ctx, projectID, account.ID)
		if err != nil {
			return nil, err
		}

		initial := account.InitialBalance
		movements := make(map[string]decimal.Decimal)
		for _, entry := range entries {
			date := entry.EffectiveDate()
			signed := entry.SignedAmount(account.ID)
			switch {
			case date.Before(start):
				initial = initial.Add(signed)
			case date.Before(rangeEnd):
				key := monthKey(date)
				movements[key] = movements[key].Add(signed)
			}
		}
		for key, amount := range movements {
			movements[key] = amount.Round(valueobject.MinorUnitPlaces)
		}

		resp.InitialBalances[account.ID] = initial.Round(valueobject.MinorUnitPlaces)
		resp.Movements[account.ID] = movements
	}

	return resp, nil
}

// parseMonthBounds parses and orders a "2006-01" month pair
func parseMonthBounds(startMonth, endMonth string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", startMonth)
	if err != nil {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_PERIOD", "Start month must be formatted as YYYY-MM")
	}
	end, err := time.Parse("2006-01", endMonth)
	if err != nil {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_PERIOD", "End month must be formatted as YYYY-MM")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_PERIOD", "End month must not precede start month")
	}
	return start, end, nil
}
