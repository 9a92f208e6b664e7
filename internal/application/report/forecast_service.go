package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cashdesk/backend/internal/domain/ledger"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/cashdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxForecastDays caps the day-bucketed range a single request may cover
const maxForecastDays = 400

// ForecastService projects the day-by-day cash position of a project.
// Settled entries land on their settlement date; pending entries land on
// their expected date while still inside their validity window. Entries
// past that window are overdue: surfaced per day but never added to the
// running balance.
type ForecastService struct {
	entries  ledger.EntryRepository
	accounts ledger.AccountRepository
	clock    shared.Clock
	cache    PayloadCache
	cacheTTL time.Duration
}

// ForecastServiceOption is a functional option for configuring the service
type ForecastServiceOption func(*ForecastService)

// WithForecastClock overrides the wall clock, for tests
func WithForecastClock(clock shared.Clock) ForecastServiceOption {
	return func(s *ForecastService) {
		s.clock = clock
	}
}

// WithForecastCache enables payload caching with the given TTL
func WithForecastCache(cache PayloadCache, ttl time.Duration) ForecastServiceOption {
	return func(s *ForecastService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// NewForecastService creates a new ForecastService
func NewForecastService(entries ledger.EntryRepository, accounts ledger.AccountRepository, opts ...ForecastServiceOption) *ForecastService {
	s := &ForecastService{
		entries:  entries,
		accounts: accounts,
		clock:    shared.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ForecastDay is one day bucket of the projection
type ForecastDay struct {
	Date           string          `json:"date"`
	Inflows        decimal.Decimal `json:"inflows"`
	Outflows       decimal.Decimal `json:"outflows"`
	Net            decimal.Decimal `json:"net"`
	Overdue        decimal.Decimal `json:"overdue"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// ForecastResponse is the day-bucketed cash projection. InitialBalance is
// the consolidated balance across every active account at the range start.
type ForecastResponse struct {
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Data           []ForecastDay   `json:"data"`
}

// GetForecast builds the projection for [start, end], both inclusive days.
func (s *ForecastService) GetForecast(ctx context.Context, projectID uuid.UUID, start, end time.Time) (*ForecastResponse, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "End date must not precede start date")
	}
	if int(end.Sub(start).Hours()/24) > maxForecastDays {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Forecast range is too large")
	}

	cacheKey := fmt.Sprintf("forecast:%s:%s", dayKey(start), dayKey(end))
	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, projectID, cacheKey); ok {
			var cached ForecastResponse
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	today := truncateDay(s.clock.Now())

	accounts, err := s.accounts.FindActiveForProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	initial := decimal.Zero
	for _, account := range accounts {
		initial = initial.Add(account.InitialBalance)
	}

	// Project-wide load: a pending entry may not name an account yet and
	// still belongs in the projection.
	entries, err := s.entries.FindForProject(ctx, projectID, ledger.EntryFilter{})
	if err != nil {
		return nil, err
	}

	inflows := make(map[string]decimal.Decimal)
	outflows := make(map[string]decimal.Decimal)
	overdue := make(map[string]decimal.Decimal)

	for _, entry := range entries {
		// Transfers shift money between project accounts; both legs
		// cancel in a consolidated projection, so count neither.
		if entry.Kind == ledger.KindTransfer {
			continue
		}

		signed := entry.Amount
		if entry.Kind.Sign() < 0 {
			signed = signed.Neg()
		}
		date := truncateDay(entry.EffectiveDate())

		if !entry.IsSettled() && truncateDay(entry.ValidUntil()).Before(today) {
			if !date.Before(start) && !date.After(end) {
				key := dayKey(date)
				overdue[key] = overdue[key].Add(signed.Abs())
			}
			continue
		}

		switch {
		case date.Before(start):
			initial = initial.Add(signed)
		case !date.After(end):
			key := dayKey(date)
			if signed.IsNegative() {
				outflows[key] = outflows[key].Add(signed.Abs())
			} else {
				inflows[key] = inflows[key].Add(signed)
			}
		}
	}

	resp := &ForecastResponse{
		StartDate:      dayKey(start),
		EndDate:        dayKey(end),
		InitialBalance: initial.Round(valueobject.MinorUnitPlaces),
		Data:           make([]ForecastDay, 0),
	}

	running := initial
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
		key := dayKey(cursor)
		in := inflows[key]
		out := outflows[key]
		net := in.Sub(out)
		running = running.Add(net)

		resp.Data = append(resp.Data, ForecastDay{
			Date:           key,
			Inflows:        in.Round(valueobject.MinorUnitPlaces),
			Outflows:       out.Round(valueobject.MinorUnitPlaces),
			Net:            net.Round(valueobject.MinorUnitPlaces),
			Overdue:        overdue[key].Round(valueobject.MinorUnitPlaces),
			RunningBalance: running.Round(valueobject.MinorUnitPlaces),
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			_ = s.cache.Set(ctx, projectID, cacheKey, payload, s.cacheTTL)
		}
	}
	return resp, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
