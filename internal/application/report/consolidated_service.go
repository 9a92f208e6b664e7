package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cashdesk/backend/internal/domain/category"
	"github.com/cashdesk/backend/internal/domain/ledger"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/cashdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Report views. Cash buckets settled entries by their settlement date and
// skips unsettled ones; accrual buckets every active entry by its fact date.
const (
	ViewCash    = "cash"
	ViewAccrual = "accrual"
)

// PayloadCache stores rendered report payloads per project. Satisfied by
// the infrastructure report cache.
type PayloadCache interface {
	Get(ctx context.Context, projectID uuid.UUID, key string) ([]byte, bool)
	Set(ctx context.Context, projectID uuid.UUID, key string, payload []byte, ttl time.Duration) error
}

// ConsolidatedService builds the consolidated result report: category
// rollups for the three categorized kinds plus synthetic summary rows.
type ConsolidatedService struct {
	entries    ledger.EntryRepository
	categories category.Repository
	cache      PayloadCache
	cacheTTL   time.Duration
}

// ConsolidatedServiceOption is a functional option for configuring the service
type ConsolidatedServiceOption func(*ConsolidatedService)

// WithConsolidatedCache enables payload caching with the given TTL
func WithConsolidatedCache(cache PayloadCache, ttl time.Duration) ConsolidatedServiceOption {
	return func(s *ConsolidatedService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// NewConsolidatedService creates a new ConsolidatedService
func NewConsolidatedService(entries ledger.EntryRepository, categories category.Repository, opts ...ConsolidatedServiceOption) *ConsolidatedService {
	s := &ConsolidatedService{
		entries:    entries,
		categories: categories,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReportNode is one row of a consolidated report tree
type ReportNode struct {
	Label     string                     `json:"label"`
	PerPeriod map[string]decimal.Decimal `json:"per_period"`
	Total     decimal.Decimal            `json:"total"`
	Children  []*ReportNode              `json:"children,omitempty"`
}

// ConsolidatedReportResponse carries the five top-level report rows.
// The synthetic rows are always present even when every bucket is zero.
type ConsolidatedReportResponse struct {
	View       string        `json:"view"`
	StartMonth string        `json:"start_month"`
	EndMonth   string        `json:"end_month"`
	Months     []string      `json:"months"`
	Nodes      []*ReportNode `json:"nodes"`
}

// GetConsolidatedReport builds the consolidated report for [startMonth,
// endMonth] in the requested view. Rows: outflows, production,
// total-outflows, inflows, net-result. Category subtrees hold absolute
// amounts; the net-result row carries the only signed figures.
func (s *ConsolidatedService) GetConsolidatedReport(ctx context.Context, projectID uuid.UUID, view, startMonth, endMonth string) (*ConsolidatedReportResponse, error) {
	if view != ViewCash && view != ViewAccrual {
		return nil, shared.NewDomainError("INVALID_VIEW", "View must be cash or accrual")
	}
	start, end, err := parseMonthBounds(startMonth, endMonth)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("consolidated:%s:%s:%s", view, startMonth, endMonth)
	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, projectID, cacheKey); ok {
			var cached ConsolidatedReportResponse
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	months := monthRange(start, end)
	rangeEnd := end.AddDate(0, 1, 0)

	outflows, err := s.buildCategoryTree(ctx, projectID, ledger.KindExpense, category.KindExpense, view, start, rangeEnd, "Outflows")
	if err != nil {
		return nil, err
	}
	production, err := s.buildCategoryTree(ctx, projectID, ledger.KindProduction, category.KindProduction, view, start, rangeEnd, "Production")
	if err != nil {
		return nil, err
	}
	inflows, err := s.buildCategoryTree(ctx, projectID, ledger.KindIncome, category.KindIncome, view, start, rangeEnd, "Inflows")
	if err != nil {
		return nil, err
	}

	totalOutflows := &ReportNode{
		Label:     "Total outflows",
		PerPeriod: make(map[string]decimal.Decimal, len(months)),
	}
	netResult := &ReportNode{
		Label:     "Net result",
		PerPeriod: make(map[string]decimal.Decimal, len(months)),
	}
	for _, month := range months {
		out := outflows.PerPeriod[month].Add(production.PerPeriod[month])
		totalOutflows.PerPeriod[month] = out
		netResult.PerPeriod[month] = inflows.PerPeriod[month].Sub(out)
	}
	totalOutflows.Total = outflows.Total.Add(production.Total)
	netResult.Total = inflows.Total.Sub(totalOutflows.Total)

	resp := &ConsolidatedReportResponse{
		View:       view,
		StartMonth: startMonth,
		EndMonth:   endMonth,
		Months:     months,
		Nodes:      []*ReportNode{outflows, production, totalOutflows, inflows, netResult},
	}

	if s.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			_ = s.cache.Set(ctx, projectID, cacheKey, payload, s.cacheTTL)
		}
	}
	return resp, nil
}

// buildCategoryTree rolls one entry kind up its category forest and wraps
// the result under a synthetic root row. Amounts are absolute; the sign of
// the kind is applied later when computing the net result.
func (s *ConsolidatedService) buildCategoryTree(
	ctx context.Context,
	projectID uuid.UUID,
	entryKind ledger.EntryKind,
	categoryKind category.Kind,
	view string,
	start, rangeEnd time.Time,
	label string,
) (*ReportNode, error) {
	nodes, err := s.categories.FindByKind(ctx, projectID, categoryKind)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.FindForProject(ctx, projectID, ledger.EntryFilter{Kind: &entryKind})
	if err != nil {
		return nil, err
	}

	leaf := category.LeafAmounts{}
	for _, entry := range entries {
		date, ok := bucketDate(entry, view)
		if !ok || date.Before(start) || !date.Before(rangeEnd) {
			continue
		}
		if entry.CategoryID == nil {
			continue
		}
		leaf.Add(*entry.CategoryID, monthKey(date), entry.Amount)
	}

	forest := category.BuildForest(nodes, leaf)

	root := &ReportNode{
		Label:     label,
		PerPeriod: make(map[string]decimal.Decimal),
	}
	for _, child := range forest.Roots {
		if node := toReportNode(child); node != nil {
			root.Children = append(root.Children, node)
		}
		for period, amount := range child.PerPeriod {
			root.PerPeriod[period] = root.PerPeriod[period].Add(amount)
		}
		root.Total = root.Total.Add(child.Total)
	}
	roundPeriods(root)
	return root, nil
}

// bucketDate picks the period bucket for an entry under the given view,
// or reports that the entry is out of scope for the view.
func bucketDate(e *ledger.Entry, view string) (time.Time, bool) {
	if view == ViewAccrual {
		return e.FactDate, true
	}
	if !e.IsSettled() {
		return time.Time{}, false
	}
	return e.EffectiveDate(), true
}

// toReportNode converts a rollup subtree, dropping inactive zero-total
// rows. Synthetic roots are built elsewhere and never dropped.
func toReportNode(n *category.RollupNode) *ReportNode {
	if !n.HasActivity() {
		return nil
	}
	node := &ReportNode{
		Label:     n.Label,
		PerPeriod: n.PerPeriod,
		Total:     n.Total,
	}
	for _, child := range n.Children {
		if c := toReportNode(child); c != nil {
			node.Children = append(node.Children, c)
		}
	}
	roundPeriods(node)
	return node
}

func roundPeriods(n *ReportNode) {
	for period, amount := range n.PerPeriod {
		n.PerPeriod[period] = amount.Round(valueobject.MinorUnitPlaces)
	}
	n.Total = n.Total.Round(valueobject.MinorUnitPlaces)
}
