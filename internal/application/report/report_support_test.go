package report

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/cashdesk/backend/internal/domain/category"
	"github.com/cashdesk/backend/internal/domain/ledger"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeStore backs the report services with in-memory data. The entry port
// mirrors the persistence contract: mutations apply balance deltas to the
// held accounts.
type fakeStore struct {
	accounts   map[uuid.UUID]*ledger.Account
	entries    []*ledger.Entry
	categories map[category.Kind][]*category.Node
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts:   make(map[uuid.UUID]*ledger.Account),
		categories: make(map[category.Kind][]*category.Node),
	}
}

func (f *fakeStore) addAccount(projectID uuid.UUID, name, initial string) *ledger.Account {
	balance := decimal.RequireFromString(initial)
	account := &ledger.Account{
		ProjectEntity:  shared.NewProjectEntity(projectID),
		Name:           name,
		Type:           ledger.AccountTypeChecking,
		CompanyID:      uuid.New(),
		InitialBalance: balance,
		CurrentBalance: balance,
		Active:         true,
	}
	f.accounts[account.ID] = account
	return account
}

func (f *fakeStore) addCategory(projectID uuid.UUID, kind category.Kind, label string, parentID *uuid.UUID, order int) *category.Node {
	node := &category.Node{
		ID:           uuid.New(),
		ProjectID:    projectID,
		Kind:         kind,
		Label:        label,
		ParentID:     parentID,
		DisplayOrder: order,
		Active:       true,
	}
	f.categories[kind] = append(f.categories[kind], node)
	return node
}

func (f *fakeStore) add(t *testing.T, projectID uuid.UUID, kind ledger.EntryKind, fields ledger.EntryFields) *ledger.Entry {
	t.Helper()
	entry, err := ledger.NewEntry(projectID, kind, fields)
	require.NoError(t, err)
	f.entries = append(f.entries, entry)
	for _, delta := range entry.Deltas() {
		if account, ok := f.accounts[delta.AccountID]; ok {
			account.CurrentBalance = account.CurrentBalance.Add(delta.Amount)
		}
	}
	return entry
}

type entriesPort struct{ store *fakeStore }

func (p entriesPort) Create(ctx context.Context, entry *ledger.Entry, deltas []ledger.BalanceDelta) error {
	p.store.entries = append(p.store.entries, entry)
	for _, delta := range deltas {
		account, ok := p.store.accounts[delta.AccountID]
		if !ok {
			return shared.ErrNotFound
		}
		account.CurrentBalance = account.CurrentBalance.Add(delta.Amount)
	}
	return nil
}

func (p entriesPort) Update(ctx context.Context, entry *ledger.Entry, revert, apply []ledger.BalanceDelta) error {
	for _, delta := range append(revert, apply...) {
		if account, ok := p.store.accounts[delta.AccountID]; ok {
			account.CurrentBalance = account.CurrentBalance.Add(delta.Amount)
		}
	}
	return nil
}

func (p entriesPort) Deactivate(ctx context.Context, entry *ledger.Entry, revert []ledger.BalanceDelta) error {
	for _, delta := range revert {
		if account, ok := p.store.accounts[delta.AccountID]; ok {
			account.CurrentBalance = account.CurrentBalance.Add(delta.Amount)
		}
	}
	return nil
}

func (p entriesPort) FindByID(ctx context.Context, projectID uuid.UUID, kind ledger.EntryKind, id uuid.UUID) (*ledger.Entry, error) {
	for _, entry := range p.store.entries {
		if entry.ID == id && entry.ProjectID == projectID && entry.Kind == kind {
			return entry, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (p entriesPort) FindForProject(ctx context.Context, projectID uuid.UUID, filter ledger.EntryFilter) ([]*ledger.Entry, error) {
	var result []*ledger.Entry
	for _, entry := range p.store.entries {
		if entry.ProjectID != projectID {
			continue
		}
		if !filter.IncludeInactive && !entry.Active {
			continue
		}
		if filter.Kind != nil && entry.Kind != *filter.Kind {
			continue
		}
		result = append(result, entry)
	}
	sortEntries(result)
	return result, nil
}

func (p entriesPort) FindForAccount(ctx context.Context, projectID, accountID uuid.UUID) ([]*ledger.Entry, error) {
	var result []*ledger.Entry
	for _, entry := range p.store.entries {
		if entry.ProjectID == projectID && entry.Active && entry.Names(accountID) {
			result = append(result, entry)
		}
	}
	sortEntries(result)
	return result, nil
}

func sortEntries(entries []*ledger.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].EffectiveDate(), entries[j].EffectiveDate()
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return entries[i].Kind < entries[j].Kind
	})
}

type accountsPort struct{ store *fakeStore }

func (p accountsPort) FindByID(ctx context.Context, projectID, id uuid.UUID) (*ledger.Account, error) {
	if account, ok := p.store.accounts[id]; ok && account.ProjectID == projectID {
		return account, nil
	}
	return nil, shared.ErrNotFound
}

func (p accountsPort) FindActiveForProject(ctx context.Context, projectID uuid.UUID) ([]*ledger.Account, error) {
	var result []*ledger.Account
	for _, account := range p.store.accounts {
		if account.ProjectID == projectID && account.Active {
			result = append(result, account)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type categoriesPort struct{ store *fakeStore }

func (p categoriesPort) FindByKind(ctx context.Context, projectID uuid.UUID, kind category.Kind) ([]*category.Node, error) {
	var result []*category.Node
	for _, node := range p.store.categories[kind] {
		if node.ProjectID == projectID {
			result = append(result, node)
		}
	}
	return result, nil
}

func (p categoriesPort) FindByID(ctx context.Context, projectID, id uuid.UUID) (*category.Node, error) {
	for _, nodes := range p.store.categories {
		for _, node := range nodes {
			if node.ID == id && node.ProjectID == projectID {
				return node, nil
			}
		}
	}
	return nil, shared.ErrNotFound
}

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func dayPtr(t *testing.T, value string) *time.Time {
	d := day(t, value)
	return &d
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }

var (
	_ ledger.EntryRepository   = entriesPort{}
	_ ledger.AccountRepository = accountsPort{}
	_ category.Repository      = categoriesPort{}
)
