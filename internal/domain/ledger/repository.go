package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EntryFilter defines filtering options for entry queries
type EntryFilter struct {
	Kind      *EntryKind
	AccountID *uuid.UUID
	CompanyID *uuid.UUID
	From      *time.Time
	To        *time.Time
	// IncludeInactive also returns soft-deleted entries
	IncludeInactive bool
}

// EntryRepository is the persistence port for ledger entries. The three
// mutating methods each run the row write and its balance compensation as
// one atomic unit of work; on failure nothing is applied.
type EntryRepository interface {
	// Create inserts the entry and applies its balance deltas atomically
	Create(ctx context.Context, entry *Entry, deltas []BalanceDelta) error
	// Update persists the entry fields, reverting the old deltas and
	// applying the new ones in the same unit of work
	Update(ctx context.Context, entry *Entry, revert, apply []BalanceDelta) error
	// Deactivate flips the entry inactive and reverts its deltas atomically
	Deactivate(ctx context.Context, entry *Entry, revert []BalanceDelta) error

	// FindByID loads one entry of the given kind; shared.ErrNotFound when
	// absent or belonging to another project
	FindByID(ctx context.Context, projectID uuid.UUID, kind EntryKind, id uuid.UUID) (*Entry, error)
	// FindForProject lists entries matching the filter, ordered by
	// effective date then kind
	FindForProject(ctx context.Context, projectID uuid.UUID, filter EntryFilter) ([]*Entry, error)
	// FindForAccount lists active entries naming the account on any leg
	FindForAccount(ctx context.Context, projectID, accountID uuid.UUID) ([]*Entry, error)
}

// AccountRepository is the read-side port for accounts. Account lifecycle
// is owned by account management; the ledger only reads balances here.
// Balance writes happen inside the entry unit of work.
type AccountRepository interface {
	FindByID(ctx context.Context, projectID, id uuid.UUID) (*Account, error)
	FindActiveForProject(ctx context.Context, projectID uuid.UUID) ([]*Account, error)
}

// SettingsRepository stores the per-project date-lock record
type SettingsRepository interface {
	// GetDateLock returns the project's lock record, or the default record
	// when none has been stored yet
	GetDateLock(ctx context.Context, projectID uuid.UUID) (*DateLock, error)
	SaveDateLock(ctx context.Context, lock *DateLock) error
}
