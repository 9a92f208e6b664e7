package ledger

import (
	"context"
	"time"

	"github.com/cashdesk/backend/internal/domain/ledger"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportInvalidator drops cached report payloads for a project. Every
// successful ledger mutation goes through it.
type ReportInvalidator interface {
	InvalidateProject(ctx context.Context, projectID uuid.UUID) error
}

// noopInvalidator is used when no report cache is wired
type noopInvalidator struct{}

func (noopInvalidator) InvalidateProject(context.Context, uuid.UUID) error { return nil }

// EntryService provides application-level ledger entry operations. All
// mutations enforce the project's date lock and keep account balances
// consistent through compensating deltas.
type EntryService struct {
	entries     ledger.EntryRepository
	accounts    ledger.AccountRepository
	settings    ledger.SettingsRepository
	invalidator ReportInvalidator
	clock       shared.Clock
}

// EntryServiceOption is a functional option for configuring the service
type EntryServiceOption func(*EntryService)

// WithClock overrides the wall clock, for tests
func WithClock(clock shared.Clock) EntryServiceOption {
	return func(s *EntryService) {
		s.clock = clock
	}
}

// WithReportInvalidator wires the report cache invalidation hook
func WithReportInvalidator(inv ReportInvalidator) EntryServiceOption {
	return func(s *EntryService) {
		s.invalidator = inv
	}
}

// NewEntryService creates a new EntryService
func NewEntryService(
	entries ledger.EntryRepository,
	accounts ledger.AccountRepository,
	settings ledger.SettingsRepository,
	opts ...EntryServiceOption,
) *EntryService {
	s := &EntryService{
		entries:     entries,
		accounts:    accounts,
		settings:    settings,
		invalidator: noopInvalidator{},
		clock:       shared.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID              uuid.UUID       `json:"id"`
	Kind            string          `json:"kind"`
	FactDate        time.Time       `json:"fact_date"`
	ExpectedDate    time.Time       `json:"expected_date"`
	ActualDate      *time.Time      `json:"actual_date,omitempty"`
	ReceiveDeadline *time.Time      `json:"receive_deadline,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Active          bool            `json:"active"`
	Description     string          `json:"description,omitempty"`
	AttachmentRef   string          `json:"attachment_ref,omitempty"`
	CategoryID      *uuid.UUID      `json:"category_id,omitempty"`
	CompanyID       *uuid.UUID      `json:"company_id,omitempty"`
	AccountID       *uuid.UUID      `json:"account_id,omitempty"`
	SourceAccountID *uuid.UUID      `json:"source_account_id,omitempty"`
	DestAccountID   *uuid.UUID      `json:"destination_account_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreateEntryRequest represents a request to create a ledger entry
type CreateEntryRequest struct {
	FactDate        time.Time       `json:"fact_date" binding:"required"`
	ExpectedDate    *time.Time      `json:"expected_date"`
	ActualDate      *time.Time      `json:"actual_date"`
	ReceiveDeadline *time.Time      `json:"receive_deadline"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description"`
	AttachmentRef   string          `json:"attachment_ref"`
	CategoryID      *uuid.UUID      `json:"category_id"`
	CompanyID       *uuid.UUID      `json:"company_id"`
	AccountID       *uuid.UUID      `json:"account_id"`
	SourceAccountID *uuid.UUID      `json:"source_account_id"`
	DestAccountID   *uuid.UUID      `json:"destination_account_id"`
}

// UpdateEntryRequest represents a partial update of a ledger entry.
// Omitted fields stay untouched; the Clear flags reset optional fields.
type UpdateEntryRequest struct {
	FactDate        *time.Time       `json:"fact_date"`
	ExpectedDate    *time.Time       `json:"expected_date"`
	ActualDate      *time.Time       `json:"actual_date"`
	ClearActualDate bool             `json:"clear_actual_date"`
	ReceiveDeadline *time.Time       `json:"receive_deadline"`
	Amount          *decimal.Decimal `json:"amount"`
	Description     *string          `json:"description"`
	AttachmentRef   *string          `json:"attachment_ref"`
	CategoryID      *uuid.UUID       `json:"category_id"`
	CompanyID       *uuid.UUID       `json:"company_id"`
	AccountID       *uuid.UUID       `json:"account_id"`
	ClearAccount    bool             `json:"clear_account"`
	SourceAccountID *uuid.UUID       `json:"source_account_id"`
	DestAccountID   *uuid.UUID       `json:"destination_account_id"`
}

// EntryListFilter defines filtering options for entry list queries
type EntryListFilter struct {
	Kind            string     `form:"kind"`
	AccountID       *uuid.UUID `form:"account_id"`
	CompanyID       *uuid.UUID `form:"company_id"`
	From            *time.Time `form:"from"`
	To              *time.Time `form:"to"`
	IncludeInactive bool       `form:"include_inactive"`
}

// CreateEntry creates a new ledger entry and applies its balance deltas
func (s *EntryService) CreateEntry(ctx context.Context, projectID uuid.UUID, kind ledger.EntryKind, req CreateEntryRequest) (*EntryResponse, error) {
	fields := ledger.EntryFields{
		FactDate:             req.FactDate,
		ActualDate:           req.ActualDate,
		ReceiveDeadline:      req.ReceiveDeadline,
		Amount:               req.Amount,
		Description:          req.Description,
		AttachmentRef:        req.AttachmentRef,
		CategoryID:           req.CategoryID,
		CompanyID:            req.CompanyID,
		AccountID:            req.AccountID,
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestAccountID,
	}
	if req.ExpectedDate != nil {
		fields.ExpectedDate = *req.ExpectedDate
	}

	entry, err := ledger.NewEntry(projectID, kind, fields)
	if err != nil {
		return nil, err
	}

	if err := s.checkDateLock(ctx, projectID, entry.ActualDate); err != nil {
		return nil, err
	}
	if err := s.checkAccounts(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.entries.Create(ctx, entry, entry.Deltas()); err != nil {
		return nil, err
	}

	_ = s.invalidator.InvalidateProject(ctx, projectID)
	return toEntryResponse(entry), nil
}

// GetEntry loads one entry of the given kind
func (s *EntryService) GetEntry(ctx context.Context, projectID uuid.UUID, kind ledger.EntryKind, id uuid.UUID) (*EntryResponse, error) {
	entry, err := s.entries.FindByID(ctx, projectID, kind, id)
	if err != nil {
		return nil, err
	}
	return toEntryResponse(entry), nil
}

// ListEntries lists entries matching the filter
func (s *EntryService) ListEntries(ctx context.Context, projectID uuid.UUID, filter EntryListFilter) ([]*EntryResponse, error) {
	repoFilter := ledger.EntryFilter{
		AccountID:       filter.AccountID,
		CompanyID:       filter.CompanyID,
		From:            filter.From,
		To:              filter.To,
		IncludeInactive: filter.IncludeInactive,
	}
	if filter.Kind != "" {
		kind := ledger.EntryKind(filter.Kind)
		if !kind.IsValid() {
			return nil, shared.NewDomainError("INVALID_KIND", "Unknown entry kind")
		}
		repoFilter.Kind = &kind
	}

	entries, err := s.entries.FindForProject(ctx, projectID, repoFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]*EntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = toEntryResponse(entry)
	}
	return responses, nil
}

// UpdateEntry applies a partial update, reverting the old balance deltas
// and applying the new ones in one unit of work.
func (s *EntryService) UpdateEntry(ctx context.Context, projectID uuid.UUID, kind ledger.EntryKind, id uuid.UUID, req UpdateEntryRequest) (*EntryResponse, error) {
	entry, err := s.entries.FindByID(ctx, projectID, kind, id)
	if err != nil {
		return nil, err
	}

	// An entry settled outside the editable window cannot be touched, and
	// neither can it be re-settled outside it.
	if err := s.checkDateLock(ctx, projectID, entry.ActualDate); err != nil {
		return nil, err
	}

	revert := ledger.InvertDeltas(entry.Deltas())

	changes := ledger.EntryChanges{
		FactDate:        req.FactDate,
		ExpectedDate:    req.ExpectedDate,
		ActualDate:      req.ActualDate,
		ClearActualDate: req.ClearActualDate,
		ReceiveDeadline: req.ReceiveDeadline,
		Amount:          req.Amount,
		Description:     req.Description,
		AttachmentRef:   req.AttachmentRef,
		CategoryID:      req.CategoryID,
		CompanyID:       req.CompanyID,
		AccountID:       req.AccountID,
		ClearAccount:    req.ClearAccount,
		SourceAccountID: req.SourceAccountID,
		DestAccountID:   req.DestAccountID,
	}
	if err := entry.Apply(changes); err != nil {
		return nil, err
	}

	if err := s.checkDateLock(ctx, projectID, entry.ActualDate); err != nil {
		return nil, err
	}
	if err := s.checkAccounts(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.entries.Update(ctx, entry, revert, entry.Deltas()); err != nil {
		return nil, err
	}

	_ = s.invalidator.InvalidateProject(ctx, projectID)
	return toEntryResponse(entry), nil
}

// DeleteEntry soft-deletes an entry, reverting its balance deltas. The
// date lock restricts dates supplied on create and update; a stored
// settlement date, however old, never blocks deletion.
func (s *EntryService) DeleteEntry(ctx context.Context, projectID uuid.UUID, kind ledger.EntryKind, id uuid.UUID) error {
	entry, err := s.entries.FindByID(ctx, projectID, kind, id)
	if err != nil {
		return err
	}

	revert := ledger.InvertDeltas(entry.Deltas())
	if err := entry.Deactivate(); err != nil {
		return err
	}

	if err := s.entries.Deactivate(ctx, entry, revert); err != nil {
		return err
	}

	_ = s.invalidator.InvalidateProject(ctx, projectID)
	return nil
}

// checkDateLock validates a settlement date against the project's lock.
// Entries without an actual date are never restricted.
func (s *EntryService) checkDateLock(ctx context.Context, projectID uuid.UUID, actualDate *time.Time) error {
	if actualDate == nil {
		return nil
	}

	lock, err := s.settings.GetDateLock(ctx, projectID)
	if err != nil {
		return err
	}

	if err := lock.Validate(*actualDate, s.clock.Now()); err != nil {
		return shared.NewDomainError("DATE_LOCKED", err.Error())
	}
	return nil
}

// checkAccounts verifies that every account the entry names exists in the
// project. The repository re-checks inside the transaction; this check
// exists to fail before any write and with a cleaner error.
func (s *EntryService) checkAccounts(ctx context.Context, entry *ledger.Entry) error {
	for _, d := range entry.Deltas() {
		if _, err := s.accounts.FindByID(ctx, entry.ProjectID, d.AccountID); err != nil {
			if err == shared.ErrNotFound {
				return shared.NewDomainError("ACCOUNT_NOT_FOUND", "Referenced account does not exist")
			}
			return err
		}
	}
	return nil
}

func toEntryResponse(e *ledger.Entry) *EntryResponse {
	return &EntryResponse{
		ID:              e.ID,
		Kind:            e.Kind.PathSegment(),
		FactDate:        e.FactDate,
		ExpectedDate:    e.ExpectedDate,
		ActualDate:      e.ActualDate,
		ReceiveDeadline: e.ReceiveDeadline,
		Amount:          e.Amount,
		Active:          e.Active,
		Description:     e.Description,
		AttachmentRef:   e.AttachmentRef,
		CategoryID:      e.CategoryID,
		CompanyID:       e.CompanyID,
		AccountID:       e.AccountID,
		SourceAccountID: e.SourceAccountID,
		DestAccountID:   e.DestinationAccountID,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}
