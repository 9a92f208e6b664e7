package ledger

import (
	"time"

	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is one ledger record of a single financial event. It is a closed
// tagged union over the six kinds: which of the optional references are
// populated depends on Kind and is enforced by validate.
//
// Entries are soft-deleted only. Once an entry has touched an account
// balance it stays in the ledger forever with Active=false so the
// compensating delta remains reconstructible.
type Entry struct {
	shared.ProjectEntity
	Kind EntryKind

	// FactDate is the economic event date, always set.
	FactDate time.Time
	// ExpectedDate is the predicted settlement date.
	ExpectedDate time.Time
	// ActualDate is the confirmed settlement date, nil while unsettled.
	ActualDate *time.Time
	// ReceiveDeadline extends the validity window of an unsettled Income
	// entry past its expected date. Nil for every other kind.
	ReceiveDeadline *time.Time

	Amount        decimal.Decimal
	Active        bool
	Description   string
	AttachmentRef string

	// CategoryID is set for Income, Expense and Production entries.
	CategoryID *uuid.UUID
	// CompanyID is set for every kind except Transfer.
	CompanyID *uuid.UUID

	// AccountID is the single account reference of non-transfer kinds.
	// It may stay nil until the entry settles (gets an ActualDate).
	AccountID *uuid.UUID
	// SourceAccountID and DestinationAccountID are the two legs of a
	// Transfer. Both are always set and must differ.
	SourceAccountID      *uuid.UUID
	DestinationAccountID *uuid.UUID
}

// EntryFields carries the caller-supplied values for creating an entry
type EntryFields struct {
	FactDate             time.Time
	ExpectedDate         time.Time
	ActualDate           *time.Time
	ReceiveDeadline      *time.Time
	Amount               decimal.Decimal
	Description          string
	AttachmentRef        string
	CategoryID           *uuid.UUID
	CompanyID            *uuid.UUID
	AccountID            *uuid.UUID
	SourceAccountID      *uuid.UUID
	DestinationAccountID *uuid.UUID
}

// EntryChanges carries a partial update; nil pointers leave the field
// untouched. Clear* flags reset an optional reference to nil.
type EntryChanges struct {
	FactDate        *time.Time
	ExpectedDate    *time.Time
	ActualDate      *time.Time
	ClearActualDate bool
	ReceiveDeadline *time.Time
	Amount          *decimal.Decimal
	Description     *string
	AttachmentRef   *string
	CategoryID      *uuid.UUID
	CompanyID       *uuid.UUID
	AccountID       *uuid.UUID
	ClearAccount    bool
	SourceAccountID *uuid.UUID
	DestAccountID   *uuid.UUID
}

// NewEntry creates a new active entry of the given kind, validating the
// per-kind field requirements.
func NewEntry(projectID uuid.UUID, kind EntryKind, f EntryFields) (*Entry, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown entry kind")
	}

	e := &Entry{
		ProjectEntity:        shared.NewProjectEntity(projectID),
		Kind:                 kind,
		FactDate:             f.FactDate,
		ExpectedDate:         f.ExpectedDate,
		ActualDate:           f.ActualDate,
		ReceiveDeadline:      f.ReceiveDeadline,
		Amount:               f.Amount,
		Active:               true,
		Description:          f.Description,
		AttachmentRef:        f.AttachmentRef,
		CategoryID:           f.CategoryID,
		CompanyID:            f.CompanyID,
		AccountID:            f.AccountID,
		SourceAccountID:      f.SourceAccountID,
		DestinationAccountID: f.DestinationAccountID,
	}
	if e.ExpectedDate.IsZero() {
		e.ExpectedDate = e.FactDate
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Apply applies a partial update and re-validates the resulting entry
func (e *Entry) Apply(c EntryChanges) error {
	if !e.Active {
		return shared.NewDomainError("INVALID_STATE", "Cannot update an inactive entry")
	}

	if c.FactDate != nil {
		e.FactDate = *c.FactDate
	}
	if c.ExpectedDate != nil {
		e.ExpectedDate = *c.ExpectedDate
	}
	if c.ClearActualDate {
		e.ActualDate = nil
	} else if c.ActualDate != nil {
		e.ActualDate = c.ActualDate
	}
	if c.ReceiveDeadline != nil {
		e.ReceiveDeadline = c.ReceiveDeadline
	}
	if c.Amount != nil {
		e.Amount = *c.Amount
	}
	if c.Description != nil {
		e.Description = *c.Description
	}
	if c.AttachmentRef != nil {
		e.AttachmentRef = *c.AttachmentRef
	}
	if c.CategoryID != nil {
		e.CategoryID = c.CategoryID
	}
	if c.CompanyID != nil {
		e.CompanyID = c.CompanyID
	}
	if c.ClearAccount {
		e.AccountID = nil
	} else if c.AccountID != nil {
		e.AccountID = c.AccountID
	}
	if c.SourceAccountID != nil {
		e.SourceAccountID = c.SourceAccountID
	}
	if c.DestAccountID != nil {
		e.DestinationAccountID = c.DestAccountID
	}
	e.UpdatedAt = time.Now()

	return e.validate()
}

// Deactivate soft-deletes the entry
func (e *Entry) Deactivate() error {
	if !e.Active {
		return shared.ErrNotFound
	}
	e.Active = false
	e.UpdatedAt = time.Now()
	return nil
}

// Reactivate restores a soft-deleted entry
func (e *Entry) Reactivate() error {
	if e.Active {
		return shared.NewDomainError("INVALID_STATE", "Entry is already active")
	}
	e.Active = true
	e.UpdatedAt = time.Now()
	return nil
}

// IsSettled reports whether the entry has a confirmed settlement date
func (e *Entry) IsSettled() bool {
	return e.ActualDate != nil
}

// EffectiveDate is the date used to bucket the entry in reports: the actual
// settlement date when known, otherwise the predicted (expected) date.
func (e *Entry) EffectiveDate() time.Time {
	if e.ActualDate != nil {
		return *e.ActualDate
	}
	return e.ExpectedDate
}

// ValidUntil is the last day an unsettled entry still counts as pending
// rather than overdue. For Income the deadline extends the expected date;
// every other kind uses the expected date alone.
func (e *Entry) ValidUntil() time.Time {
	if e.Kind == KindIncome && e.ReceiveDeadline != nil && e.ReceiveDeadline.After(e.ExpectedDate) {
		return *e.ReceiveDeadline
	}
	return e.ExpectedDate
}

// BalanceDelta is one signed adjustment to one account's running balance
type BalanceDelta struct {
	AccountID uuid.UUID
	Amount    decimal.Decimal
}

// Deltas returns the signed balance adjustments this entry contributes to
// the accounts it names. An entry naming no account contributes nothing.
func (e *Entry) Deltas() []BalanceDelta {
	if e.Kind == KindTransfer {
		if e.SourceAccountID == nil || e.DestinationAccountID == nil {
			return nil
		}
		return []BalanceDelta{
			{AccountID: *e.SourceAccountID, Amount: e.Amount.Neg()},
			{AccountID: *e.DestinationAccountID, Amount: e.Amount},
		}
	}
	if e.AccountID == nil {
		return nil
	}
	amount := e.Amount
	if e.Kind.Sign() < 0 {
		amount = amount.Neg()
	}
	return []BalanceDelta{{AccountID: *e.AccountID, Amount: amount}}
}

// InvertDeltas returns the compensating deltas that undo the given set
func InvertDeltas(deltas []BalanceDelta) []BalanceDelta {
	inverted := make([]BalanceDelta, len(deltas))
	for i, d := range deltas {
		inverted[i] = BalanceDelta{AccountID: d.AccountID, Amount: d.Amount.Neg()}
	}
	return inverted
}

// SignedAmount returns the entry amount with the kind's sign applied,
// as seen from the given account. A Transfer is negative from its source
// and positive into its destination.
func (e *Entry) SignedAmount(accountID uuid.UUID) decimal.Decimal {
	if e.Kind == KindTransfer {
		if e.SourceAccountID != nil && *e.SourceAccountID == accountID {
			return e.Amount.Neg()
		}
		return e.Amount
	}
	if e.Kind.Sign() < 0 {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Names reports whether the entry references the given account on any leg
func (e *Entry) Names(accountID uuid.UUID) bool {
	if e.AccountID != nil && *e.AccountID == accountID {
		return true
	}
	if e.SourceAccountID != nil && *e.SourceAccountID == accountID {
		return true
	}
	if e.DestinationAccountID != nil && *e.DestinationAccountID == accountID {
		return true
	}
	return false
}

func (e *Entry) validate() error {
	if e.FactDate.IsZero() {
		return shared.NewDomainError("INVALID_FACT_DATE", "Fact date is required")
	}
	if e.Amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}

	switch e.Kind {
	case KindIncome, KindExpense, KindProduction:
		if e.CategoryID == nil {
			return shared.NewDomainError("INVALID_CATEGORY", "Category is required")
		}
		if e.CompanyID == nil {
			return shared.NewDomainError("INVALID_COMPANY", "Company is required")
		}
		if e.ActualDate != nil && e.AccountID == nil {
			return shared.NewDomainError("INVALID_ACCOUNT", "A settled entry must name an account")
		}
	case KindCapital, KindWithdrawal:
		if e.CompanyID == nil {
			return shared.NewDomainError("INVALID_COMPANY", "Company is required")
		}
		if e.ActualDate != nil && e.AccountID == nil {
			return shared.NewDomainError("INVALID_ACCOUNT", "A settled entry must name an account")
		}
	case KindTransfer:
		if e.SourceAccountID == nil || e.DestinationAccountID == nil {
			return shared.NewDomainError("INVALID_ACCOUNT", "Transfer requires source and destination accounts")
		}
		if *e.SourceAccountID == *e.DestinationAccountID {
			return shared.NewDomainError("INVALID_ACCOUNT", "Transfer source and destination must differ")
		}
	default:
		return shared.NewDomainError("INVALID_KIND", "Unknown entry kind")
	}

	if e.Kind != KindIncome && e.ReceiveDeadline != nil {
		return shared.NewDomainError("INVALID_DEADLINE", "Only income entries carry a receive deadline")
	}
	return nil
}
