package models

import (
	"time"

	"github.com/cashdesk/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryModel is the persistence model for ledger entries. All six
// entry kinds share one table discriminated by the kind column; the
// optional references mirror the domain's per-kind field requirements.
type LedgerEntryModel struct {
	ProjectModel
	Kind            string     `gorm:"type:varchar(32);not null;index:idx_ledger_entries_project_kind,priority:2"`
	FactDate        time.Time  `gorm:"not null;index"`
	ExpectedDate    time.Time  `gorm:"not null"`
	ActualDate      *time.Time `gorm:"index"`
	ReceiveDeadline *time.Time

	Amount        decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Active        bool            `gorm:"not null;default:true;index"`
	Description   string          `gorm:"type:text"`
	AttachmentRef string          `gorm:"type:varchar(512)"`

	CategoryID           *uuid.UUID `gorm:"type:uuid;index"`
	CompanyID            *uuid.UUID `gorm:"type:uuid;index"`
	AccountID            *uuid.UUID `gorm:"type:uuid;index"`
	SourceAccountID      *uuid.UUID `gorm:"type:uuid;index"`
	DestinationAccountID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName specifies the table name
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the model to a domain entry
func (m *LedgerEntryModel) ToDomain() *ledger.Entry {
	return &ledger.Entry{
		ProjectEntity:        m.ToDomainProjectEntity(),
		Kind:                 ledger.EntryKind(m.Kind),
		FactDate:             m.FactDate,
		ExpectedDate:         m.ExpectedDate,
		ActualDate:           m.ActualDate,
		ReceiveDeadline:      m.ReceiveDeadline,
		Amount:               m.Amount,
		Active:               m.Active,
		Description:          m.Description,
		AttachmentRef:        m.AttachmentRef,
		CategoryID:           m.CategoryID,
		CompanyID:            m.CompanyID,
		AccountID:            m.AccountID,
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
	}
}

// LedgerEntryModelFromDomain creates a model from a domain entry
func LedgerEntryModelFromDomain(e *ledger.Entry) *LedgerEntryModel {
	m := &LedgerEntryModel{
		Kind:                 string(e.Kind),
		FactDate:             e.FactDate,
		ExpectedDate:         e.ExpectedDate,
		ActualDate:           e.ActualDate,
		ReceiveDeadline:      e.ReceiveDeadline,
		Amount:               e.Amount,
		Active:               e.Active,
		Description:          e.Description,
		AttachmentRef:        e.AttachmentRef,
		CategoryID:           e.CategoryID,
		CompanyID:            e.CompanyID,
		AccountID:            e.AccountID,
		SourceAccountID:      e.SourceAccountID,
		DestinationAccountID: e.DestinationAccountID,
	}
	m.FromDomainProjectEntity(e.ProjectEntity)
	return m
}

// AccountModel is the persistence model for cash accounts
type AccountModel struct {
	ProjectModel
	Name           string          `gorm:"type:varchar(255);not null"`
	Type           string          `gorm:"type:varchar(32);not null"`
	CompanyID      uuid.UUID       `gorm:"type:uuid;index"`
	InitialBalance decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CurrentBalance decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Active         bool            `gorm:"not null;default:true"`
}

// TableName specifies the table name
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the model to a domain account
func (m *AccountModel) ToDomain() *ledger.Account {
	return &ledger.Account{
		ProjectEntity:  m.ToDomainProjectEntity(),
		Name:           m.Name,
		Type:           ledger.AccountType(m.Type),
		CompanyID:      m.CompanyID,
		InitialBalance: m.InitialBalance,
		CurrentBalance: m.CurrentBalance,
		Active:         m.Active,
	}
}

// AccountModelFromDomain creates a model from a domain account
func AccountModelFromDomain(a *ledger.Account) *AccountModel {
	m := &AccountModel{
		Name:           a.Name,
		Type:           string(a.Type),
		CompanyID:      a.CompanyID,
		InitialBalance: a.InitialBalance,
		CurrentBalance: a.CurrentBalance,
		Active:         a.Active,
	}
	m.FromDomainProjectEntity(a.ProjectEntity)
	return m
}
