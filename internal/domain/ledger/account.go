package ledger

import (
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType classifies an account for display purposes
type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeCash     AccountType = "CASH"
	AccountTypeCard     AccountType = "CARD"
)

// IsValid checks if the type is a valid AccountType
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCash, AccountTypeCard:
		return true
	}
	return false
}

// Account is a cash account whose running balance the ledger keeps
// consistent. Accounts are created and renamed by account management,
// which is outside this service; the ledger only adjusts CurrentBalance
// through relative deltas and reads the rest as reference data.
//
// Invariant: CurrentBalance == InitialBalance + sum of the signed amounts
// of every active entry naming this account.
type Account struct {
	shared.ProjectEntity
	Name           string
	Type           AccountType
	CompanyID      uuid.UUID
	InitialBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	Active         bool
}
